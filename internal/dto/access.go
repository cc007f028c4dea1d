package dto

import "github.com/noah-isme/edu-admin-api/internal/models"

// AccessCheckRequest carries the credential-check payload. Secret is
// mandatory; at least one code must be present.
type AccessCheckRequest struct {
	Secret         string `json:"secret" validate:"required"`
	StaffCode      string `json:"staff_code"`
	InstructorCode string `json:"instructor_code"`
	EnrollmentCode string `json:"enrollment_code"`
}

// Credentials normalises the request into the ordered probe list.
func (r AccessCheckRequest) Credentials() []models.Credential {
	creds := make([]models.Credential, 0, 3)
	if r.StaffCode != "" {
		creds = append(creds, models.Credential{Kind: models.CredentialKindStaff, Code: r.StaffCode})
	}
	if r.EnrollmentCode != "" {
		creds = append(creds, models.Credential{Kind: models.CredentialKindStudent, Code: r.EnrollmentCode})
	}
	if r.InstructorCode != "" {
		creds = append(creds, models.Credential{Kind: models.CredentialKindInstructor, Code: r.InstructorCode})
	}
	return creds
}

// StaffAccessProfile is the restricted staff projection returned on a
// successful staff credential check. The secret never leaves the server.
type StaffAccessProfile struct {
	ID          string             `json:"id"`
	FullName    string             `json:"full_name"`
	Email       string             `json:"email"`
	Department  string             `json:"department"`
	Role        string             `json:"role"`
	StaffCode   string             `json:"staff_code"`
	AccessLevel models.AccessLevel `json:"access_level"`
}

// AccessCheckResponse reports a granted access check.
type AccessCheckResponse struct {
	Message     string              `json:"message"`
	AccessLevel *models.AccessLevel `json:"access_level,omitempty"`
	ID          string              `json:"id"`
	Data        interface{}         `json:"data"`
	AccessToken string              `json:"access_token,omitempty"`
}
