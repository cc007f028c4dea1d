package models

// CredentialKind identifies which unique code a caller authenticates with.
type CredentialKind string

const (
	CredentialKindStaff      CredentialKind = "staff_code"
	CredentialKindStudent    CredentialKind = "enrollment_code"
	CredentialKindInstructor CredentialKind = "instructor_code"
)

// Credential is one identifier supplied to the access check. The probe
// order over multiple credentials is fixed: staff, student, instructor.
type Credential struct {
	Kind CredentialKind
	Code string
}
