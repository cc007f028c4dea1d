package models

import "time"

// EmploymentStatus enumerates instructor employment states.
type EmploymentStatus string

const (
	EmploymentStatusActive  EmploymentStatus = "active"
	EmploymentStatusRetired EmploymentStatus = "retired"
)

// InstructorCategory distinguishes guest lecturers from official faculty.
type InstructorCategory string

const (
	InstructorCategoryGuest    InstructorCategory = "guest"
	InstructorCategoryOfficial InstructorCategory = "official"
)

// Instructor extends User with teaching-specific fields.
type Instructor struct {
	User
	Specialty        string             `db:"specialty" json:"specialty"`
	HiredAt          time.Time          `db:"hired_at" json:"hired_at"`
	Faculty          string             `db:"faculty" json:"faculty"`
	School           string             `db:"school" json:"school"`
	Campus           string             `db:"campus" json:"campus"`
	InstructorCode   string             `db:"instructor_code" json:"instructor_code"`
	EmploymentStatus EmploymentStatus   `db:"employment_status" json:"employment_status"`
	Category         InstructorCategory `db:"category" json:"category"`
}
