package models

import "time"

// Student extends User with learner-specific fields.
type Student struct {
	User
	EnrollmentCode string    `db:"enrollment_code" json:"enrollment_code"`
	RegisteredAt   time.Time `db:"registered_at" json:"registered_at"`
}
