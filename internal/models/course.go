package models

import "time"

// CourseKind distinguishes short courses from diploma programmes.
type CourseKind string

const (
	CourseKindCourse  CourseKind = "course"
	CourseKindDiploma CourseKind = "diploma"
)

// CourseStatus enumerates course lifecycle states.
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "active"
	CourseStatusInactive CourseStatus = "inactive"
)

// Course represents an offered course or diploma programme. Fee is kept
// as decimal text to avoid float rounding on money values.
type Course struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Description  *string      `db:"description" json:"description,omitempty"`
	Kind         CourseKind   `db:"kind" json:"kind"`
	Fee          string       `db:"fee" json:"fee"`
	Status       CourseStatus `db:"status" json:"status"`
	StartDate    time.Time    `db:"start_date" json:"start_date"`
	EndDate      time.Time    `db:"end_date" json:"end_date"`
	Capacity     int          `db:"capacity" json:"capacity"`
	InstructorID *string      `db:"instructor_id" json:"instructor_id,omitempty"`
	ModuleCount  int          `db:"module_count" json:"module_count"`
	HourCount    int          `db:"hour_count" json:"hour_count"`
	Code         string       `db:"code" json:"code"`
	TeacherName  string       `db:"teacher_name" json:"teacher_name"`
	Faculty      string       `db:"faculty" json:"faculty"`
	Phone        string       `db:"phone" json:"phone"`
	ImageURL     *string      `db:"image_url" json:"image_url,omitempty"`
}

// CourseFilter captures search parameters for listing courses.
type CourseFilter struct {
	InstructorID string
	Status       string
	Page         int
	PageSize     int
}
