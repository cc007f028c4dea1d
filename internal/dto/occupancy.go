package dto

import "github.com/noah-isme/edu-admin-api/internal/models"

// CourseOccupancyEntry is the per-course view returned by the
// instructor course report.
type CourseOccupancyEntry struct {
	ID                     string              `json:"id"`
	Name                   string              `json:"name"`
	Description            *string             `json:"description"`
	Capacity               int                 `json:"capacity"`
	CurrentEnrollmentCount int                 `json:"current_enrollment_count"`
	AvailableSeats         int                 `json:"available_seats"`
	Fee                    string              `json:"fee"`
	Status                 models.CourseStatus `json:"status"`
	InstructorName         string              `json:"instructor_name"`
	OccupancyPercent       float64             `json:"occupancy_percent"`
}
