package dto

import "github.com/noah-isme/edu-admin-api/internal/models"

// NoRecentChanges is reported for pending payments without history rows.
const NoRecentChanges = "no recent changes"

// PendingPaymentSummary describes one pending payment together with the
// most recent audit entry, when any exists.
type PendingPaymentSummary struct {
	ID             string                `json:"id"`
	Amount         string                `json:"amount"`
	Status         models.PaymentStatus  `json:"status"`
	DueDate        *string               `json:"due_date"`
	Comment        *string               `json:"comment"`
	PreviousStatus *models.PaymentStatus `json:"previous_status"`
	NewStatus      *models.PaymentStatus `json:"new_status"`
	PaidAt         *string               `json:"paid_at"`
}

// StudentSummaryEntry is the per-enrollment view returned by the
// student summary endpoint.
type StudentSummaryEntry struct {
	Course                 string                  `json:"course"`
	EnrollmentStatus       models.EnrollmentStatus `json:"enrollment_status"`
	PendingPayments        []PendingPaymentSummary `json:"pending_payments"`
	OccupancyPercent       float64                 `json:"occupancy_percent"`
	Capacity               int                     `json:"capacity"`
	CurrentEnrollmentCount int                     `json:"current_enrollment_count"`
}
