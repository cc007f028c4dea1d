package models

import "time"

// PaymentMethod enumerates supported payment channels.
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodPaypal   PaymentMethod = "paypal"
	PaymentMethodManual   PaymentMethod = "manual"
)

// PaymentStatus enumerates payment states.
type PaymentStatus string

const (
	PaymentStatusComplete PaymentStatus = "complete"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
)

// Payment records money owed or received against an enrollment. Amount
// is decimal text for exact representation.
type Payment struct {
	ID           string        `db:"id" json:"id"`
	EnrollmentID string        `db:"enrollment_id" json:"enrollment_id"`
	Method       PaymentMethod `db:"method" json:"method"`
	Amount       string        `db:"amount" json:"amount"`
	Status       PaymentStatus `db:"status" json:"status"`
	PaidAt       *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
	DueDate      *time.Time    `db:"due_date" json:"due_date,omitempty"`
}

// PaymentFilter captures search parameters for listing payments.
type PaymentFilter struct {
	EnrollmentID string
	Status       string
	Page         int
	PageSize     int
}

// PaymentHistory is an append-only audit record of payment status changes.
type PaymentHistory struct {
	ID             string        `db:"id" json:"id"`
	PaymentID      string        `db:"payment_id" json:"payment_id"`
	PreviousStatus PaymentStatus `db:"previous_status" json:"previous_status"`
	NewStatus      PaymentStatus `db:"new_status" json:"new_status"`
	ChangedAt      time.Time     `db:"changed_at" json:"changed_at"`
	Comment        *string       `db:"comment" json:"comment,omitempty"`
}
