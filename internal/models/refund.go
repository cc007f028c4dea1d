package models

import "time"

// RefundStatus enumerates refund request states.
type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "pending"
	RefundStatusApproved RefundStatus = "approved"
	RefundStatusRejected RefundStatus = "rejected"
)

// Refund is a user's request to reverse a payment.
type Refund struct {
	ID          string       `db:"id" json:"id"`
	UserID      string       `db:"user_id" json:"user_id"`
	PaymentID   string       `db:"payment_id" json:"payment_id"`
	Reason      string       `db:"reason" json:"reason"`
	Status      RefundStatus `db:"status" json:"status"`
	RequestedAt time.Time    `db:"requested_at" json:"requested_at"`
	ResolvedAt  *time.Time   `db:"resolved_at" json:"resolved_at,omitempty"`
}
