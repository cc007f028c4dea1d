package models

import "time"

// NotificationKind enumerates supported notification types.
type NotificationKind string

const (
	NotificationKindPaymentReminder NotificationKind = "payment_reminder"
	NotificationKindIncomeRecorded  NotificationKind = "income_recorded"
)

// NotificationStatus enumerates delivery states.
type NotificationStatus string

const (
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusPending NotificationStatus = "pending"
)

// PendingDelivery is a pending notification joined with the recipient's
// email for dispatching.
type PendingDelivery struct {
	Notification
	RecipientEmail string `db:"recipient_email" json:"recipient_email"`
}

// Notification is a message addressed to a user.
type Notification struct {
	ID      string             `db:"id" json:"id"`
	UserID  string             `db:"user_id" json:"user_id"`
	Kind    NotificationKind   `db:"kind" json:"kind"`
	Message string             `db:"message" json:"message"`
	SentAt  time.Time          `db:"sent_at" json:"sent_at"`
	Status  NotificationStatus `db:"status" json:"status"`
}
