package models

import "time"

// ReportKind enumerates report types produced by the system.
type ReportKind string

const (
	ReportKindIncome          ReportKind = "income"
	ReportKindPendingPayments ReportKind = "pending_payments"
	ReportKindAttendance      ReportKind = "attendance"
)

// PendingPaymentRow is one line of the pending-payments export dataset.
type PendingPaymentRow struct {
	PaymentID   string     `db:"payment_id" json:"payment_id"`
	StudentName string     `db:"student_name" json:"student_name"`
	CourseName  string     `db:"course_name" json:"course_name"`
	Amount      string     `db:"amount" json:"amount"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
}

// IncomeRow is one line of the income export dataset.
type IncomeRow struct {
	PaymentID   string        `db:"payment_id" json:"payment_id"`
	StudentName string        `db:"student_name" json:"student_name"`
	CourseName  string        `db:"course_name" json:"course_name"`
	Amount      string        `db:"amount" json:"amount"`
	Method      PaymentMethod `db:"method" json:"method"`
	PaidAt      *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
}

// Report is a generated administrative report.
type Report struct {
	ID          string     `db:"id" json:"id"`
	Kind        ReportKind `db:"kind" json:"kind"`
	GeneratedAt time.Time  `db:"generated_at" json:"generated_at"`
	Description string     `db:"description" json:"description"`
}
