package models

import "time"

// UserStatus enumerates account states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User holds the base fields shared by students, instructors and
// administrative staff. Kind-specific fields live in extension rows
// keyed by the same identifier.
type User struct {
	ID         string     `db:"id" json:"id"`
	FullName   string     `db:"full_name" json:"full_name"`
	NationalID string     `db:"national_id" json:"national_id"`
	Email      string     `db:"email" json:"email"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	Mobile     *string    `db:"mobile" json:"mobile,omitempty"`
	Address    *string    `db:"address" json:"address,omitempty"`
	SecretHash string     `db:"secret_hash" json:"-"`
	Status     UserStatus `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ListFilter captures the shared pagination parameters for listings.
type ListFilter struct {
	Page     int
	PageSize int
}
