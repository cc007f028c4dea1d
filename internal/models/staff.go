package models

import "time"

// AccessLevel enumerates the permission tiers granted to staff accounts.
type AccessLevel string

const (
	AccessLevelViewOnly   AccessLevel = "view_only"
	AccessLevelViewAndAdd AccessLevel = "view_and_add"
	AccessLevelSuperuser  AccessLevel = "superuser"
)

// Valid reports whether the access level is one of the known tiers.
func (l AccessLevel) Valid() bool {
	switch l {
	case AccessLevelViewOnly, AccessLevelViewAndAdd, AccessLevelSuperuser:
		return true
	}
	return false
}

// AdminStaff extends User with administrative role fields.
type AdminStaff struct {
	User
	Department  string      `db:"department" json:"department"`
	Role        string      `db:"role" json:"role"`
	HiredAt     time.Time   `db:"hired_at" json:"hired_at"`
	StaffCode   string      `db:"staff_code" json:"staff_code"`
	AccessLevel AccessLevel `db:"access_level" json:"access_level"`
}
