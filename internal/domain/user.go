package domain

import "regexp"

// Role represents a user role.
type Role string

// List of possible user roles
const (
	RoleClient  Role = "client"
	RoleCourier Role = "courier"
	RoleAdmin   Role = "admin"
)

// List of allowed roles
var allowedRoles = [...]Role{
	RoleClient, RoleCourier, RoleAdmin,
}

// Valid checks if the Role is valid
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Provisionable reports whether the role may be issued through admin
// provisioning. Admin accounts are never provisioned from the app.
func (r Role) Provisionable() bool {
	return r == RoleClient || r == RoleCourier
}

// User represents an authenticated account issued by the auth service.
// It lives only in session memory and is discarded on logout.
type User struct {
	ID     int64
	Phone  string
	Role   Role
	Name   string
	QRCode string
}

// rePhone is a regex to validate phone numbers
var rePhone = regexp.MustCompile(`^\+[0-9]{11}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
