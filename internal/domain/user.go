package domain

import "time"

// UserRole enumerates hotel staff roles.
type UserRole string

const (
	UserRoleSupervisor  UserRole = "SUPERVISOR"
	UserRoleHousePerson UserRole = "HOUSE_PERSON"
	UserRoleRunner      UserRole = "RUNNER"
	UserRoleStriper     UserRole = "STRIPER"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleSupervisor, UserRoleHousePerson, UserRoleRunner, UserRoleStriper:
		return true
	}
	return false
}

// User is a member of staff who creates or works requests.
type User struct {
	ID        string
	Name      string
	Role      UserRole
	Email     *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
