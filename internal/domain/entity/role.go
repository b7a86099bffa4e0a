package entity

// Role is fixed at account creation and never changes afterwards.
type Role string

const (
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
	RoleAdmin   Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Caller is the authenticated identity an operation runs on behalf of.
// The zero value means no identity.
type Caller struct {
	UserID uint
	Role   Role
}

func (c Caller) Authenticated() bool {
	return c.UserID != 0 && c.Role.Valid()
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
