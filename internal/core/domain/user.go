package domain

import "time"

// Role is the persisted role flag of a user: 0 for buyers, 1 for administrators.
type Role int

const (
	RoleBuyer Role = 0
	RoleAdmin Role = 1
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleBuyer:
		return "buyer"
	default:
		return "unknown"
	}
}

// Capability names something a request may be allowed to do.
type Capability string

const CapabilityAdmin Capability = "admin"

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Has reports whether the user holds the given capability.
func (u *User) Has(c Capability) bool {
	if u == nil {
		return false
	}
	switch c {
	case CapabilityAdmin:
		return u.Role == RoleAdmin
	default:
		return false
	}
}

// IsAdmin is shorthand for Has(CapabilityAdmin).
func (u *User) IsAdmin() bool {
	return u.Has(CapabilityAdmin)
}
