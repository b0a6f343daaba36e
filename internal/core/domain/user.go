package domain

import (
	"fmt"
	"slices"
	"time"
)

// Role is a portal role granted to a user.
type Role string

const (
	RoleUser       Role = "ROLE_PORTAL_USER"
	RoleAdmin      Role = "ROLE_PORTAL_ADMIN"
	RoleSuperAdmin Role = "ROLE_PORTAL_SUPERADMIN"
)

// ParseRole converts a raw string into a known Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Roles is the set of roles held by a user. Order is not significant and
// duplicates are dropped by NewRoles.
type Roles []Role

// NewRoles builds a de-duplicated role set.
func NewRoles(roles ...Role) Roles {
	out := make(Roles, 0, len(roles))
	for _, r := range roles {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}

// ParseRoles converts stored role names, rejecting unknown values.
func ParseRoles(raw []string) (Roles, error) {
	roles := make([]Role, 0, len(raw))
	for _, s := range raw {
		r, err := ParseRole(s)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return NewRoles(roles...), nil
}

func (rs Roles) Has(role Role) bool {
	return slices.Contains(rs, role)
}

// IsPrivileged reports whether the set holds ADMIN or SUPERADMIN.
func (rs Roles) IsPrivileged() bool {
	return rs.Has(RoleAdmin) || rs.Has(RoleSuperAdmin)
}

// OnlyUser reports whether USER is the single role in the set.
func (rs Roles) OnlyUser() bool {
	return len(rs) == 1 && rs[0] == RoleUser
}

// With returns a copy of the set including role.
func (rs Roles) With(role Role) Roles {
	return NewRoles(append(slices.Clone(rs), role)...)
}

// Without returns a copy of the set excluding role.
func (rs Roles) Without(role Role) Roles {
	out := make(Roles, 0, len(rs))
	for _, r := range rs {
		if r != role {
			out = append(out, r)
		}
	}
	return out
}

// Strings returns the role names for persistence.
func (rs Roles) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// User models an authenticated actor in the system.
type User struct {
	ID           string       `json:"user_id"`
	Name         string       `json:"name"`
	Surname      string       `json:"surname"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Roles        Roles        `json:"roles"`
	IsActive     bool         `json:"is_active"`
	Location     *Coordinates `json:"location,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
