package auth

import (
	"context"
	"fmt"
)

// Role is the closed set of user roles. Authorization decisions are made
// exclusively from the permission matrix in policy.go, never from ad-hoc
// string comparisons at call sites.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Roles lists every valid role, in a stable order. Tests enumerate this to
// cover the whole permission matrix.
var Roles = []Role{RoleStudent, RoleFaculty, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Identity is the resolved caller of a request: the full user record the
// session token maps to.
type Identity struct {
	ID         int64   `json:"id,string"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       Role    `json:"role"`
	Department *string `json:"department"`
}

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(ContextIdentityKey).(*Identity)
	return ident, ok
}

func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, ident)
}
