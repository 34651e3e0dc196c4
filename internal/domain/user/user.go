// Package user defines account identity passed explicitly through the core.
package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no user matches a lookup.
var ErrNotFound = errors.New("user not found")

// Role enumerates account roles.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
	RoleWarehouse Role = "warehouse"
)

// Identity is the authenticated caller, threaded explicitly through every
// core operation instead of living in ambient request state.
type Identity struct {
	UserID   int64
	Username string
	Email    string
	Phone    string
	Address  string
	Role     Role
}

// Staff reports whether the identity may perform staff-only operations.
func (i Identity) Staff() bool {
	return i.Role == RoleAdmin || i.Role == RoleStaff || i.Role == RoleWarehouse
}

// Repository defines user lookups needed by the core.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Identity, error)
	GetByEmail(ctx context.Context, email string) (*Identity, error)
}
