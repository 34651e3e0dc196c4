// Package discount implements percentage discount codes and their
// eligibility rules.
package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no code matches a lookup.
var ErrNotFound = errors.New("discount code not found")

// Code is a percentage discount code with an eligibility window and an
// optional usage cap. Codes match case-insensitively.
type Code struct {
	ID         int64
	Code       string
	Percentage decimal.Decimal
	ValidFrom  time.Time
	ValidTo    time.Time
	MaxUses    *int
	UsedCount  int
	Active     bool
}

// Usable reports whether the code can be applied at the given instant:
// inside its validity window, under its usage cap, and active.
func (c *Code) Usable(now time.Time) bool {
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return false
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return false
	}
	return c.Active
}

// Repository provides lookup and usage accounting for discount codes.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Code, error)
	IncrementUsedCount(ctx context.Context, id int64) error
}
