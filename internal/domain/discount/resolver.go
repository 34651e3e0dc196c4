package discount

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Validation messages surfaced to clients by the read-only probe.
const (
	msgNotFound  = "code not found"
	msgExhausted = "expired or exhausted"
)

// Validation is the result of probing a discount code.
type Validation struct {
	Valid      bool
	Percentage decimal.Decimal
	Message    string
}

// Resolver validates discount codes and computes discount amounts.
type Resolver struct {
	repo Repository
	now  func() time.Time
}

// NewResolver creates a Resolver backed by the given repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo, now: time.Now}
}

// Validate probes a code's eligibility without consuming a use. Usage
// accounting happens at order commit, never here.
func (r *Resolver) Validate(ctx context.Context, code string) (Validation, error) {
	c, err := r.repo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Validation{Message: msgNotFound}, nil
		}
		return Validation{}, errors.Wrap(err, "lookup code")
	}
	if !c.Usable(r.now()) {
		return Validation{Message: msgExhausted}, nil
	}
	return Validation{Valid: true, Percentage: c.Percentage}, nil
}

// Amount returns floor(subtotal * percentage / 100).
func Amount(subtotal, percentage decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(percentage).Div(hundred).Floor()
}
