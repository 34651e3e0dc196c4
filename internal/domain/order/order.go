// Package order defines the immutable order snapshot and its lifecycle.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status enumerates the order lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Countable reports whether orders in this status count toward revenue and
// purchase checks.
func (s Status) Countable() bool {
	return s == StatusPaid || s == StatusShipped || s == StatusCompleted
}

// InvalidTransitionError reports a disallowed status change.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return "invalid order status transition: " + string(e.From) + " -> " + string(e.To)
}

// next maps each status to its single forward successor.
var next = map[Status]Status{
	StatusPending: StatusPaid,
	StatusPaid:    StatusShipped,
	StatusShipped: StatusCompleted,
}

// CanTransition reports whether from may move to to: one step forward along
// pending -> paid -> shipped -> completed, or to cancelled from any
// non-terminal state.
func CanTransition(from, to Status) bool {
	if to == StatusCancelled {
		return !from.Terminal()
	}
	return next[from] == to
}

// Item is an order line capturing the price at time of purchase. It is never
// re-read from the product after creation.
type Item struct {
	ID        int64
	ProductID int64
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

// Order is an immutable snapshot of a finalized cart. Only Status changes
// after creation.
type Order struct {
	ID            string
	UserID        int64
	Status        Status
	TotalPrice    decimal.Decimal
	ShippingFee   decimal.Decimal
	DiscountID    *int64
	Address       string
	ReceiverPhone string
	PaymentRef    string
	Items         []Item
	CreatedAt     time.Time
}

// PaymentMethod is the channel a payment attempt went through. Finalization
// is webhook-driven, so only the hosted provider value is emitted.
type PaymentMethod string

const MethodStripe PaymentMethod = "stripe"

// PaymentStatus is the outcome of a payment attempt. Orders are created only
// on confirmed payments, so only the success value is emitted.
type PaymentStatus string

const PaymentSuccess PaymentStatus = "success"

// Payment is one append-only payment attempt record for an order.
type Payment struct {
	ID              int64
	OrderID         string
	Amount          decimal.Decimal
	Method          PaymentMethod
	Status          PaymentStatus
	TransactionDate time.Time
}

// Repository defines order persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	// UpdateStatus applies a status change with compare-and-set semantics on
	// the previous status. The transition into completed increments each line
	// product's sold counter by its quantity, exactly once, inside the same
	// transaction.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	// HasPurchased reports whether the user has a paid, shipped, or completed
	// order containing the product.
	HasPurchased(ctx context.Context, userID, productID int64) (bool, error)
}
