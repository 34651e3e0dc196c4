// Package cart implements the per-user shopping cart aggregate.
//
// A cart owns its line items, an optional resolved discount code, a delivery
// address, and two cached fee fields. The fee fields are derived values:
// every structural mutation must be followed by a recompute before the cart
// is read again.
package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/domain/discount"
)

var (
	// ErrItemNotFound is returned when a line item id does not exist in the cart.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Item is one cart line. Price and name are read through the product
// reference at cart load time; they are not snapshotted until checkout.
type Item struct {
	ID          int64
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Cart is the per-user cart aggregate. ShippingFee and ServiceFee are cached
// recomputed values, never set directly by callers.
type Cart struct {
	ID              int64
	UserID          int64
	Address         string
	DiscountID      *int64
	DiscountCode    string
	DiscountPercent decimal.Decimal
	ShippingFee     decimal.Decimal
	ServiceFee      decimal.Decimal
	Items           []Item
}

// Subtotal returns the sum of unit price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// DiscountAmount is a derived presentation value, computed on read rather
// than persisted.
func (c *Cart) DiscountAmount() decimal.Decimal {
	if c.DiscountID == nil {
		return decimal.Zero
	}
	return discount.Amount(c.Subtotal(), c.DiscountPercent)
}

// TotalQuantity returns the summed quantity across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// Repository defines cart persistence. Implementations must make AddItem's
// accumulate-on-duplicate atomic (two concurrent adds of the same product
// must not lose an increment).
type Repository interface {
	// GetByUser returns the user's cart with items loaded, creating an empty
	// cart lazily on first access.
	GetByUser(ctx context.Context, userID int64) (*Cart, error)
	// AddItem inserts a line or atomically accumulates quantity when a line
	// for the product already exists.
	AddItem(ctx context.Context, cartID, productID int64, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID int64) error
	SetDiscount(ctx context.Context, cartID int64, discountID *int64) error
	SetAddress(ctx context.Context, cartID int64, address string) error
	UpdateFees(ctx context.Context, cartID int64, shipping, service decimal.Decimal) error
}
