// Package checkout converts a paid cart into an immutable order.
package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/domain/cart"
	"github.com/xenking/glowmart/internal/domain/discount"
	"github.com/xenking/glowmart/internal/domain/order"
	"github.com/xenking/glowmart/internal/domain/pricing"
	"github.com/xenking/glowmart/internal/domain/user"
)

var (
	// ErrEmptyCart is returned when finalization is attempted on a cart with
	// no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAlreadyProcessed signals a duplicate payment event; the first
	// finalization already committed and the caller should treat the retry
	// as a no-op.
	ErrAlreadyProcessed = errors.New("payment already processed")
)

// Commit is everything the store must persist atomically: the order snapshot
// with its payment record, plus the cart to clear and the discount whose
// usage counter to bump. Partial application is unacceptable; either all of
// it lands or none does.
type Commit struct {
	Order      order.Order
	Payment    order.Payment
	CartID     int64
	DiscountID *int64
}

// Store is the transactional persistence port for finalization.
type Store interface {
	// CommitOrder persists the commit in one transaction: the order with its
	// items and payment record, the discount usage increment, and the cart
	// clear (items deleted; discount, address, and fees reset). Returns
	// ErrAlreadyProcessed when an order with the same payment reference
	// already exists.
	CommitOrder(ctx context.Context, c Commit) error
}

// Finalizer turns a user's cart into a paid order once the payment provider
// confirms the charge.
type Finalizer struct {
	carts cart.Repository
	fees  *pricing.Calculator
	store Store
	now   func() time.Time
}

// NewFinalizer creates a Finalizer with the required dependencies.
func NewFinalizer(carts cart.Repository, fees *pricing.Calculator, store Store) *Finalizer {
	return &Finalizer{
		carts: carts,
		fees:  fees,
		store: store,
		now:   time.Now,
	}
}

// Finalize snapshots the user's cart into an order at the moment of payment
// confirmation. Totals are re-derived from current database state, not from
// the checkout session request, so cart drift between session creation and
// payment is tolerated. The commit clears the cart, including its delivery
// address; the cart row itself survives for reuse.
func (f *Finalizer) Finalize(ctx context.Context, ident user.Identity, paymentRef string) (*order.Order, error) {
	c, err := f.carts.GetByUser(ctx, ident.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := c.Subtotal()
	quote, err := f.fees.Quote(ctx, subtotal, c.Address)
	if err != nil {
		return nil, errors.Wrap(err, "quote fees")
	}

	discountAmount := decimal.Zero
	if c.DiscountID != nil {
		discountAmount = discount.Amount(subtotal, c.DiscountPercent)
	}
	total := pricing.OrderTotal(subtotal, quote.ShippingFee, quote.ServiceFee, discountAmount)

	address := c.Address
	if address == "" {
		address = ident.Address
	}

	items := make([]order.Item, len(c.Items))
	for i, it := range c.Items {
		items[i] = order.Item{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		}
	}

	now := f.now()
	o := order.Order{
		ID:            uuid.New().String(),
		UserID:        ident.UserID,
		Status:        order.StatusPaid,
		TotalPrice:    total,
		ShippingFee:   quote.ShippingFee,
		DiscountID:    c.DiscountID,
		Address:       address,
		ReceiverPhone: ident.Phone,
		PaymentRef:    paymentRef,
		Items:         items,
		CreatedAt:     now,
	}
	commit := Commit{
		Order: o,
		Payment: order.Payment{
			OrderID:         o.ID,
			Amount:          total,
			Method:          order.MethodStripe,
			Status:          order.PaymentSuccess,
			TransactionDate: now,
		},
		CartID:     c.ID,
		DiscountID: c.DiscountID,
	}

	if err := f.store.CommitOrder(ctx, commit); err != nil {
		return nil, err
	}
	return &o, nil
}
