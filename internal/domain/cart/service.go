package cart

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/glowmart/internal/domain/discount"
	"github.com/xenking/glowmart/internal/domain/pricing"
	"github.com/xenking/glowmart/internal/domain/product"
	"github.com/xenking/glowmart/internal/domain/user"
)

// Service applies cart mutations and keeps the cached fee fields consistent.
// Every mutation ends with a recompute so the aggregate invariant holds when
// the request returns.
type Service struct {
	carts     Repository
	products  product.Repository
	discounts discount.Repository
	fees      *pricing.Calculator
}

// NewService creates a cart Service with the required dependencies.
func NewService(
	carts Repository,
	products product.Repository,
	discounts discount.Repository,
	fees *pricing.Calculator,
) *Service {
	return &Service{
		carts:     carts,
		products:  products,
		discounts: discounts,
		fees:      fees,
	}
}

// Get returns the caller's cart, creating it lazily on first access.
func (s *Service) Get(ctx context.Context, ident user.Identity) (*Cart, error) {
	c, err := s.carts.GetByUser(ctx, ident.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	return c, nil
}

// AddItem adds quantity of a product to the cart. Adding a product already
// in the cart accumulates onto the existing line instead of creating a
// second one.
func (s *Service) AddItem(ctx context.Context, ident user.Identity, productID int64, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	c, err := s.carts.GetByUser(ctx, ident.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if err := s.carts.AddItem(ctx, c.ID, productID, quantity); err != nil {
		return nil, errors.Wrap(err, "add item")
	}
	return s.recompute(ctx, ident)
}

// UpdateItem replaces the quantity of an existing line.
func (s *Service) UpdateItem(ctx context.Context, ident user.Identity, itemID int64, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	c, err := s.carts.GetByUser(ctx, ident.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if err := s.carts.UpdateItemQuantity(ctx, c.ID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.recompute(ctx, ident)
}

// RemoveItem deletes a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, ident user.Identity, itemID int64) (*Cart, error) {
	c, err := s.carts.GetByUser(ctx, ident.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if err := s.carts.RemoveItem(ctx, c.ID, itemID); err != nil {
		return nil, err
	}
	return s.recompute(ctx, ident)
}

// SetDiscount resolves a code and attaches it to the cart. An empty or
// unknown code clears the discount without erroring; callers probing for
// validity should use the discount resolver instead.
func (s *Service) SetDiscount(ctx context.Context, ident user.Identity, code string) (*Cart, error) {
	c, err := s.carts.GetByUser(ctx, ident.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}

	var discountID *int64
	if code = strings.TrimSpace(code); code != "" {
		dc, err := s.discounts.FindByCode(ctx, code)
		switch {
		case err == nil:
			discountID = &dc.ID
		case errors.Is(err, discount.ErrNotFound):
			// Unknown codes clear the discount silently.
		default:
			return nil, errors.Wrap(err, "lookup discount")
		}
	}

	if err := s.carts.SetDiscount(ctx, c.ID, discountID); err != nil {
		return nil, errors.Wrap(err, "set discount")
	}
	return s.recompute(ctx, ident)
}

// SetAddress updates the delivery address and recomputes the region-dependent
// shipping fee.
func (s *Service) SetAddress(ctx context.Context, ident user.Identity, address string) (*Cart, error) {
	c, err := s.carts.GetByUser(ctx, ident.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if err := s.carts.SetAddress(ctx, c.ID, address); err != nil {
		return nil, errors.Wrap(err, "set address")
	}
	return s.recompute(ctx, ident)
}

// recompute reloads the cart, derives fees from its current state, and
// persists the cached fee fields.
func (s *Service) recompute(ctx context.Context, ident user.Identity) (*Cart, error) {
	c, err := s.carts.GetByUser(ctx, ident.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "reload cart")
	}

	quote, err := s.fees.Quote(ctx, c.Subtotal(), c.Address)
	if err != nil {
		return nil, errors.Wrap(err, "quote fees")
	}
	if err := s.carts.UpdateFees(ctx, c.ID, quote.ShippingFee, quote.ServiceFee); err != nil {
		return nil, errors.Wrap(err, "update fees")
	}

	c.ShippingFee = quote.ShippingFee
	c.ServiceFee = quote.ServiceFee
	return c, nil
}
