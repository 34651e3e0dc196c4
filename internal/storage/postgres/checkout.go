package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/glowmart/internal/domain/checkout"
)

const (
	insertOrderSQL = `INSERT INTO orders (id, user_id, status, total_price, shipping_fee,
			discount_id, address, receiver_phone, payment_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)`

	insertPaymentSQL = `INSERT INTO payment_transactions (order_id, amount, method, status, transaction_date)
		VALUES ($1, $2, $3, $4, $5)`

	clearCartItemsSQL = `DELETE FROM cart_items WHERE cart_id = $1`

	resetCartSQL = `UPDATE carts SET discount_id = NULL, address = '', shipping_fee = 0, service_fee = 0
		WHERE id = $1`
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

var _ checkout.Store = (*CheckoutStore)(nil)

// CheckoutStore implements checkout.Store: one transaction per finalized
// order.
type CheckoutStore struct {
	pool *pgxpool.Pool
}

// NewCheckoutStore returns a CheckoutStore that uses the given pool.
func NewCheckoutStore(pool *pgxpool.Pool) *CheckoutStore {
	return &CheckoutStore{pool: pool}
}

// CommitOrder persists the order snapshot, its payment record, the discount
// usage increment, and the cart clear in one transaction. The cart clear
// removes every item and resets discount, address, and both fees. A
// payment_ref collision means the event was already processed and maps to
// checkout.ErrAlreadyProcessed.
func (s *CheckoutStore) CommitOrder(ctx context.Context, c checkout.Commit) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order commit: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	o := c.Order
	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.UserID, o.Status, o.TotalPrice, o.ShippingFee,
		o.DiscountID, o.Address, o.ReceiverPhone, o.PaymentRef, o.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return checkout.ErrAlreadyProcessed
		}
		return fmt.Errorf("inserting order %q: %w", o.ID, err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, insertOrderItemSQL, o.ID, it.ProductID, it.Quantity, it.Price)
		if err != nil {
			return fmt.Errorf("inserting item for order %q: %w", o.ID, err)
		}
	}

	p := c.Payment
	_, err = tx.Exec(ctx, insertPaymentSQL, o.ID, p.Amount, p.Method, p.Status, p.TransactionDate)
	if err != nil {
		return fmt.Errorf("inserting payment for order %q: %w", o.ID, err)
	}

	if c.DiscountID != nil {
		_, err = tx.Exec(ctx, incrementDiscountUsedSQL, *c.DiscountID)
		if err != nil {
			return fmt.Errorf("incrementing used count for discount %d: %w", *c.DiscountID, err)
		}
	}

	if _, err = tx.Exec(ctx, clearCartItemsSQL, c.CartID); err != nil {
		return fmt.Errorf("clearing cart %d: %w", c.CartID, err)
	}
	if _, err = tx.Exec(ctx, resetCartSQL, c.CartID); err != nil {
		return fmt.Errorf("resetting cart %d: %w", c.CartID, err)
	}

	return tx.Commit(ctx)
}
