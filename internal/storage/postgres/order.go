package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/glowmart/internal/domain/order"
)

const (
	getOrderByIDSQL = `SELECT id, user_id, status, total_price, shipping_fee, discount_id,
			address, receiver_phone, COALESCE(payment_ref, ''), created_at
		FROM orders WHERE id = $1`

	listOrdersByUserSQL = `SELECT id, user_id, status, total_price, shipping_fee, discount_id,
			address, receiver_phone, COALESCE(payment_ref, ''), created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	getOrderItemsSQL = `SELECT oi.id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	updateOrderStatusSQL = `UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`

	getOrderStatusSQL = `SELECT status FROM orders WHERE id = $1`

	incrementSoldSQL = `UPDATE products p SET sold = p.sold + oi.quantity
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id`

	hasPurchasedSQL = `SELECT EXISTS (
		SELECT 1 FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = $1 AND oi.product_id = $2
			AND o.status IN ('paid', 'shipped', 'completed'))`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetByID returns an order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	if o.Items, err = r.loadItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByUser returns the user's orders, newest first, with items loaded.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("scanning orders for user %d: %w", userID, err)
	}
	for i := range orders {
		if orders[i].Items, err = r.loadItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus applies a status change with compare-and-set on the previous
// status. The transition into completed also increments each line product's
// sold counter, in the same transaction, so a lost CAS race can never double
// count.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to order.Status) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning status update: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, updateOrderStatusSQL, id, from, to)
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		var current order.Status
		if err := tx.QueryRow(ctx, getOrderStatusSQL, id).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return order.ErrNotFound
			}
			return fmt.Errorf("checking status of order %q: %w", id, err)
		}
		return &order.InvalidTransitionError{From: current, To: to}
	}

	if to == order.StatusCompleted {
		if _, err := tx.Exec(ctx, incrementSoldSQL, id); err != nil {
			return fmt.Errorf("incrementing sold counters for order %q: %w", id, err)
		}
	}

	return tx.Commit(ctx)
}

// HasPurchased reports whether the user has a countable order containing the
// product.
func (r *OrderRepository) HasPurchased(ctx context.Context, userID, productID int64) (bool, error) {
	var purchased bool
	err := r.pool.QueryRow(ctx, hasPurchasedSQL, userID, productID).Scan(&purchased)
	if err != nil {
		return false, fmt.Errorf("checking purchase of product %d by user %d: %w", productID, userID, err)
	}
	return purchased, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, getOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting items for order %q: %w", orderID, err)
	}
	items, err := pgx.CollectRows(rows, scanOrderItem)
	if err != nil {
		return nil, fmt.Errorf("scanning items for order %q: %w", orderID, err)
	}
	return items, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalPrice, &o.ShippingFee,
		&o.DiscountID, &o.Address, &o.ReceiverPhone, &o.PaymentRef, &o.CreatedAt,
	)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(&it.ID, &it.ProductID, &it.Name, &it.Quantity, &it.Price)
	return it, err
}
