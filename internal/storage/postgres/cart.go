package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/domain/cart"
)

const (
	ensureCartSQL = `INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	getCartByUserSQL = `SELECT c.id, c.user_id, c.address, c.discount_id,
			COALESCE(d.code, ''), COALESCE(d.percentage, 0),
			c.shipping_fee, c.service_fee
		FROM carts c
		LEFT JOIN discount_codes d ON d.id = c.discount_id
		WHERE c.user_id = $1`

	getCartItemsSQL = `SELECT ci.id, ci.product_id, p.name, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

	addCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	updateCartItemSQL = `UPDATE cart_items SET quantity = $3
		WHERE cart_id = $1 AND id = $2`

	removeCartItemSQL = `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`

	setCartDiscountSQL = `UPDATE carts SET discount_id = $2 WHERE id = $1`

	setCartAddressSQL = `UPDATE carts SET address = $2 WHERE id = $1`

	updateCartFeesSQL = `UPDATE carts SET shipping_fee = $2, service_fee = $3 WHERE id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetByUser loads the user's cart with items, creating an empty cart row on
// first access. Item names and prices are read live from the product table.
func (r *CartRepository) GetByUser(ctx context.Context, userID int64) (*cart.Cart, error) {
	if _, err := r.pool.Exec(ctx, ensureCartSQL, userID); err != nil {
		return nil, fmt.Errorf("ensuring cart for user %d: %w", userID, err)
	}

	var (
		c        cart.Cart
		shipping decimal.Decimal
		service  decimal.Decimal
		percent  decimal.Decimal
	)
	err := r.pool.QueryRow(ctx, getCartByUserSQL, userID).Scan(
		&c.ID, &c.UserID, &c.Address, &c.DiscountID,
		&c.DiscountCode, &percent, &shipping, &service,
	)
	if err != nil {
		return nil, fmt.Errorf("getting cart for user %d: %w", userID, err)
	}
	c.DiscountPercent = percent
	c.ShippingFee = shipping
	c.ServiceFee = service

	rows, err := r.pool.Query(ctx, getCartItemsSQL, c.ID)
	if err != nil {
		return nil, fmt.Errorf("getting cart items for cart %d: %w", c.ID, err)
	}
	c.Items, err = pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("scanning cart items for cart %d: %w", c.ID, err)
	}
	return &c, nil
}

// AddItem inserts a line or accumulates quantity onto an existing line for
// the same product. The upsert makes concurrent adds lose no increments.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID int64, quantity int) error {
	_, err := r.pool.Exec(ctx, addCartItemSQL, cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("adding product %d to cart %d: %w", productID, cartID, err)
	}
	return nil
}

// UpdateItemQuantity replaces the quantity of one line.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error {
	tag, err := r.pool.Exec(ctx, updateCartItemSQL, cartID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("updating item %d in cart %d: %w", itemID, cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// RemoveItem deletes one line from the cart.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	tag, err := r.pool.Exec(ctx, removeCartItemSQL, cartID, itemID)
	if err != nil {
		return fmt.Errorf("removing item %d from cart %d: %w", itemID, cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// SetDiscount attaches or clears the cart's discount reference.
func (r *CartRepository) SetDiscount(ctx context.Context, cartID int64, discountID *int64) error {
	_, err := r.pool.Exec(ctx, setCartDiscountSQL, cartID, discountID)
	if err != nil {
		return fmt.Errorf("setting discount on cart %d: %w", cartID, err)
	}
	return nil
}

// SetAddress replaces the cart's delivery address.
func (r *CartRepository) SetAddress(ctx context.Context, cartID int64, address string) error {
	_, err := r.pool.Exec(ctx, setCartAddressSQL, cartID, address)
	if err != nil {
		return fmt.Errorf("setting address on cart %d: %w", cartID, err)
	}
	return nil
}

// UpdateFees persists recomputed shipping and service fees.
func (r *CartRepository) UpdateFees(ctx context.Context, cartID int64, shipping, service decimal.Decimal) error {
	_, err := r.pool.Exec(ctx, updateCartFeesSQL, cartID, shipping, service)
	if err != nil {
		return fmt.Errorf("updating fees on cart %d: %w", cartID, err)
	}
	return nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var (
		it    cart.Item
		price decimal.Decimal
	)
	err := row.Scan(&it.ID, &it.ProductID, &it.ProductName, &price, &it.Quantity)
	it.UnitPrice = price
	return it, err
}
