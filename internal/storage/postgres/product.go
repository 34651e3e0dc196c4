package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/glowmart/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, name, description, price, stock, sold, COALESCE(barcode, ''),
			COALESCE(brand_id, 0), COALESCE(category_id, 0)
		FROM products ORDER BY id`

	getProductByIDSQL = `SELECT id, name, description, price, stock, sold, COALESCE(barcode, ''),
			COALESCE(brand_id, 0), COALESCE(category_id, 0)
		FROM products WHERE id = $1`

	adjustStockSQL = `UPDATE products SET stock = stock + $2
		WHERE id = $1 AND stock + $2 >= 0`

	insertStockHistorySQL = `INSERT INTO stock_history (product_id, user_id, change, note)
		VALUES ($1, $2, $3, $4)`

	productExistsSQL = `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`

	productReferencedSQL = `SELECT EXISTS (SELECT 1 FROM order_items WHERE product_id = $1)`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products from the catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// AdjustStock applies a stock delta and records it in the stock history, both
// in one transaction. The UPDATE refuses deltas that would take stock below
// zero, which maps to product.ErrInsufficientStock.
func (r *ProductRepository) AdjustStock(ctx context.Context, change product.StockChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning stock adjustment: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, adjustStockSQL, change.ProductID, change.Change)
	if err != nil {
		return fmt.Errorf("adjusting stock for product %d: %w", change.ProductID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, productExistsSQL, change.ProductID).Scan(&exists); err != nil {
			return fmt.Errorf("checking product %d: %w", change.ProductID, err)
		}
		if !exists {
			return product.ErrNotFound
		}
		return product.ErrInsufficientStock
	}

	_, err = tx.Exec(ctx, insertStockHistorySQL,
		change.ProductID, change.UserID, change.Change, change.Note,
	)
	if err != nil {
		return fmt.Errorf("recording stock history for product %d: %w", change.ProductID, err)
	}

	return tx.Commit(ctx)
}

// Delete removes a product unless order items still reference it.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	var referenced bool
	if err := r.pool.QueryRow(ctx, productReferencedSQL, id).Scan(&referenced); err != nil {
		return fmt.Errorf("checking references for product %d: %w", id, err)
	}
	if referenced {
		return product.ErrReferencedByOrders
	}

	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Sold,
		&p.Barcode, &p.BrandID, &p.CategoryID,
	)
	return p, err
}
