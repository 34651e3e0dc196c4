package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/domain/report"
)

const (
	revenueSQL = `SELECT COALESCE(SUM(total_price), 0), COUNT(*)
		FROM orders WHERE status IN ('paid', 'shipped', 'completed')`

	topProductsSQL = `SELECT oi.product_id, p.name, SUM(oi.quantity)::INT,
			COALESCE(SUM(oi.quantity * oi.price), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status IN ('paid', 'shipped', 'completed')
		GROUP BY oi.product_id, p.name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT $1`

	lowStockSQL = `SELECT id, name, stock FROM products
		WHERE stock <= $1 ORDER BY stock, id`
)

var _ report.Store = (*ReportStore)(nil)

// ReportStore implements report.Store with aggregation queries over countable
// orders.
type ReportStore struct {
	pool *pgxpool.Pool
}

// NewReportStore returns a ReportStore that uses the given pool.
func NewReportStore(pool *pgxpool.Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

// Revenue returns the summed total and count of countable orders.
func (s *ReportStore) Revenue(ctx context.Context) (decimal.Decimal, int, error) {
	var (
		revenue decimal.Decimal
		count   int
	)
	err := s.pool.QueryRow(ctx, revenueSQL).Scan(&revenue, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("aggregating revenue: %w", err)
	}
	return revenue, count, nil
}

// TopProducts returns the best sellers by summed quantity across countable
// orders.
func (s *ReportStore) TopProducts(ctx context.Context, limit int) ([]report.TopProduct, error) {
	rows, err := s.pool.Query(ctx, topProductsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregating top products: %w", err)
	}
	return pgx.CollectRows(rows, scanTopProduct)
}

// LowStock returns products at or below the stock threshold.
func (s *ReportStore) LowStock(ctx context.Context, threshold int) ([]report.LowStockProduct, error) {
	rows, err := s.pool.Query(ctx, lowStockSQL, threshold)
	if err != nil {
		return nil, fmt.Errorf("listing low stock products: %w", err)
	}
	return pgx.CollectRows(rows, scanLowStockProduct)
}

func scanTopProduct(row pgx.CollectableRow) (report.TopProduct, error) {
	var tp report.TopProduct
	err := row.Scan(&tp.ProductID, &tp.Name, &tp.Sold, &tp.Revenue)
	return tp, err
}

func scanLowStockProduct(row pgx.CollectableRow) (report.LowStockProduct, error) {
	var lp report.LowStockProduct
	err := row.Scan(&lp.ProductID, &lp.Name, &lp.Stock)
	return lp, err
}
