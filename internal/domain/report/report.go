// Package report aggregates staff-facing sales and inventory figures.
package report

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// TopProduct is one row of the best-sellers list.
type TopProduct struct {
	ProductID int64
	Name      string
	Sold      int
	Revenue   decimal.Decimal
}

// LowStockProduct is one row of the restock watch list.
type LowStockProduct struct {
	ProductID int64
	Name      string
	Stock     int
}

// Summary is the staff report: revenue and order counts cover only orders in
// a countable status (paid, shipped, completed).
type Summary struct {
	Revenue     decimal.Decimal
	OrderCount  int
	TopProducts []TopProduct
	LowStock    []LowStockProduct
}

// Store provides the aggregation queries backing the report.
type Store interface {
	Revenue(ctx context.Context) (decimal.Decimal, int, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	LowStock(ctx context.Context, threshold int) ([]LowStockProduct, error)
}

// Service builds report summaries.
type Service struct {
	store             Store
	topLimit          int
	lowStockThreshold int
}

// NewService creates a report Service. Limits fall back to sensible defaults
// when non-positive.
func NewService(store Store, topLimit, lowStockThreshold int) *Service {
	if topLimit <= 0 {
		topLimit = 5
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	return &Service{
		store:             store,
		topLimit:          topLimit,
		lowStockThreshold: lowStockThreshold,
	}
}

// Summary runs the aggregation queries concurrently and assembles the result.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var out Summary

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		revenue, count, err := s.store.Revenue(ctx)
		if err != nil {
			return errors.Wrap(err, "revenue")
		}
		out.Revenue, out.OrderCount = revenue, count
		return nil
	})
	g.Go(func() error {
		top, err := s.store.TopProducts(ctx, s.topLimit)
		if err != nil {
			return errors.Wrap(err, "top products")
		}
		out.TopProducts = top
		return nil
	})
	g.Go(func() error {
		low, err := s.store.LowStock(ctx, s.lowStockThreshold)
		if err != nil {
			return errors.Wrap(err, "low stock")
		}
		out.LowStock = low
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
