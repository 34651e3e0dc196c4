package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/domain/pricing"
)

const (
	getServiceFeePercentSQL = `SELECT service_fee_percent FROM fee_config
		ORDER BY updated_at DESC, id DESC LIMIT 1`

	insertServiceFeePercentSQL = `INSERT INTO fee_config (service_fee_percent) VALUES ($1)`
)

var _ pricing.ConfigStore = (*FeeConfigStore)(nil)

// FeeConfigStore implements pricing.ConfigStore on versioned config rows; the
// most recently updated row wins.
type FeeConfigStore struct {
	pool *pgxpool.Pool
}

// NewFeeConfigStore returns a FeeConfigStore that uses the given pool.
func NewFeeConfigStore(pool *pgxpool.Pool) *FeeConfigStore {
	return &FeeConfigStore{pool: pool}
}

// ServiceFeePercent returns the configured service fee percentage, falling
// back to the default when no configuration row exists.
func (s *FeeConfigStore) ServiceFeePercent(ctx context.Context) (decimal.Decimal, error) {
	var percent decimal.Decimal
	err := s.pool.QueryRow(ctx, getServiceFeePercentSQL).Scan(&percent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.DefaultServiceFeePercent, nil
		}
		return decimal.Zero, fmt.Errorf("getting service fee percent: %w", err)
	}
	return percent, nil
}

// SetServiceFeePercent appends a new config row. History is kept; future
// quotes pick up the new value immediately, existing orders are untouched.
func (s *FeeConfigStore) SetServiceFeePercent(ctx context.Context, percent decimal.Decimal) error {
	_, err := s.pool.Exec(ctx, insertServiceFeePercentSQL, percent)
	if err != nil {
		return fmt.Errorf("setting service fee percent: %w", err)
	}
	return nil
}
