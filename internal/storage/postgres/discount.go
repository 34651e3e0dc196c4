package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/glowmart/internal/domain/discount"
)

const (
	getDiscountByCodeSQL = `SELECT id, code, percentage, valid_from, valid_to, max_uses, used_count, active
		FROM discount_codes WHERE UPPER(code) = UPPER($1)`

	incrementDiscountUsedSQL = `UPDATE discount_codes SET used_count = used_count + 1 WHERE id = $1`
)

var _ discount.Repository = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Repository backed by PostgreSQL.
type DiscountRepository struct {
	pool *pgxpool.Pool
}

// NewDiscountRepository returns a DiscountRepository that uses the given pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

// FindByCode looks up a discount code case-insensitively. Returns
// discount.ErrNotFound when no such code exists; eligibility is the caller's
// concern.
func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Code, error) {
	rows, err := r.pool.Query(ctx, getDiscountByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding discount code %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanDiscountCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrNotFound
		}
		return nil, fmt.Errorf("finding discount code %q: %w", code, err)
	}
	return &c, nil
}

// IncrementUsedCount atomically increments the usage counter for a code.
func (r *DiscountRepository) IncrementUsedCount(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, incrementDiscountUsedSQL, id)
	if err != nil {
		return fmt.Errorf("incrementing used count for discount %d: %w", id, err)
	}
	return nil
}

func scanDiscountCode(row pgx.CollectableRow) (discount.Code, error) {
	var (
		c       discount.Code
		maxUses *int32
	)
	err := row.Scan(
		&c.ID, &c.Code, &c.Percentage, &c.ValidFrom, &c.ValidTo,
		&maxUses, &c.UsedCount, &c.Active,
	)
	if maxUses != nil {
		v := int(*maxUses)
		c.MaxUses = &v
	}
	return c, err
}
