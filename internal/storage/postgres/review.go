package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/glowmart/internal/domain/review"
)

const (
	insertReviewSQL = `INSERT INTO reviews (user_id, product_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	listReviewsByProductSQL = `SELECT id, user_id, product_id, rating, comment, created_at
		FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create persists a review and fills in its generated id and timestamp.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	err := r.pool.QueryRow(ctx, insertReviewSQL,
		rv.UserID, rv.ProductID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating review for product %d: %w", rv.ProductID, err)
	}
	return nil
}

// ListByProduct returns a product's reviews, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsByProductSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for product %d: %w", productID, err)
	}
	return pgx.CollectRows(rows, scanReview)
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var rv review.Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	return rv, err
}
