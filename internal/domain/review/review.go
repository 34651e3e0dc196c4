// Package review handles product reviews gated on verified purchases.
package review

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/glowmart/internal/domain/order"
	"github.com/xenking/glowmart/internal/domain/user"
)

var (
	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrNotPurchased is returned when the reviewer has no countable order
	// containing the product.
	ErrNotPurchased = errors.New("product not purchased by user")
)

// Review is a customer's rating of a product.
type Review struct {
	ID        int64
	UserID    int64
	ProductID int64
	Rating    float64
	Comment   string
	CreatedAt time.Time
}

// Repository defines review persistence.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	ListByProduct(ctx context.Context, productID int64) ([]Review, error)
}

// Service validates and stores reviews.
type Service struct {
	reviews Repository
	orders  order.Repository
}

// NewService creates a review Service.
func NewService(reviews Repository, orders order.Repository) *Service {
	return &Service{reviews: reviews, orders: orders}
}

// Submit stores a review after checking the rating range and that the caller
// actually bought the product (any paid, shipped, or completed order).
func (s *Service) Submit(ctx context.Context, ident user.Identity, productID int64, rating float64, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	purchased, err := s.orders.HasPurchased(ctx, ident.UserID, productID)
	if err != nil {
		return nil, errors.Wrap(err, "check purchase")
	}
	if !purchased {
		return nil, ErrNotPurchased
	}

	r := &Review{
		UserID:    ident.UserID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, errors.Wrap(err, "create review")
	}
	return r, nil
}

// ListByProduct returns a product's reviews.
func (s *Service) ListByProduct(ctx context.Context, productID int64) ([]Review, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	return reviews, nil
}
