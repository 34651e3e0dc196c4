// Package product defines the catalog aggregate and its persistence ports.
package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when an adjustment would push stock
	// below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrReferencedByOrders is returned when deleting a product that past
	// orders still reference.
	ErrReferencedByOrders = errors.New("product referenced by existing orders")
)

// Product is a catalog item. Stock changes only through AdjustStock; Sold
// only grows, and only when an order reaches the completed state.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Sold        int
	Barcode     string
	BrandID     int64
	CategoryID  int64
}

// StockChange records one inventory adjustment for audit.
type StockChange struct {
	ProductID int64
	UserID    int64
	Change    int
	Note      string
}

// Repository defines catalog persistence operations.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	// AdjustStock applies a stock delta atomically and records it in the
	// stock history. Returns ErrInsufficientStock when the delta would make
	// stock negative.
	AdjustStock(ctx context.Context, change StockChange) error
	// Delete removes a product unless order items reference it, in which
	// case ErrReferencedByOrders is returned.
	Delete(ctx context.Context, id int64) error
}
