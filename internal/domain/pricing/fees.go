// Package pricing computes shipping and service fees for a cart.
//
// All amounts are VND held in decimal values; fee math floors fractional
// results rather than rounding them.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

var (
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = decimal.NewFromInt(500_000)
	// InnerCityRate is the flat shipping fee inside target metros.
	InnerCityRate = decimal.NewFromInt(30_000)
	// OuterCityRate is the flat shipping fee everywhere else.
	OuterCityRate = decimal.NewFromInt(50_000)
	// DefaultServiceFeePercent applies when no fee configuration row exists.
	DefaultServiceFeePercent = decimal.RequireFromString("2.0")

	hundred = decimal.NewFromInt(100)
)

// ConfigStore exposes the current service fee percentage. The backing store
// holds versioned rows; the most recently updated value wins.
type ConfigStore interface {
	ServiceFeePercent(ctx context.Context) (decimal.Decimal, error)
	SetServiceFeePercent(ctx context.Context, percent decimal.Decimal) error
}

// ShippingFee returns the shipping fee for the given subtotal and region.
// Subtotals above FreeShippingThreshold ship free.
func ShippingFee(subtotal decimal.Decimal, innerCity bool) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	if innerCity {
		return InnerCityRate
	}
	return OuterCityRate
}

// ServiceFee returns floor(subtotal * percent / 100).
func ServiceFee(subtotal, percent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(percent).Div(hundred).Floor()
}

// OrderTotal returns subtotal + shipping + service - discount, clamped at zero.
func OrderTotal(subtotal, shipping, service, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(shipping).Add(service).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Quote holds the fees computed for a cart snapshot.
type Quote struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	ServiceFee  decimal.Decimal
}

// Calculator derives fee quotes using the currently configured service fee
// percentage.
type Calculator struct {
	config ConfigStore
}

// NewCalculator creates a Calculator backed by the given config store.
func NewCalculator(config ConfigStore) *Calculator {
	return &Calculator{config: config}
}

// Quote computes shipping and service fees for a subtotal and delivery
// address using the current configuration.
func (c *Calculator) Quote(ctx context.Context, subtotal decimal.Decimal, address string) (Quote, error) {
	percent, err := c.config.ServiceFeePercent(ctx)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Subtotal:    subtotal,
		ShippingFee: ShippingFee(subtotal, InnerCity(address)),
		ServiceFee:  ServiceFee(subtotal, percent),
	}, nil
}
