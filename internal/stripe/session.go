// Package stripe adapts carts to the Stripe checkout API and parses
// completion events back into domain terms.
package stripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"

	"github.com/xenking/glowmart/internal/domain/cart"
	"github.com/xenking/glowmart/internal/domain/user"
)

// VNDPerUSD is the fixed conversion rate applied when pricing line items in
// USD for the provider. Multi-currency beyond this constant is out of scope.
var VNDPerUSD = decimal.NewFromInt(24_000)

var hundred = decimal.NewFromInt(100)

// ValidationError aggregates every violation found while building a session
// request. All violations are collected before reporting, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, " | ")
}

// GatewayError wraps a failure from the payment provider.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return "payment gateway: " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// usdCents converts a VND amount to USD minor units, truncating fractions.
func usdCents(vnd decimal.Decimal) int64 {
	return vnd.Mul(hundred).Div(VNDPerUSD).Floor().IntPart()
}

// BuildSessionParams converts a cart into a Stripe checkout session request:
// one priced line per cart item plus pseudo-line-items for non-zero shipping
// fee, service fee, and discount, so the provider-displayed breakdown matches
// the internally computed totals. The metadata carries stringified totals for
// display only; the webhook re-derives authoritative values from the
// database.
func BuildSessionParams(c *cart.Cart, ident user.Identity, successURL, cancelURL string) (*stripego.CheckoutSessionParams, error) {
	var violations []string

	lineItems := make([]*stripego.CheckoutSessionLineItemParams, 0, len(c.Items)+3)
	for _, it := range c.Items {
		if !it.UnitPrice.IsPositive() {
			violations = append(violations, fmt.Sprintf("product %q has invalid price: %s", it.ProductName, it.UnitPrice))
		}
		if it.Quantity <= 0 {
			violations = append(violations, fmt.Sprintf("product %q has invalid quantity: %d", it.ProductName, it.Quantity))
		}
		lineItems = append(lineItems, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency: stripego.String(string(stripego.CurrencyUSD)),
				ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripego.String(it.ProductName),
				},
				UnitAmount: stripego.Int64(usdCents(it.UnitPrice)),
			},
			Quantity: stripego.Int64(int64(it.Quantity)),
		})
	}

	subtotal := c.Subtotal()
	discountAmount := c.DiscountAmount()

	for _, fee := range []struct {
		name   string
		amount decimal.Decimal
	}{
		{"Phí vận chuyển", c.ShippingFee},
		{"Phí dịch vụ", c.ServiceFee},
		{"Giảm giá", discountAmount},
	} {
		if !fee.amount.IsPositive() {
			continue
		}
		lineItems = append(lineItems, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency: stripego.String(string(stripego.CurrencyUSD)),
				ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripego.String(fee.name),
				},
				UnitAmount: stripego.Int64(usdCents(fee.amount)),
			},
			Quantity: stripego.Int64(1),
		})
	}

	if ident.Email == "" {
		violations = append(violations, "user does not have a valid email")
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripego.String(successURL),
		CancelURL:          stripego.String(cancelURL),
		CustomerEmail:      stripego.String(ident.Email),
	}
	params.AddMetadata("subtotal", subtotal.String())
	params.AddMetadata("shipping_fee", c.ShippingFee.String())
	params.AddMetadata("service_fee", c.ServiceFee.String())
	params.AddMetadata("discount", discountAmount.String())
	params.AddMetadata("discount_percent", c.DiscountPercent.String())
	return params, nil
}

// Client creates checkout sessions against the Stripe API.
type Client struct {
	successURL string
	cancelURL  string
}

// NewClient configures the global Stripe key and returns a session client.
func NewClient(secretKey, successURL, cancelURL string) *Client {
	stripego.Key = secretKey
	return &Client{successURL: successURL, cancelURL: cancelURL}
}

// CreateSession builds and submits a checkout session for the cart,
// returning the redirect URL for the customer.
func (c *Client) CreateSession(ctx context.Context, crt *cart.Cart, ident user.Identity) (string, error) {
	params, err := BuildSessionParams(crt, ident, c.successURL, c.cancelURL)
	if err != nil {
		return "", err
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	return s.URL, nil
}
