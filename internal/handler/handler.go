// Package handler exposes the HTTP API, delegating business logic to the
// domain services and mapping domain errors to status codes.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/glowmart/internal/domain/cart"
	"github.com/xenking/glowmart/internal/domain/checkout"
	"github.com/xenking/glowmart/internal/domain/discount"
	"github.com/xenking/glowmart/internal/domain/order"
	"github.com/xenking/glowmart/internal/domain/pricing"
	"github.com/xenking/glowmart/internal/domain/product"
	"github.com/xenking/glowmart/internal/domain/report"
	"github.com/xenking/glowmart/internal/domain/review"
	"github.com/xenking/glowmart/internal/domain/user"
)

// SessionCreator starts a hosted payment session for a cart and returns the
// redirect URL.
type SessionCreator interface {
	CreateSession(ctx context.Context, c *cart.Cart, ident user.Identity) (string, error)
}

// Handler implements the HTTP API on top of the domain services.
type Handler struct {
	products  product.Repository
	carts     *cart.Service
	discounts *discount.Resolver
	orders    order.Repository
	reviews   *review.Service
	reports   *report.Service
	finalizer *checkout.Finalizer
	sessions  SessionCreator
	users     user.Repository
	feeConfig pricing.ConfigStore

	webhookSecret string
}

// Config holds non-dependency handler settings.
type Config struct {
	// WebhookSecret verifies payment webhook signatures. Empty disables
	// verification, for local development only.
	WebhookSecret string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	products product.Repository,
	carts *cart.Service,
	discounts *discount.Resolver,
	orders order.Repository,
	reviews *review.Service,
	reports *report.Service,
	finalizer *checkout.Finalizer,
	sessions SessionCreator,
	users user.Repository,
	feeConfig pricing.ConfigStore,
) *Handler {
	return &Handler{
		products:      products,
		carts:         carts,
		discounts:     discounts,
		orders:        orders,
		reviews:       reviews,
		reports:       reports,
		finalizer:     finalizer,
		sessions:      sessions,
		users:         users,
		feeConfig:     feeConfig,
		webhookSecret: cfg.WebhookSecret,
	}
}

// Register wires every API route into the mux. Auth requirements per route:
// catalog reads and the webhook are public, cart and order routes need a
// valid API key, inventory and reporting routes additionally need a staff
// role.
func (h *Handler) Register(mux *http.ServeMux, sec *Security) {
	authed := sec.Authenticate
	staff := func(next http.HandlerFunc) http.Handler {
		return sec.Authenticate(sec.RequireStaff(next))
	}

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("GET /api/products/{id}/reviews", h.listReviews)
	mux.Handle("POST /api/products/{id}/reviews", authed(h.createReview))
	mux.Handle("POST /api/products/{id}/stock", staff(h.adjustStock))
	mux.Handle("DELETE /api/products/{id}", staff(h.deleteProduct))

	mux.Handle("GET /api/cart", authed(h.getCart))
	mux.Handle("POST /api/cart/items", authed(h.addCartItem))
	mux.Handle("PATCH /api/cart/items/{itemID}", authed(h.updateCartItem))
	mux.Handle("DELETE /api/cart/items/{itemID}", authed(h.removeCartItem))
	mux.Handle("PUT /api/cart/address", authed(h.setCartAddress))
	mux.Handle("PUT /api/cart/discount", authed(h.setCartDiscount))

	mux.HandleFunc("GET /api/discounts/validate", h.validateDiscount)

	mux.Handle("POST /api/checkout/session", authed(h.createCheckoutSession))
	mux.HandleFunc("POST /api/checkout/webhook", h.paymentWebhook)

	mux.Handle("GET /api/orders", authed(h.listOrders))
	mux.Handle("GET /api/orders/{id}", authed(h.getOrder))
	mux.Handle("PATCH /api/orders/{id}/status", staff(h.updateOrderStatus))

	mux.Handle("GET /api/reports/summary", staff(h.reportSummary))
	mux.Handle("PUT /api/config/service-fee", staff(h.setServiceFee))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func logError(r *http.Request, msg string, err error) {
	zctx.From(r.Context()).Error(msg, zap.Error(err))
}
