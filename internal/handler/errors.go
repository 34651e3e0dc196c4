package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/glowmart/internal/domain/cart"
	"github.com/xenking/glowmart/internal/domain/checkout"
	"github.com/xenking/glowmart/internal/domain/discount"
	"github.com/xenking/glowmart/internal/domain/order"
	"github.com/xenking/glowmart/internal/domain/product"
	"github.com/xenking/glowmart/internal/domain/review"
	"github.com/xenking/glowmart/internal/domain/user"
	"github.com/xenking/glowmart/internal/stripe"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

// respondError maps domain errors to HTTP status codes. Unrecognized errors
// become an opaque 500 so internals never leak to clients.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, discount.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, review.ErrNotPurchased):
		writeError(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, product.ErrInsufficientStock),
		errors.Is(err, product.ErrReferencedByOrders):
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	var verr *stripe.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	var gerr *stripe.GatewayError
	if errors.As(err, &gerr) {
		logError(r, "payment gateway error", err)
		writeError(w, http.StatusBadGateway, "payment provider unavailable")
		return
	}
	var terr *order.InvalidTransitionError
	if errors.As(err, &terr) {
		writeError(w, http.StatusConflict, terr.Error())
		return
	}

	logError(r, "internal error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
