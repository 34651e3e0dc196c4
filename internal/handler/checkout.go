package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/glowmart/internal/domain/checkout"
	"github.com/xenking/glowmart/internal/stripe"
)

// Webhook bodies are small JSON events; reads are capped at 1 MiB.
const maxWebhookBody = 1 << 20

func (h *Handler) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	c, err := h.carts.Get(r.Context(), ident)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(c.Items) == 0 {
		respondError(w, r, checkout.ErrEmptyCart)
		return
	}

	url, err := h.sessions.CreateSession(r.Context(), c, ident)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// paymentWebhook handles provider completion events. Totals in the event
// metadata are advisory; finalization re-derives everything from the
// database. A duplicate delivery is acknowledged with 200 without creating a
// second order.
func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	lg := zctx.From(r.Context())
	if h.webhookSecret == "" {
		lg.Warn("Webhook signature verification disabled")
	}

	done, err := stripe.ParseEvent(payload, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		if errors.Is(err, stripe.ErrInvalidSignature) {
			writeError(w, http.StatusBadRequest, "invalid signature")
			return
		}
		writeError(w, http.StatusBadRequest, "malformed event")
		return
	}
	if done == nil {
		// Not a completion event; acknowledge and move on.
		w.WriteHeader(http.StatusOK)
		return
	}
	if done.CustomerEmail == "" {
		// Without a correlating email the event cannot be attributed to a
		// user; an empty string would match accounts that never set one.
		lg.Error("Webhook missing customer email", zap.String("session_id", done.SessionID))
		writeError(w, http.StatusBadRequest, "missing customer email")
		return
	}

	ident, err := h.users.GetByEmail(r.Context(), done.CustomerEmail)
	if err != nil {
		lg.Error("Webhook for unknown customer",
			zap.String("email", done.CustomerEmail),
			zap.String("session_id", done.SessionID),
		)
		writeError(w, http.StatusBadRequest, "unknown customer")
		return
	}

	o, err := h.finalizer.Finalize(r.Context(), *ident, done.SessionID)
	if err != nil {
		if errors.Is(err, checkout.ErrAlreadyProcessed) {
			lg.Info("Duplicate payment event", zap.String("session_id", done.SessionID))
			w.WriteHeader(http.StatusOK)
			return
		}
		respondError(w, r, err)
		return
	}

	lg.Info("Order finalized",
		zap.String("order_id", o.ID),
		zap.String("session_id", done.SessionID),
		zap.String("total", o.TotalPrice.String()),
	)
	writeJSON(w, http.StatusOK, map[string]string{"order_id": o.ID})
}
