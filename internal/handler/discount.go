package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type validationResponse struct {
	Valid      bool            `json:"valid"`
	Percentage decimal.Decimal `json:"percentage"`
	Message    string          `json:"message,omitempty"`
}

// validateDiscount probes a code's eligibility without consuming a use.
func (h *Handler) validateDiscount(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code parameter is required")
		return
	}

	v, err := h.discounts.Validate(r.Context(), code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validationResponse{
		Valid:      v.Valid,
		Percentage: v.Percentage,
		Message:    v.Message,
	})
}
