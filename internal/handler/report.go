package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/domain/report"
)

type topProductResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Sold      int             `json:"sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type lowStockResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

type summaryResponse struct {
	Revenue     decimal.Decimal      `json:"revenue"`
	OrderCount  int                  `json:"order_count"`
	TopProducts []topProductResponse `json:"top_products"`
	LowStock    []lowStockResponse   `json:"low_stock"`
}

func toSummaryResponse(s *report.Summary) summaryResponse {
	top := make([]topProductResponse, len(s.TopProducts))
	for i, tp := range s.TopProducts {
		top[i] = topProductResponse(tp)
	}
	low := make([]lowStockResponse, len(s.LowStock))
	for i, lp := range s.LowStock {
		low[i] = lowStockResponse(lp)
	}
	return summaryResponse{
		Revenue:     s.Revenue,
		OrderCount:  s.OrderCount,
		TopProducts: top,
		LowStock:    low,
	}
}

func (h *Handler) reportSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.reports.Summary(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(s))
}

// setServiceFee appends a new service fee configuration value. Existing
// orders keep their totals; future quotes pick up the new percentage.
func (h *Handler) setServiceFee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percent decimal.Decimal `json:"percent"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Percent.IsNegative() || req.Percent.GreaterThan(decimal.NewFromInt(100)) {
		writeError(w, http.StatusBadRequest, "percent must be between 0 and 100")
		return
	}

	if err := h.feeConfig.SetServiceFeePercent(r.Context(), req.Percent); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"service_fee_percent": req.Percent})
}
