package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/domain/product"
)

type productResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Sold        int             `json:"sold"`
	Barcode     string          `json:"barcode,omitempty"`
	BrandID     int64           `json:"brand_id,omitempty"`
	CategoryID  int64           `json:"category_id,omitempty"`
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Sold:        p.Sold,
		Barcode:     p.Barcode,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
	}
}

func productIDFromPath(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	id, ok := productIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req struct {
		Change int    `json:"change"`
		Note   string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Change == 0 {
		writeError(w, http.StatusBadRequest, "change must be non-zero")
		return
	}

	err := h.products.AdjustStock(r.Context(), product.StockChange{
		ProductID: id,
		UserID:    ident.UserID,
		Change:    req.Change,
		Note:      req.Note,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
