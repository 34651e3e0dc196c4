package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/domain/cart"
	"github.com/xenking/glowmart/internal/domain/pricing"
)

type cartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type cartResponse struct {
	ID           int64              `json:"id"`
	Address      string             `json:"address"`
	DiscountCode string             `json:"discount_code,omitempty"`
	Items        []cartItemResponse `json:"items"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	ShippingFee  decimal.Decimal    `json:"shipping_fee"`
	ServiceFee   decimal.Decimal    `json:"service_fee"`
	Discount     decimal.Decimal    `json:"discount"`
	Total        decimal.Decimal    `json:"total"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := make([]cartItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = cartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductName,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}

	subtotal := c.Subtotal()
	discountAmount := c.DiscountAmount()
	return cartResponse{
		ID:           c.ID,
		Address:      c.Address,
		DiscountCode: c.DiscountCode,
		Items:        items,
		Subtotal:     subtotal,
		ShippingFee:  c.ShippingFee,
		ServiceFee:   c.ServiceFee,
		Discount:     discountAmount,
		Total:        pricing.OrderTotal(subtotal, c.ShippingFee, c.ServiceFee, discountAmount),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	c, err := h.carts.Get(r.Context(), ident)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	var req struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.carts.AddItem(r.Context(), ident, req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.carts.UpdateItem(r.Context(), ident, itemID, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	c, err := h.carts.RemoveItem(r.Context(), ident, itemID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) setCartAddress(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	var req struct {
		Address string `json:"address"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.carts.SetAddress(r.Context(), ident, req.Address)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) setCartDiscount(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.carts.SetDiscount(r.Context(), ident, req.Code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}
