package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/domain/order"
)

type orderItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	Status        order.Status        `json:"status"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	ShippingFee   decimal.Decimal     `json:"shipping_fee"`
	Address       string              `json:"address"`
	ReceiverPhone string              `json:"receiver_phone"`
	Items         []orderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

func toOrderResponse(o order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}
	return orderResponse{
		ID:            o.ID,
		Status:        o.Status,
		TotalPrice:    o.TotalPrice,
		ShippingFee:   o.ShippingFee,
		Address:       o.Address,
		ReceiverPhone: o.ReceiverPhone,
		Items:         items,
		CreatedAt:     o.CreatedAt,
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	orders, err := h.orders.ListByUser(r.Context(), ident.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	o, err := h.orders.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	// Customers see only their own orders; staff see all.
	if o.UserID != ident.UserID && !ident.Staff() {
		writeError(w, http.StatusNotFound, order.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

// updateOrderStatus moves an order one step along its lifecycle. The
// transition is validated against the loaded status and applied with
// compare-and-set, so concurrent updates cannot skip states or double-count
// the completed transition.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Status order.Status `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !order.CanTransition(o.Status, req.Status) {
		respondError(w, r, &order.InvalidTransitionError{From: o.Status, To: req.Status})
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, o.Status, req.Status); err != nil {
		respondError(w, r, err)
		return
	}

	o.Status = req.Status
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}
