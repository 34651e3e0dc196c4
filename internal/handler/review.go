package handler

import (
	"net/http"
	"time"

	"github.com/xenking/glowmart/internal/domain/review"
)

type reviewResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewResponse(rv review.Review) reviewResponse {
	return reviewResponse{
		ID:        rv.ID,
		UserID:    rv.UserID,
		ProductID: rv.ProductID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	}
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	reviews, err := h.reviews.ListByProduct(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		resp[i] = toReviewResponse(rv)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	id, ok := productIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req struct {
		Rating  float64 `json:"rating"`
		Comment string  `json:"comment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rv, err := h.reviews.Submit(r.Context(), ident, id, req.Rating, req.Comment)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewResponse(*rv))
}
