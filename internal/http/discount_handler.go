package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Mega4Real/ednascollectionnew/internal/service"
)

type DiscountHandler struct {
	discounts *service.DiscountService
}

func NewDiscountHandler(discounts *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discounts: discounts}
}

func (h *DiscountHandler) List(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.discounts.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, discounts)
}

func (h *DiscountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.DiscountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	discount, err := h.discounts.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, discount)
}

type validateDiscountRequest struct {
	Code      string `json:"code"`
	ItemCount int    `json:"itemCount"`
}

// Validate is the public endpoint the storefront calls when a shopper types a
// code at checkout.
func (h *DiscountHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	discount, err := h.discounts.Validate(r.Context(), req.Code, req.ItemCount)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":       true,
		"type":        discount.Type,
		"value":       discount.Value,
		"code":        discount.Code,
		"minQuantity": discount.MinQuantity,
	})
}

func (h *DiscountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid discount id")
		return
	}

	if err := h.discounts.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Discount deleted successfully"})
}

func (h *DiscountHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid discount id")
		return
	}

	discount, err := h.discounts.Toggle(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, discount)
}
