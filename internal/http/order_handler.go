package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Mega4Real/ednascollectionnew/internal/domain"
	"github.com/Mega4Real/ednascollectionnew/internal/paystack"
	"github.com/Mega4Real/ednascollectionnew/internal/service"
)

type OrderHandler struct {
	orders   *service.OrderService
	verifier *paystack.Verifier
}

func NewOrderHandler(orders *service.OrderService, verifier *paystack.Verifier) *OrderHandler {
	return &OrderHandler{orders: orders, verifier: verifier}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Order created successfully",
		"order":   order,
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
	})
}

type updateStatusRequest struct {
	Status           domain.OrderStatus `json:"status"`
	PaymentReference string             `json:"paymentReference"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status, req.PaymentReference)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order status updated",
		"order":   order,
	})
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order deleted successfully",
	})
}

// PaystackWebhook verifies the provider signature over the raw body before
// touching anything. Once the signature checks out the endpoint always
// responds 200, found order or not, so the provider stops retrying.
func (h *OrderHandler) PaystackWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	event, err := h.verifier.VerifyAndParse(payload, r.Header.Get(paystack.SignatureHeader))
	if errors.Is(err, paystack.ErrInvalidSignature) {
		respondError(w, http.StatusUnauthorized, "invalid signature")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.orders.HandlePaystackEvent(r.Context(), event); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
