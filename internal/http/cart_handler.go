package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/fjod/cart-manager/internal/store"
	"github.com/fjod/cart-manager/internal/view"
)

type CartHandler struct {
	view *view.View
}

func NewCartHandler(v *view.View) *CartHandler {
	return &CartHandler{view: v}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items []view.Line `json:"items"`
	Total string      `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	if err := h.view.Add(r.Context(), req.ProductID); err != nil {
		handleStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.cartResponse())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.view.Update(r.Context(), productID, req.Quantity); err != nil {
		handleStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.view.Increment(r.Context(), productID); err != nil {
		handleStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.view.Decrement(r.Context(), productID); err != nil {
		handleStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.view.Remove(r.Context(), productID); err != nil {
		handleStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) cartResponse() CartResponseDTO {
	lines := h.view.Lines()
	if lines == nil {
		lines = []view.Line{}
	}
	return CartResponseDTO{
		Items: lines,
		Total: h.view.Total(),
	}
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("cart operation failed (request %s): %v", getRequestID(r.Context()), err)

	switch {
	case errors.Is(err, store.ErrStockExceeded):
		respondError(w, http.StatusConflict, "stock_exceeded", "requested quantity is out of stock")
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not in cart")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "catalog temporarily unavailable")
	default:
		respondError(w, http.StatusBadGateway, "lookup_failed", "catalog lookup failed")
	}
}
