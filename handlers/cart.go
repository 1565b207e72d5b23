package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/awesomestore/backend/middleware"
	"github.com/awesomestore/backend/models"
	"github.com/awesomestore/backend/shop"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartHandler struct {
	Cart *shop.Cart
}

type AddToCartRequest struct {
	BookID   string `json:"bookId"`
	Quantity int64  `json:"quantity"`
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, `{"error":"quantity must be at least 1"}`, http.StatusBadRequest)
		return
	}
	line, err := h.Cart.AddToCart(r.Context(), bookID, req.Quantity, userID)
	if errors.Is(err, shop.ErrBookNotFound) {
		http.Error(w, `{"error":"no book found with that id"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"failed to add to cart"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(line)
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	view, err := h.Cart.ViewCart(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to load cart"}`, http.StatusInternalServerError)
		return
	}
	if view.Lines == nil {
		view.Lines = []models.CartLine{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	idStr := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		http.Error(w, `{"error":"invalid cart line id"}`, http.StatusBadRequest)
		return
	}
	err = h.Cart.RemoveLine(r.Context(), id, userID)
	if errors.Is(err, shop.ErrCartLineNotFound) {
		http.Error(w, `{"error":"sorry, could not delete"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"failed to remove cart line"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
