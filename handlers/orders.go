package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/awesomestore/backend/models"
	"github.com/awesomestore/backend/store"
	"github.com/awesomestore/backend/validation"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrdersHandler is the back-office order list plus the manual add/edit/delete
// flows. Checkout, not this handler, creates orders in the normal path.
type OrdersHandler struct {
	DB       *store.DB
	Validate *validation.Validator
}

type OrderForm struct {
	BookID   string `json:"bookId" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
	Price    string `json:"price" validate:"required"`
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	orders, err := h.DB.AllOrders(r.Context())
	if err != nil {
		http.Error(w, `{"error":"failed to list orders"}`, http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	idStr := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		http.Error(w, `{"error":"invalid order id"}`, http.StatusBadRequest)
		return
	}
	order, err := h.DB.OrderByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to load order"}`, http.StatusInternalServerError)
		return
	}
	if order == nil {
		http.Error(w, `{"error":"no order found with that id"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	order, ok := h.parseOrderForm(w, r)
	if !ok {
		return
	}
	order.CreatedAt = time.Now()
	id, err := h.DB.InsertOrder(r.Context(), order)
	if err != nil {
		http.Error(w, `{"error":"failed to save order"}`, http.StatusInternalServerError)
		return
	}
	order.ID = id
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

func (h *OrdersHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	idStr := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		http.Error(w, `{"error":"invalid order id"}`, http.StatusBadRequest)
		return
	}
	existing, err := h.DB.OrderByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to load order"}`, http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, `{"error":"no order found with that id"}`, http.StatusNotFound)
		return
	}
	order, ok := h.parseOrderForm(w, r)
	if !ok {
		return
	}
	if err := h.DB.UpdateOrder(r.Context(), id, order); err != nil {
		http.Error(w, `{"error":"failed to update order"}`, http.StatusInternalServerError)
		return
	}
	order.ID = id
	order.CreatedAt = existing.CreatedAt
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *OrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	idStr := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		http.Error(w, `{"error":"invalid order id"}`, http.StatusBadRequest)
		return
	}
	deleted, err := h.DB.DeleteOrder(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to delete order"}`, http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, `{"error":"sorry, could not delete"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) parseOrderForm(w http.ResponseWriter, r *http.Request) (*models.Order, bool) {
	var form OrderForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return nil, false
	}
	if written := validateForm(w, h.Validate, &form); written {
		return nil, false
	}
	bookID, err := primitive.ObjectIDFromHex(form.BookID)
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return nil, false
	}
	userID, err := primitive.ObjectIDFromHex(form.UserID)
	if err != nil {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return nil, false
	}
	priceDec, err := decimal.NewFromString(form.Price)
	if err != nil || priceDec.IsNegative() {
		http.Error(w, `{"error":"price must be a non-negative amount"}`, http.StatusBadRequest)
		return nil, false
	}
	price, err := primitive.ParseDecimal128(priceDec.StringFixed(2))
	if err != nil {
		http.Error(w, `{"error":"price must be a non-negative amount"}`, http.StatusBadRequest)
		return nil, false
	}
	return &models.Order{
		BookID:   bookID,
		UserID:   userID,
		Quantity: form.Quantity,
		Price:    price,
	}, true
}
