package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/awesomestore/backend/middleware"
	"github.com/awesomestore/backend/shop"
	"github.com/awesomestore/backend/store"
	"github.com/awesomestore/backend/validation"
)

type CheckoutHandler struct {
	DB       *store.DB
	Cart     *shop.Cart
	Checkout *shop.Checkout
}

// PaymentPageResponse prefills the payment form from the user's profile and
// shows the cart total being charged.
type PaymentPageResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Total   string `json:"total"`
	Empty   bool   `json:"empty"`
}

func (h *CheckoutHandler) PaymentPage(w http.ResponseWriter, r *http.Request) {
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
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to load user"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"no user found with that id"}`, http.StatusNotFound)
		return
	}
	resp := PaymentPageResponse{
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Address: user.Address,
		Total:   view.Total,
		Empty:   view.Empty,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Checkout validates the payment form and converts the user's cart lines to
// orders. On a failed form the per-field messages come back with 422 and
// nothing is written. A processed batch reports each line's outcome; 200
// means every line was placed, 207 that some were not.
func (h *CheckoutHandler) DoCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var form shop.PaymentForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	batch, err := h.Checkout.Checkout(r.Context(), form, userID)
	if err != nil {
		var verrs *validation.Errors
		if errors.As(err, &verrs) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{"errors": verrs.Fields})
			return
		}
		http.Error(w, `{"error":"checkout failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if !batch.AllPlaced() {
		w.WriteHeader(http.StatusMultiStatus)
	}
	json.NewEncoder(w).Encode(batch)
}
