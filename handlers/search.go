package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/awesomestore/backend/models"
	"github.com/awesomestore/backend/shop"
)

type SearchHandler struct {
	Shop *shop.Search
}

type SearchRequest struct {
	Query string `json:"query"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	result, err := h.Shop.Search(r.Context(), req.Query)
	if err != nil {
		http.Error(w, `{"error":"search failed"}`, http.StatusInternalServerError)
		return
	}
	if result.Books == nil {
		result.Books = []models.Book{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
