package handler

import (
	"net/http"

	"github.com/Dan9191/eco-market/internal/models"
	"github.com/gorilla/mux"
)

type productsPage struct {
	Products []models.Product `json:"products"`
}

type cartPage struct {
	CartItems []models.CartItem `json:"cartItems"`
}

type productPage struct {
	Product models.Product `json:"product"`
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, productsPage{Products: h.catalog.Featured})
}

func (h *Handler) Listings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, productsPage{Products: h.catalog.Listings})
}

func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, cartPage{CartItems: h.catalog.Cart})
}

// Product shows one listing; unknown ids get a placeholder
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, productPage{Product: h.catalog.Product(mux.Vars(r)["id"])})
}
