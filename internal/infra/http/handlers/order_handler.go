package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type OrderHandler struct {
	Create OrderCreator
	List   OrderLister
}

func NewOrderHandler(create OrderCreator, list OrderLister) *OrderHandler {
	return &OrderHandler{Create: create, List: list}
}

// CreateOrder (POST /api/orders) also moves the customer's aggregates.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateOrderInput
	if !decodeJSON(w, r, &input) {
		return
	}

	order, err := h.Create.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// ListOrders (GET /api/orders?customerId&limit)
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.List.Execute(r.Context(), r.URL.Query().Get("customerId"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
