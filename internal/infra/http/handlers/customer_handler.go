package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type CustomerHandler struct {
	Create CustomerCreator
	List   CustomerLister
}

func NewCustomerHandler(create CustomerCreator, list CustomerLister) *CustomerHandler {
	return &CustomerHandler{Create: create, List: list}
}

// CreateCustomer (POST /api/customers)
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateCustomerInput
	if !decodeJSON(w, r, &input) {
		return
	}

	customer, err := h.Create.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

// ListCustomers (GET /api/customers?limit&offset)
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.List.Execute(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}
