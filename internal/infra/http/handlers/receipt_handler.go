package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// ReceiptHandler is the vendor callback. It is keyed by log id only.
type ReceiptHandler struct {
	Processor ReceiptProcessor
}

func NewReceiptHandler(p ReceiptProcessor) *ReceiptHandler {
	return &ReceiptHandler{Processor: p}
}

type ReceiptResponse struct {
	Success bool `json:"success"`
}

// Handle (POST /api/delivery-receipt)
func (h *ReceiptHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.ReceiptInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.Processor.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if out.Applied {
		middleware.RecordReceipt(string(out.Status))
	} else {
		log := logger.WithComponent("receipt")
		log.Debug().
			Str("log_id", out.LogID).
			Str("status", string(out.Status)).
			Msg("receipt for finished log ignored")
	}
	writeJSON(w, http.StatusOK, ReceiptResponse{Success: true})
}
