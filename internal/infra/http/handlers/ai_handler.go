package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AIHandler struct {
	AI Assistant
}

func NewAIHandler(ai Assistant) *AIHandler {
	return &AIHandler{AI: ai}
}

type ConvertRulesRequest struct {
	Description string `json:"description"`
}

type ConvertRulesResponse struct {
	Rules []entity.SegmentRule `json:"rules"`
}

// ConvertRules (POST /api/ai/convert-rules)
func (h *AIHandler) ConvertRules(w http.ResponseWriter, r *http.Request) {
	var req ConvertRulesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rules, err := h.AI.ConvertRules(r.Context(), req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ConvertRulesResponse{Rules: rules})
}

type GenerateMessagesRequest struct {
	Objective           string `json:"objective"`
	AudienceDescription string `json:"audienceDescription"`
}

type GenerateMessagesResponse struct {
	Messages []entity.MessageVariant `json:"messages"`
}

// GenerateMessages (POST /api/ai/generate-messages)
func (h *AIHandler) GenerateMessages(w http.ResponseWriter, r *http.Request) {
	var req GenerateMessagesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	messages, err := h.AI.GenerateMessages(r.Context(), req.Objective, req.AudienceDescription)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GenerateMessagesResponse{Messages: messages})
}
