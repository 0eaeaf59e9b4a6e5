package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/identity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type CampaignHandler struct {
	Audience AudiencePreviewer
	Creator  CampaignCreator
	Launcher CampaignLauncher
	Reports  CampaignReader
	AI       Assistant
}

func NewCampaignHandler(
	audience AudiencePreviewer,
	creator CampaignCreator,
	launcher CampaignLauncher,
	reports CampaignReader,
	ai Assistant,
) *CampaignHandler {
	return &CampaignHandler{
		Audience: audience,
		Creator:  creator,
		Launcher: launcher,
		Reports:  reports,
		AI:       ai,
	}
}

type PreviewAudienceRequest struct {
	Rules []entity.SegmentRule `json:"rules"`
}

// PreviewAudience (POST /api/campaigns/preview-audience)
func (h *CampaignHandler) PreviewAudience(w http.ResponseWriter, r *http.Request) {
	var req PreviewAudienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	preview, err := h.Audience.Preview(r.Context(), req.Rules)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// Create (POST /api/campaigns). A campaign created with status running is
// launched before the response is written.
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateCampaignInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.UserID = identity.UserID(r.Context())

	campaign, err := h.Creator.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.RecordCampaign(string(campaign.Type), string(campaign.Status))
	writeJSON(w, http.StatusCreated, campaign)
}

// Launch (PATCH /api/campaigns/{id}/launch)
func (h *CampaignHandler) Launch(w http.ResponseWriter, r *http.Request) {
	out, err := h.Launcher.Execute(r.Context(), chi.URLParam(r, "id"), identity.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.RecordCampaign(string(out.Campaign.Type), string(out.Campaign.Status))
	middleware.RecordDeliveriesQueued(out.Queued, out.Failed)
	writeJSON(w, http.StatusOK, out)
}

// List (GET /api/campaigns)
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Reports.ListCampaigns(r.Context(), identity.UserID(r.Context()), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// Get (GET /api/campaigns/{id})
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.Reports.GetCampaign(r.Context(), chi.URLParam(r, "id"), identity.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// Logs (GET /api/campaigns/{id}/logs)
func (h *CampaignHandler) Logs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Reports.CampaignLogs(r.Context(), chi.URLParam(r, "id"), identity.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

type InsightsResponse struct {
	Insights string `json:"insights"`
}

// Insights (GET /api/campaigns/{id}/insights)
func (h *CampaignHandler) Insights(w http.ResponseWriter, r *http.Request) {
	summary, err := h.AI.CampaignInsights(r.Context(), chi.URLParam(r, "id"), identity.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InsightsResponse{Insights: summary})
}

// Dashboard (GET /api/dashboard/stats)
func (h *CampaignHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reports.Dashboard(r.Context(), identity.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
