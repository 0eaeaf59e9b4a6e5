package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/segment"
)

const activeCustomerWindow = segment.InactiveAfterDays * 24 * time.Hour

// ReportingUseCase recomputes every figure from the logs on each call.
type ReportingUseCase struct {
	Campaigns entity.CampaignRepositoryInterface
	Logs      entity.CommunicationLogRepositoryInterface
	Customers entity.CustomerRepositoryInterface
	Now       Clock
}

func NewReportingUseCase(
	campaigns entity.CampaignRepositoryInterface,
	logs entity.CommunicationLogRepositoryInterface,
	customers entity.CustomerRepositoryInterface,
) *ReportingUseCase {
	return &ReportingUseCase{
		Campaigns: campaigns,
		Logs:      logs,
		Customers: customers,
		Now:       utcNow,
	}
}

func (uc *ReportingUseCase) ListCampaigns(ctx context.Context, userID string, limit int) ([]CampaignWithStats, error) {
	campaigns, err := uc.Campaigns.ListByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, databaseError("failed to list campaigns", err)
	}

	out := make([]CampaignWithStats, 0, len(campaigns))
	for _, c := range campaigns {
		stats, err := uc.Logs.StatsByCampaign(ctx, c.ID)
		if err != nil {
			return nil, databaseError("failed to load campaign stats", err)
		}
		out = append(out, CampaignWithStats{Campaign: c, Stats: stats})
	}
	return out, nil
}

func (uc *ReportingUseCase) GetCampaign(ctx context.Context, campaignID, userID string) (*CampaignWithStats, error) {
	campaign, err := uc.ownedCampaign(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}

	stats, err := uc.Logs.StatsByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, databaseError("failed to load campaign stats", err)
	}
	return &CampaignWithStats{Campaign: campaign, Stats: stats}, nil
}

func (uc *ReportingUseCase) CampaignLogs(ctx context.Context, campaignID, userID string) ([]*entity.CommunicationLog, error) {
	campaign, err := uc.ownedCampaign(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}

	logs, err := uc.Logs.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, databaseError("failed to list communication logs", err)
	}
	return logs, nil
}

func (uc *ReportingUseCase) CampaignReport(ctx context.Context, campaignID, userID string) (entity.CampaignReport, error) {
	c, err := uc.GetCampaign(ctx, campaignID, userID)
	if err != nil {
		return entity.CampaignReport{}, err
	}
	return entity.CampaignReport{
		CampaignType: c.Type,
		AudienceSize: c.AudienceSize,
		Sent:         c.Stats.Sent + c.Stats.Delivered + c.Stats.Failed,
		Delivered:    c.Stats.Delivered,
		Failed:       c.Stats.Failed,
	}, nil
}

func (uc *ReportingUseCase) Dashboard(ctx context.Context, userID string) (*entity.DashboardStats, error) {
	total, err := uc.Campaigns.CountByUser(ctx, userID)
	if err != nil {
		return nil, databaseError("failed to count campaigns", err)
	}

	messages, delivered, err := uc.Logs.TotalsByUser(ctx, userID)
	if err != nil {
		return nil, databaseError("failed to load delivery totals", err)
	}

	active, err := uc.Customers.CountActiveSince(ctx, uc.Now().Add(-activeCustomerWindow))
	if err != nil {
		return nil, databaseError("failed to count active customers", err)
	}

	return &entity.DashboardStats{
		TotalCampaigns:  total,
		MessagesSent:    messages,
		ActiveCustomers: active,
		DeliveryRate:    deliveryRate(delivered, messages),
	}, nil
}

// deliveryRate is a percentage rounded to one decimal place.
func deliveryRate(delivered, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(delivered)/float64(total)*1000) / 10
}

func (uc *ReportingUseCase) ownedCampaign(ctx context.Context, campaignID, userID string) (*entity.Campaign, error) {
	campaign, err := uc.Campaigns.FindByID(ctx, campaignID)
	if errors.Is(err, entity.ErrCampaignNotFound) {
		return nil, notFound("campaign not found")
	}
	if err != nil {
		return nil, databaseError("failed to load campaign", err)
	}
	if campaign.UserID != userID {
		return nil, notFound("campaign not found")
	}
	return campaign, nil
}
