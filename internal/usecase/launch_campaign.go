package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type LaunchCampaignUseCase struct {
	Campaigns entity.CampaignRepositoryInterface
	Logs      entity.CommunicationLogRepositoryInterface
	Audience  AudienceResolver
	Queue     queue.DeliveryPublisher
	Now       Clock
}

func NewLaunchCampaignUseCase(
	campaigns entity.CampaignRepositoryInterface,
	logs entity.CommunicationLogRepositoryInterface,
	audience AudienceResolver,
	publisher queue.DeliveryPublisher,
) *LaunchCampaignUseCase {
	return &LaunchCampaignUseCase{
		Campaigns: campaigns,
		Logs:      logs,
		Audience:  audience,
		Queue:     publisher,
		Now:       utcNow,
	}
}

// Execute launches a draft campaign owned by userID.
func (uc *LaunchCampaignUseCase) Execute(ctx context.Context, campaignID, userID string) (*LaunchOutput, error) {
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
	if !campaign.CanLaunch() {
		return nil, &DomainError{Code: CodeInvalidState, Message: "campaign is " + string(campaign.Status) + ", only drafts can be launched"}
	}

	return uc.Dispatch(ctx, campaign)
}

// Dispatch runs a single pass over the audience: render, insert a pending
// log, publish one delivery job per recipient. It does not wait for any
// delivery. The campaign ends completed once every job was handed off, or
// failed when the audience or a log row could not be produced.
func (uc *LaunchCampaignUseCase) Dispatch(ctx context.Context, campaign *entity.Campaign) (*LaunchOutput, error) {
	ctx = context.WithoutCancel(ctx)
	log := logger.WithCampaignID(campaign.ID)

	if err := campaign.MarkRunning(uc.Now()); err != nil {
		return nil, &DomainError{Code: CodeInvalidState, Message: err.Error()}
	}
	if err := uc.Campaigns.MarkRunning(ctx, campaign.ID, *campaign.LaunchedAt); err != nil {
		if errors.Is(err, entity.ErrCampaignNotLaunchable) {
			return nil, &DomainError{Code: CodeInvalidState, Message: "campaign was launched concurrently"}
		}
		return nil, databaseError("failed to mark campaign running", err)
	}

	audience, err := uc.Audience.Execute(ctx, campaign.Rules)
	if err != nil {
		uc.fail(ctx, campaign)
		return nil, err
	}

	out := &LaunchOutput{Campaign: campaign, Recipients: audience.Size}
	for _, customer := range audience.Customers {
		entry := entity.NewCommunicationLog(campaign.ID, customer.ID, campaign.Render(customer))
		if err := uc.Logs.Create(ctx, entry); err != nil {
			uc.fail(ctx, campaign)
			return nil, databaseError("failed to create communication log", err)
		}

		job := queue.DeliveryJob{
			LogID:      entry.ID,
			CampaignID: campaign.ID,
			CustomerID: customer.ID,
			To:         customer.Email,
			Phone:      customer.Phone,
			Message:    entry.Message,
		}
		if err := uc.Queue.PublishDelivery(ctx, job); err != nil {
			log.Error().Err(err).Str("log_id", entry.ID).Msg("failed to enqueue delivery")
			uc.markUndeliverable(ctx, entry.ID, err)
			out.Failed++
			continue
		}
		out.Queued++
	}

	if err := uc.Campaigns.UpdateStatus(ctx, campaign.ID, entity.CampaignCompleted, nil); err != nil {
		return nil, databaseError("failed to mark campaign completed", err)
	}
	campaign.Status = entity.CampaignCompleted

	log.Info().
		Int("recipients", out.Recipients).
		Int("queued", out.Queued).
		Int("failed", out.Failed).
		Msg("campaign dispatched")

	return out, nil
}

func (uc *LaunchCampaignUseCase) fail(ctx context.Context, campaign *entity.Campaign) {
	campaign.Status = entity.CampaignFailed
	if err := uc.Campaigns.UpdateStatus(ctx, campaign.ID, entity.CampaignFailed, nil); err != nil {
		log := logger.WithCampaignID(campaign.ID)
		log.Error().Err(err).Msg("failed to mark campaign failed")
	}
}

func (uc *LaunchCampaignUseCase) markUndeliverable(ctx context.Context, logID string, cause error) {
	resp, _ := json.Marshal(map[string]any{"success": false, "error": "enqueue: " + cause.Error()})
	if _, err := uc.Logs.ApplyReceipt(ctx, logID, entity.DeliveryFailed, nil, resp); err != nil {
		log := logger.WithComponent("dispatcher")
		log.Error().Err(err).Str("log_id", logID).Msg("failed to mark log failed")
	}
}
