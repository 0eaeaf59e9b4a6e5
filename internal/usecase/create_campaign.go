package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateCampaignUseCase struct {
	Campaigns entity.CampaignRepositoryInterface
	Audience  AudienceResolver
	Launcher  CampaignLauncher
}

func NewCreateCampaignUseCase(
	campaigns entity.CampaignRepositoryInterface,
	audience AudienceResolver,
	launcher CampaignLauncher,
) *CreateCampaignUseCase {
	return &CreateCampaignUseCase{
		Campaigns: campaigns,
		Audience:  audience,
		Launcher:  launcher,
	}
}

// Execute stores the campaign as a draft with an audience-size snapshot and,
// when the caller asked for a running campaign, launches it right away.
func (uc *CreateCampaignUseCase) Execute(ctx context.Context, input CreateCampaignInput) (*entity.Campaign, error) {
	if errs := ValidateCreateCampaignInput(input); len(errs) > 0 {
		return nil, joinValidationErrors(errs)
	}

	campaign, err := entity.NewCampaign(input.UserID, input.Name, entity.CampaignType(input.Type), input.Message, input.Rules)
	if err != nil {
		return nil, validationError(err.Error())
	}

	audience, err := uc.Audience.Execute(ctx, campaign.Rules)
	if err != nil {
		return nil, err
	}
	campaign.AudienceSize = audience.Size

	if err := uc.Campaigns.Create(ctx, campaign); err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, notFound("user not found")
		}
		return nil, databaseError("failed to persist campaign", err)
	}

	if entity.CampaignStatus(input.Status) != entity.CampaignRunning {
		return campaign, nil
	}

	out, err := uc.Launcher.Dispatch(ctx, campaign)
	if err != nil {
		return nil, err
	}
	return out.Campaign, nil
}
