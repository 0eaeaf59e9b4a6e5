package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

type ReportSource interface {
	CampaignReport(ctx context.Context, campaignID, userID string) (entity.CampaignReport, error)
}

// AIUseCase fronts the assistant. A nil Assistant or any assistant error
// yields canned output; assistant failures never reach the caller.
type AIUseCase struct {
	Assistant Assistant
	Reports   ReportSource
}

func NewAIUseCase(assistant Assistant, reports ReportSource) *AIUseCase {
	return &AIUseCase{Assistant: assistant, Reports: reports}
}

func (uc *AIUseCase) ConvertRules(ctx context.Context, description string) ([]entity.SegmentRule, error) {
	if strings.TrimSpace(description) == "" {
		return nil, validationError("description is required")
	}

	if uc.Assistant != nil {
		rules, err := uc.Assistant.ConvertRules(ctx, description)
		if err == nil {
			return rules, nil
		}
		log := logger.WithComponent("ai")
		log.Warn().Err(err).Msg("rule conversion failed, using fallback")
	}
	return fallbackRules(description), nil
}

func (uc *AIUseCase) GenerateMessages(ctx context.Context, objective, audience string) ([]entity.MessageVariant, error) {
	if strings.TrimSpace(objective) == "" {
		return nil, validationError("objective is required")
	}

	if uc.Assistant != nil {
		variants, err := uc.Assistant.GenerateMessages(ctx, objective, audience)
		if err == nil {
			return variants, nil
		}
		log := logger.WithComponent("ai")
		log.Warn().Err(err).Msg("message generation failed, using fallback")
	}
	return fallbackMessages(objective), nil
}

func (uc *AIUseCase) CampaignInsights(ctx context.Context, campaignID, userID string) (string, error) {
	report, err := uc.Reports.CampaignReport(ctx, campaignID, userID)
	if err != nil {
		return "", err
	}

	if uc.Assistant != nil {
		summary, err := uc.Assistant.SummarizeCampaign(ctx, report)
		if err == nil {
			return summary, nil
		}
		log := logger.WithComponent("ai")
		log.Warn().Err(err).Msg("campaign summary failed, using fallback")
	}
	return fallbackInsight(report), nil
}
