package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/segment"
)

const previewSampleSize = 10

type Audience struct {
	Customers []*entity.Customer
	Size      int
	Breakdown segment.Breakdown
}

type AudiencePreview struct {
	Size      int                `json:"size"`
	Breakdown segment.Breakdown  `json:"breakdown"`
	Customers []*entity.Customer `json:"customers"`
}

type ResolveAudienceUseCase struct {
	Source AudienceSource
	Now    Clock
}

func NewResolveAudienceUseCase(source AudienceSource) *ResolveAudienceUseCase {
	return &ResolveAudienceUseCase{Source: source, Now: utcNow}
}

func (uc *ResolveAudienceUseCase) Execute(ctx context.Context, rules []entity.SegmentRule) (*Audience, error) {
	now := uc.Now()

	f, dropped := segment.Compile(rules)
	if len(dropped) > 0 {
		log := logger.WithComponent("audience")
		for _, d := range dropped {
			log.Debug().
				Int("index", d.Index).
				Str("field", d.Rule.Field).
				Str("operator", d.Rule.Operator).
				Str("reason", d.Reason).
				Msg("segment rule dropped")
		}
	}

	customers, err := uc.Source.FindBySegment(ctx, f, now)
	if err != nil {
		return nil, databaseError("failed to resolve audience", err)
	}

	return &Audience{
		Customers: customers,
		Size:      len(customers),
		Breakdown: segment.Summarize(customers, now),
	}, nil
}

func (uc *ResolveAudienceUseCase) Preview(ctx context.Context, rules []entity.SegmentRule) (*AudiencePreview, error) {
	if errs := validateRules(rules); len(errs) > 0 {
		return nil, joinValidationErrors(errs)
	}

	audience, err := uc.Execute(ctx, rules)
	if err != nil {
		return nil, err
	}

	sample := audience.Customers
	if len(sample) > previewSampleSize {
		sample = sample[:previewSampleSize]
	}

	return &AudiencePreview{
		Size:      audience.Size,
		Breakdown: audience.Breakdown,
		Customers: sample,
	}, nil
}
