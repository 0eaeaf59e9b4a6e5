package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/vendor"
	"github.com/xavierca1/ligue-crm/internal/segment"
)

// AudienceSource returns the persisted customers matched by a filter.
type AudienceSource interface {
	FindBySegment(ctx context.Context, f segment.Filter, now time.Time) ([]*entity.Customer, error)
}

type AudienceResolver interface {
	Execute(ctx context.Context, rules []entity.SegmentRule) (*Audience, error)
}

type CampaignLauncher interface {
	Dispatch(ctx context.Context, c *entity.Campaign) (*LaunchOutput, error)
}

type DeliveryVendor interface {
	Send(ctx context.Context, d vendor.Delivery) (vendor.Response, error)
}

// Assistant is the AI collaborator. Every method may fail; callers fall back
// to canned output.
type Assistant interface {
	ConvertRules(ctx context.Context, description string) ([]entity.SegmentRule, error)
	GenerateMessages(ctx context.Context, objective, audience string) ([]entity.MessageVariant, error)
	SummarizeCampaign(ctx context.Context, report entity.CampaignReport) (string, error)
}

type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
