package handlers

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AudiencePreviewer interface {
	Preview(ctx context.Context, rules []entity.SegmentRule) (*usecase.AudiencePreview, error)
}

type CampaignCreator interface {
	Execute(ctx context.Context, input usecase.CreateCampaignInput) (*entity.Campaign, error)
}

type CampaignLauncher interface {
	Execute(ctx context.Context, campaignID, userID string) (*usecase.LaunchOutput, error)
}

type CampaignReader interface {
	ListCampaigns(ctx context.Context, userID string, limit int) ([]usecase.CampaignWithStats, error)
	GetCampaign(ctx context.Context, campaignID, userID string) (*usecase.CampaignWithStats, error)
	CampaignLogs(ctx context.Context, campaignID, userID string) ([]*entity.CommunicationLog, error)
	Dashboard(ctx context.Context, userID string) (*entity.DashboardStats, error)
}

type Assistant interface {
	ConvertRules(ctx context.Context, description string) ([]entity.SegmentRule, error)
	GenerateMessages(ctx context.Context, objective, audience string) ([]entity.MessageVariant, error)
	CampaignInsights(ctx context.Context, campaignID, userID string) (string, error)
}

type ReceiptProcessor interface {
	Execute(ctx context.Context, input usecase.ReceiptInput) (*usecase.ReceiptOutput, error)
}

type CustomerCreator interface {
	Execute(ctx context.Context, input usecase.CreateCustomerInput) (*entity.Customer, error)
}

type CustomerLister interface {
	Execute(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}

type OrderCreator interface {
	Execute(ctx context.Context, input usecase.CreateOrderInput) (*entity.Order, error)
}

type OrderLister interface {
	Execute(ctx context.Context, customerID string, limit int) ([]*entity.Order, error)
}

type Authenticator interface {
	LoginWithGoogle(ctx context.Context, input usecase.GoogleUserInput) (*entity.User, error)
	Me(ctx context.Context, userID string) (*entity.User, error)
}
