package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type MockAudience struct{ mock.Mock }

func (m *MockAudience) Preview(ctx context.Context, rules []entity.SegmentRule) (*usecase.AudiencePreview, error) {
	args := m.Called(ctx, rules)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AudiencePreview), args.Error(1)
}

type MockCreator struct{ mock.Mock }

func (m *MockCreator) Execute(ctx context.Context, input usecase.CreateCampaignInput) (*entity.Campaign, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Campaign), args.Error(1)
}

type MockLauncher struct{ mock.Mock }

func (m *MockLauncher) Execute(ctx context.Context, campaignID, userID string) (*usecase.LaunchOutput, error) {
	args := m.Called(ctx, campaignID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LaunchOutput), args.Error(1)
}

type MockReports struct{ mock.Mock }

func (m *MockReports) ListCampaigns(ctx context.Context, userID string, limit int) ([]usecase.CampaignWithStats, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.CampaignWithStats), args.Error(1)
}

func (m *MockReports) GetCampaign(ctx context.Context, campaignID, userID string) (*usecase.CampaignWithStats, error) {
	args := m.Called(ctx, campaignID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CampaignWithStats), args.Error(1)
}

func (m *MockReports) CampaignLogs(ctx context.Context, campaignID, userID string) ([]*entity.CommunicationLog, error) {
	args := m.Called(ctx, campaignID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CommunicationLog), args.Error(1)
}

func (m *MockReports) Dashboard(ctx context.Context, userID string) (*entity.DashboardStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DashboardStats), args.Error(1)
}

type MockAI struct{ mock.Mock }

func (m *MockAI) ConvertRules(ctx context.Context, description string) ([]entity.SegmentRule, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SegmentRule), args.Error(1)
}

func (m *MockAI) GenerateMessages(ctx context.Context, objective, audience string) ([]entity.MessageVariant, error) {
	args := m.Called(ctx, objective, audience)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.MessageVariant), args.Error(1)
}

func (m *MockAI) CampaignInsights(ctx context.Context, campaignID, userID string) (string, error) {
	args := m.Called(ctx, campaignID, userID)
	return args.String(0), args.Error(1)
}

type MockReceipts struct{ mock.Mock }

func (m *MockReceipts) Execute(ctx context.Context, input usecase.ReceiptInput) (*usecase.ReceiptOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ReceiptOutput), args.Error(1)
}

type MockOrders struct{ mock.Mock }

func (m *MockOrders) Execute(ctx context.Context, input usecase.CreateOrderInput) (*entity.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

type MockAuth struct{ mock.Mock }

func (m *MockAuth) LoginWithGoogle(ctx context.Context, input usecase.GoogleUserInput) (*entity.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuth) Me(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
