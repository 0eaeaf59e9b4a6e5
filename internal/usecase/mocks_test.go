package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/vendor"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/segment"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Campaign, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) MarkRunning(ctx context.Context, id string, launchedAt time.Time) error {
	return m.Called(ctx, id, launchedAt).Error(0)
}

func (m *MockCampaignRepository) UpdateStatus(ctx context.Context, id string, status entity.CampaignStatus, launchedAt *time.Time) error {
	return m.Called(ctx, id, status, launchedAt).Error(0)
}

func (m *MockCampaignRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) Create(ctx context.Context, l *entity.CommunicationLog) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLogRepository) FindByID(ctx context.Context, id string) (*entity.CommunicationLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CommunicationLog), args.Error(1)
}

func (m *MockLogRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*entity.CommunicationLog, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CommunicationLog), args.Error(1)
}

func (m *MockLogRepository) MarkSent(ctx context.Context, id string, sentAt time.Time, resp json.RawMessage) (bool, error) {
	args := m.Called(ctx, id, sentAt, resp)
	return args.Bool(0), args.Error(1)
}

func (m *MockLogRepository) ApplyReceipt(ctx context.Context, id string, status entity.DeliveryStatus, deliveredAt *time.Time, resp json.RawMessage) (bool, error) {
	args := m.Called(ctx, id, status, deliveredAt, resp)
	return args.Bool(0), args.Error(1)
}

func (m *MockLogRepository) StatsByCampaign(ctx context.Context, campaignID string) (entity.CampaignStats, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).(entity.CampaignStats), args.Error(1)
}

func (m *MockLogRepository) TotalsByUser(ctx context.Context, userID string) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockLogRepository) CountPendingBefore(ctx context.Context, before time.Time) (int, error) {
	args := m.Called(ctx, before)
	return args.Int(0), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *entity.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context, customerID string, limit int) ([]*entity.Order, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockAudienceSource struct {
	mock.Mock
}

func (m *MockAudienceSource) FindBySegment(ctx context.Context, f segment.Filter, now time.Time) ([]*entity.Customer, error) {
	args := m.Called(ctx, f, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Customer), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishDelivery(ctx context.Context, job queue.DeliveryJob) error {
	return m.Called(ctx, job).Error(0)
}

type MockVendor struct {
	mock.Mock
}

func (m *MockVendor) Send(ctx context.Context, d vendor.Delivery) (vendor.Response, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(vendor.Response), args.Error(1)
}

type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) ConvertRules(ctx context.Context, description string) ([]entity.SegmentRule, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SegmentRule), args.Error(1)
}

func (m *MockAssistant) GenerateMessages(ctx context.Context, objective, audience string) ([]entity.MessageVariant, error) {
	args := m.Called(ctx, objective, audience)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.MessageVariant), args.Error(1)
}

func (m *MockAssistant) SummarizeCampaign(ctx context.Context, report entity.CampaignReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func domainCode(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}
