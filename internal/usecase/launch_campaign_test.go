package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type launchFixture struct {
	campaigns *MockCampaignRepository
	logs      *MockLogRepository
	source    *MockAudienceSource
	publisher *MockPublisher
	uc        *LaunchCampaignUseCase
}

func newLaunchFixture() *launchFixture {
	f := &launchFixture{
		campaigns: new(MockCampaignRepository),
		logs:      new(MockLogRepository),
		source:    new(MockAudienceSource),
		publisher: new(MockPublisher),
	}
	audience := NewResolveAudienceUseCase(f.source)
	audience.Now = fixedClock
	f.uc = NewLaunchCampaignUseCase(f.campaigns, f.logs, audience, f.publisher)
	f.uc.Now = fixedClock
	return f
}

func draftCampaign(t *testing.T) *entity.Campaign {
	t.Helper()
	c, err := entity.NewCampaign("u-1", "High spenders", entity.CampaignPromotional, "Hi {{name}}, 20% off!", []entity.SegmentRule{
		{Field: "totalSpend", Operator: ">", Value: "10000"},
	})
	require.NoError(t, err)
	return c
}

func TestDispatchQueuesOneJobPerRecipient(t *testing.T) {
	f := newLaunchFixture()
	c := draftCampaign(t)
	customers := []*entity.Customer{
		{ID: "c-1", Name: "Ana", Email: "ana@example.com", TotalSpend: 12000},
		{ID: "c-2", Name: "Bia", Email: "bia@example.com", TotalSpend: 15000},
	}

	f.campaigns.On("MarkRunning", mock.Anything, c.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	f.source.On("FindBySegment", mock.Anything, mock.Anything, fixedNow).Return(customers, nil)
	f.logs.On("Create", mock.Anything, mock.AnythingOfType("*entity.CommunicationLog")).Return(nil)
	f.publisher.On("PublishDelivery", mock.Anything, mock.AnythingOfType("queue.DeliveryJob")).Return(nil)
	f.campaigns.On("UpdateStatus", mock.Anything, c.ID, entity.CampaignCompleted, (*time.Time)(nil)).Return(nil).Once()

	out, err := f.uc.Dispatch(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, 2, out.Recipients)
	assert.Equal(t, 2, out.Queued)
	assert.Equal(t, 0, out.Failed)
	assert.Equal(t, entity.CampaignCompleted, c.Status)
	require.NotNil(t, c.LaunchedAt)
	assert.Equal(t, fixedNow, *c.LaunchedAt)

	f.publisher.AssertNumberOfCalls(t, "PublishDelivery", 2)
	job := f.publisher.Calls[0].Arguments.Get(1).(queue.DeliveryJob)
	assert.Equal(t, "Hi Ana, 20% off!", job.Message)
	assert.Equal(t, "ana@example.com", job.To)
	assert.Equal(t, c.ID, job.CampaignID)

	created := f.logs.Calls[0].Arguments.Get(1).(*entity.CommunicationLog)
	assert.Equal(t, entity.DeliveryPending, created.Status)
	assert.Equal(t, created.ID, job.LogID, "the log id is the vendor correlation id")
	f.campaigns.AssertExpectations(t)
}

func TestDispatchEmptyAudienceStillCompletes(t *testing.T) {
	f := newLaunchFixture()
	c := draftCampaign(t)

	f.campaigns.On("MarkRunning", mock.Anything, c.ID, mock.AnythingOfType("time.Time")).Return(nil)
	f.source.On("FindBySegment", mock.Anything, mock.Anything, fixedNow).Return([]*entity.Customer{}, nil)
	f.campaigns.On("UpdateStatus", mock.Anything, c.ID, entity.CampaignCompleted, (*time.Time)(nil)).Return(nil)

	out, err := f.uc.Dispatch(context.Background(), c)

	require.NoError(t, err)
	assert.Zero(t, out.Recipients)
	assert.Equal(t, entity.CampaignCompleted, c.Status)
	f.logs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDispatchPublishFailureOnlyAffectsThatRecipient(t *testing.T) {
	f := newLaunchFixture()
	c := draftCampaign(t)
	customers := []*entity.Customer{
		{ID: "c-1", Name: "Ana", Email: "ana@example.com"},
		{ID: "c-2", Name: "Bia", Email: "bia@example.com"},
	}

	f.campaigns.On("MarkRunning", mock.Anything, c.ID, mock.AnythingOfType("time.Time")).Return(nil)
	f.source.On("FindBySegment", mock.Anything, mock.Anything, fixedNow).Return(customers, nil)
	f.logs.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishDelivery", mock.Anything, mock.MatchedBy(func(j queue.DeliveryJob) bool { return j.CustomerID == "c-1" })).
		Return(errors.New("channel closed"))
	f.publisher.On("PublishDelivery", mock.Anything, mock.MatchedBy(func(j queue.DeliveryJob) bool { return j.CustomerID == "c-2" })).
		Return(nil)
	f.logs.On("ApplyReceipt", mock.Anything, mock.Anything, entity.DeliveryFailed, (*time.Time)(nil), mock.Anything).Return(true, nil)
	f.campaigns.On("UpdateStatus", mock.Anything, c.ID, entity.CampaignCompleted, (*time.Time)(nil)).Return(nil)

	out, err := f.uc.Dispatch(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, 1, out.Queued)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, entity.CampaignCompleted, c.Status, "campaign status never depends on deliveries")
	f.logs.AssertNumberOfCalls(t, "ApplyReceipt", 1)
}

func TestDispatchAudienceFailureMarksCampaignFailed(t *testing.T) {
	f := newLaunchFixture()
	c := draftCampaign(t)

	f.campaigns.On("MarkRunning", mock.Anything, c.ID, mock.AnythingOfType("time.Time")).Return(nil)
	f.source.On("FindBySegment", mock.Anything, mock.Anything, fixedNow).Return(nil, errors.New("db down"))
	f.campaigns.On("UpdateStatus", mock.Anything, c.ID, entity.CampaignFailed, (*time.Time)(nil)).Return(nil)

	_, err := f.uc.Dispatch(context.Background(), c)

	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, entity.CampaignFailed, c.Status)
	f.campaigns.AssertExpectations(t)
}

func TestDispatchLogInsertFailureMarksCampaignFailed(t *testing.T) {
	f := newLaunchFixture()
	c := draftCampaign(t)

	f.campaigns.On("MarkRunning", mock.Anything, c.ID, mock.AnythingOfType("time.Time")).Return(nil)
	f.source.On("FindBySegment", mock.Anything, mock.Anything, fixedNow).Return([]*entity.Customer{{ID: "c-1", Name: "Ana"}}, nil)
	f.logs.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	f.campaigns.On("UpdateStatus", mock.Anything, c.ID, entity.CampaignFailed, (*time.Time)(nil)).Return(nil)

	_, err := f.uc.Dispatch(context.Background(), c)

	assert.Error(t, err)
	assert.Equal(t, entity.CampaignFailed, c.Status)
	f.publisher.AssertNotCalled(t, "PublishDelivery", mock.Anything, mock.Anything)
}

func TestLaunchUnknownCampaign(t *testing.T) {
	f := newLaunchFixture()
	f.campaigns.On("FindByID", mock.Anything, "ghost").Return(nil, entity.ErrCampaignNotFound)

	_, err := f.uc.Execute(context.Background(), "ghost", "u-1")

	assert.Equal(t, CodeNotFound, domainCode(err))
}

func TestLaunchOtherUsersCampaignIsNotFound(t *testing.T) {
	f := newLaunchFixture()
	c := draftCampaign(t)
	f.campaigns.On("FindByID", mock.Anything, c.ID).Return(c, nil)

	_, err := f.uc.Execute(context.Background(), c.ID, "someone-else")

	assert.Equal(t, CodeNotFound, domainCode(err))
	f.campaigns.AssertNotCalled(t, "MarkRunning", mock.Anything, mock.Anything, mock.Anything)
	f.campaigns.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLaunchLosingConcurrentLaunchDispatchesNothing(t *testing.T) {
	f := newLaunchFixture()
	c := draftCampaign(t)
	f.campaigns.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	f.campaigns.On("MarkRunning", mock.Anything, c.ID, fixedNow).Return(entity.ErrCampaignNotLaunchable)

	_, err := f.uc.Execute(context.Background(), c.ID, "u-1")

	assert.Equal(t, CodeInvalidState, domainCode(err))
	f.source.AssertNotCalled(t, "FindBySegment", mock.Anything, mock.Anything, mock.Anything)
	f.logs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.campaigns.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLaunchRejectsNonDraft(t *testing.T) {
	for _, status := range []entity.CampaignStatus{entity.CampaignRunning, entity.CampaignCompleted, entity.CampaignFailed} {
		t.Run(string(status), func(t *testing.T) {
			f := newLaunchFixture()
			c := draftCampaign(t)
			c.Status = status
			f.campaigns.On("FindByID", mock.Anything, c.ID).Return(c, nil)

			_, err := f.uc.Execute(context.Background(), c.ID, "u-1")

			assert.Equal(t, CodeInvalidState, domainCode(err))
			f.source.AssertNotCalled(t, "FindBySegment", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
