package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type MockLauncher struct {
	mock.Mock
}

func (m *MockLauncher) Dispatch(ctx context.Context, c *entity.Campaign) (*LaunchOutput, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LaunchOutput), args.Error(1)
}

func newCreateCampaignFixture() (*CreateCampaignUseCase, *MockCampaignRepository, *MockAudienceSource, *MockLauncher) {
	campaigns := new(MockCampaignRepository)
	source := new(MockAudienceSource)
	launcher := new(MockLauncher)
	audience := NewResolveAudienceUseCase(source)
	audience.Now = fixedClock
	return NewCreateCampaignUseCase(campaigns, audience, launcher), campaigns, source, launcher
}

func validCampaignInput() CreateCampaignInput {
	return CreateCampaignInput{
		UserID:  "u-1",
		Name:    "Win back",
		Type:    "win-back",
		Message: "We miss you {{name}}",
		Rules:   []entity.SegmentRule{{Field: "lastOrderDate", Operator: ">", Value: "90"}},
	}
}

func TestCreateCampaignStoresDraftWithAudienceSnapshot(t *testing.T) {
	uc, campaigns, source, launcher := newCreateCampaignFixture()
	source.On("FindBySegment", mock.Anything, mock.Anything, fixedNow).
		Return([]*entity.Customer{{ID: "c-1"}, {ID: "c-2"}, {ID: "c-3"}}, nil)
	campaigns.On("Create", mock.Anything, mock.AnythingOfType("*entity.Campaign")).Return(nil)

	c, err := uc.Execute(context.Background(), validCampaignInput())

	require.NoError(t, err)
	assert.Equal(t, entity.CampaignDraft, c.Status)
	assert.Equal(t, 3, c.AudienceSize)
	assert.Equal(t, "u-1", c.UserID)
	launcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestCreateCampaignWithRunningStatusLaunches(t *testing.T) {
	uc, campaigns, source, launcher := newCreateCampaignFixture()
	source.On("FindBySegment", mock.Anything, mock.Anything, fixedNow).Return([]*entity.Customer{{ID: "c-1"}}, nil)
	campaigns.On("Create", mock.Anything, mock.Anything).Return(nil)
	launcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(c *entity.Campaign) bool {
		return c.Status == entity.CampaignDraft
	})).Return(&LaunchOutput{
		Campaign:   &entity.Campaign{Status: entity.CampaignCompleted},
		Recipients: 1,
		Queued:     1,
	}, nil).Once()

	input := validCampaignInput()
	input.Status = "running"
	c, err := uc.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, entity.CampaignCompleted, c.Status)
	launcher.AssertExpectations(t)
}

func TestCreateCampaignValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateCampaignInput)
	}{
		{"missing name", func(in *CreateCampaignInput) { in.Name = " " }},
		{"unknown type", func(in *CreateCampaignInput) { in.Type = "newsletter" }},
		{"missing message", func(in *CreateCampaignInput) { in.Message = "" }},
		{"unknown status", func(in *CreateCampaignInput) { in.Status = "completed" }},
		{"rule without field", func(in *CreateCampaignInput) { in.Rules = []entity.SegmentRule{{Operator: ">", Value: "1"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, campaigns, source, _ := newCreateCampaignFixture()
			input := validCampaignInput()
			tt.mutate(&input)

			_, err := uc.Execute(context.Background(), input)

			assert.Equal(t, CodeValidation, domainCode(err))
			campaigns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			source.AssertNotCalled(t, "FindBySegment", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
