package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CampaignType string

const (
	CampaignPromotional CampaignType = "promotional"
	CampaignWinBack     CampaignType = "win-back"
	CampaignRetention   CampaignType = "retention"
	CampaignWelcome     CampaignType = "welcome"
)

func (t CampaignType) Valid() bool {
	switch t {
	case CampaignPromotional, CampaignWinBack, CampaignRetention, CampaignWelcome:
		return true
	}
	return false
}

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignRunning   CampaignStatus = "running"
	CampaignCompleted CampaignStatus = "completed"
	CampaignFailed    CampaignStatus = "failed"
)

// SegmentRule is kept loosely typed on purpose: rules arrive from clients and
// from the AI collaborator, and unsupported combinations are dropped at
// evaluation time rather than rejected here.
type SegmentRule struct {
	Field     string `json:"field"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
	Connector string `json:"connector,omitempty"`
}

type Campaign struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	Name         string         `json:"name"`
	Type         CampaignType   `json:"type"`
	Message      string         `json:"message"`
	Rules        []SegmentRule  `json:"rules"`
	AudienceSize int            `json:"audienceSize"`
	Status       CampaignStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	LaunchedAt   *time.Time     `json:"launchedAt"`
}

var ErrCampaignNotLaunchable = errors.New("campaign can only be launched from draft")

func NewCampaign(userID, name string, campaignType CampaignType, message string, rules []SegmentRule) (*Campaign, error) {
	if rules == nil {
		rules = []SegmentRule{}
	}

	campaign := &Campaign{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Type:      campaignType,
		Message:   message,
		Rules:     rules,
		Status:    CampaignDraft,
		CreatedAt: time.Now().UTC(),
	}

	if err := campaign.Validate(); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (c *Campaign) Validate() error {
	if c.UserID == "" {
		return errors.New("userId is required")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	if !c.Type.Valid() {
		return errors.New("type must be one of promotional, win-back, retention, welcome")
	}
	if strings.TrimSpace(c.Message) == "" {
		return errors.New("message is required")
	}
	return nil
}

func (c *Campaign) CanLaunch() bool {
	return c.Status == CampaignDraft
}

func (c *Campaign) MarkRunning(now time.Time) error {
	if !c.CanLaunch() {
		return ErrCampaignNotLaunchable
	}
	c.Status = CampaignRunning
	c.LaunchedAt = &now
	return nil
}

func (c *Campaign) Render(customer *Customer) string {
	return RenderMessage(c.Message, customer.Name)
}

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *Campaign) error
	FindByID(ctx context.Context, id string) (*Campaign, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Campaign, error)
	// MarkRunning moves a stored draft to running and returns
	// ErrCampaignNotLaunchable when the campaign is no longer a draft.
	MarkRunning(ctx context.Context, id string, launchedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status CampaignStatus, launchedAt *time.Time) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
