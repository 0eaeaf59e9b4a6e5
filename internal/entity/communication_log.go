package entity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliverySent      DeliveryStatus = "sent"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
)

// IsFinal reports whether no further receipt may change the status.
func (s DeliveryStatus) IsFinal() bool {
	return s == DeliveryDelivered || s == DeliveryFailed
}

// CommunicationLog is one row per (campaign, customer) created at dispatch.
// Its ID doubles as the vendor correlation id.
type CommunicationLog struct {
	ID             string          `json:"id"`
	CampaignID     string          `json:"campaignId"`
	CustomerID     string          `json:"customerId"`
	Message        string          `json:"message"`
	Status         DeliveryStatus  `json:"status"`
	VendorResponse json.RawMessage `json:"vendorResponse,omitempty"`
	SentAt         *time.Time      `json:"sentAt"`
	DeliveredAt    *time.Time      `json:"deliveredAt"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func NewCommunicationLog(campaignID, customerID, message string) *CommunicationLog {
	return &CommunicationLog{
		ID:         uuid.New().String(),
		CampaignID: campaignID,
		CustomerID: customerID,
		Message:    message,
		Status:     DeliveryPending,
		CreatedAt:  time.Now().UTC(),
	}
}

type CampaignStats struct {
	Sent      int `json:"sent"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

type DashboardStats struct {
	TotalCampaigns  int     `json:"totalCampaigns"`
	MessagesSent    int     `json:"messagesSent"`
	ActiveCustomers int     `json:"activeCustomers"`
	DeliveryRate    float64 `json:"deliveryRate"`
}

type CommunicationLogRepositoryInterface interface {
	Create(ctx context.Context, l *CommunicationLog) error
	FindByID(ctx context.Context, id string) (*CommunicationLog, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]*CommunicationLog, error)
	// MarkSent only moves a pending log; it reports whether a row changed.
	MarkSent(ctx context.Context, id string, sentAt time.Time, vendorResponse json.RawMessage) (bool, error)
	// ApplyReceipt only moves a non-final log; it reports whether a row changed.
	ApplyReceipt(ctx context.Context, id string, status DeliveryStatus, deliveredAt *time.Time, vendorResponse json.RawMessage) (bool, error)
	StatsByCampaign(ctx context.Context, campaignID string) (CampaignStats, error)
	TotalsByUser(ctx context.Context, userID string) (messages int, delivered int, err error)
	CountPendingBefore(ctx context.Context, before time.Time) (int, error)
}

// CampaignReport is the input for a campaign performance summary.
type CampaignReport struct {
	CampaignType CampaignType
	AudienceSize int
	Sent         int
	Delivered    int
	Failed       int
}

// DeliveryRate is delivered over sent as a percentage, 0 when nothing was sent.
func (r CampaignReport) DeliveryRate() float64 {
	if r.Sent == 0 {
		return 0
	}
	return float64(r.Delivered) / float64(r.Sent) * 100
}
