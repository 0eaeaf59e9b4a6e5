package usecase

import (
	"encoding/json"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateCampaignInput struct {
	UserID  string               `json:"-"`
	Name    string               `json:"name"`
	Type    string               `json:"type"`
	Message string               `json:"message"`
	Rules   []entity.SegmentRule `json:"rules"`
	Status  string               `json:"status"`
}

type LaunchOutput struct {
	Campaign   *entity.Campaign `json:"campaign"`
	Recipients int              `json:"recipients"`
	Queued     int              `json:"queued"`
	Failed     int              `json:"failed"`
}

type ReceiptInput struct {
	LogID          string          `json:"logId"`
	Status         string          `json:"status"`
	Timestamp      *time.Time      `json:"timestamp"`
	VendorResponse json.RawMessage `json:"vendorResponse"`
}

type ReceiptOutput struct {
	LogID   string                `json:"logId"`
	Status  entity.DeliveryStatus `json:"status"`
	Applied bool                  `json:"applied"`
}

type CreateCustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Segment string `json:"segment"`
}

type CreateOrderInput struct {
	CustomerID string     `json:"customerId"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

// CampaignWithStats flattens the campaign fields next to its delivery counts.
type CampaignWithStats struct {
	*entity.Campaign
	Stats entity.CampaignStats `json:"stats"`
}

type GoogleUserInput struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Sub     string `json:"sub"`
}
