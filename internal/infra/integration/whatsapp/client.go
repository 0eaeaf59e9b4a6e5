package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/integration/vendor"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

// Client delivers campaign messages as WhatsApp text messages through the
// Cloud API. An accepted message is reported as delivered through the
// receipt callback; a rejected one as failed.
type Client struct {
	AccessToken string
	PhoneID     string
	BaseURL     string
	HTTP        *http.Client
	Receipts    vendor.ReceiptSender

	now func() time.Time
}

func NewClient(accessToken, phoneID, baseURL string, receipts vendor.ReceiptSender) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		AccessToken: accessToken,
		PhoneID:     phoneID,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		Receipts:    receipts,
		now:         time.Now,
	}
}

func (c *Client) Send(ctx context.Context, d vendor.Delivery) (vendor.Response, error) {
	var resp vendor.Response
	if phone := normalizePhone(d.Phone); phone == "" {
		resp = vendor.Response{Success: false, Error: "customer has no phone number"}
	} else {
		id, err := c.sendText(ctx, phone, d)
		if err != nil {
			return vendor.Response{}, err
		}
		resp = id
	}

	if c.Receipts != nil {
		if err := c.Receipts.Notify(ctx, vendor.ReceiptFor(d.CorrelationID, resp, c.now())); err != nil {
			log := logger.WithComponent("whatsapp-vendor")
			log.Error().Err(err).Str("log_id", d.CorrelationID).Msg("failed to send delivery receipt")
		}
	}
	return resp, nil
}

// sendText returns a transport error only when the API could not be
// reached; API rejections come back as an unsuccessful Response.
func (c *Client) sendText(ctx context.Context, phone string, d vendor.Delivery) (vendor.Response, error) {
	body, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phone,
		Type:             "text",
		Text:             textBody{Body: d.Message},
		BizOpaqueData:    d.CorrelationID,
	})
	if err != nil {
		return vendor.Response{}, fmt.Errorf("marshal whatsapp message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return vendor.Response{}, fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	httpResp, err := c.HTTP.Do(req)
	if err != nil {
		return vendor.Response{}, fmt.Errorf("whatsapp send: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, 64<<10))

	var result sendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil && httpResp.StatusCode < 300 {
		return vendor.Response{}, fmt.Errorf("decode whatsapp response: %w", err)
	}

	if result.Error != nil {
		return vendor.Response{Success: false, Error: fmt.Sprintf("whatsapp: %s (code %d)", result.Error.Message, result.Error.Code)}, nil
	}
	if httpResp.StatusCode >= 300 {
		return vendor.Response{Success: false, Error: fmt.Sprintf("whatsapp api status %d", httpResp.StatusCode)}, nil
	}
	if len(result.Messages) == 0 {
		return vendor.Response{Success: false, Error: "whatsapp accepted no message"}, nil
	}
	return vendor.Response{Success: true, MessageID: result.Messages[0].ID}, nil
}

// normalizePhone keeps digits only; the Cloud API wants E.164 without "+".
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
