package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/vendor"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"gopkg.in/gomail.v2"
)

const defaultSubject = "A message for you"

var campaignTemplate = template.Must(template.New("campaign").Parse(
	`<html><body><p style="white-space: pre-line">{{.Message}}</p><hr><small>Sent by {{.From}}</small></body></html>`,
))

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailVendor delivers campaign messages over SMTP and reports the outcome
// through the same receipt callback the simulator uses.
type EmailVendor struct {
	sender   *EmailSender
	dialer   mailDialer
	receipts vendor.ReceiptSender
	now      func() time.Time
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Subject:  defaultSubject,
	}
}

func NewEmailVendor(sender *EmailSender, receipts vendor.ReceiptSender) *EmailVendor {
	return &EmailVendor{
		sender:   sender,
		dialer:   gomail.NewDialer(sender.Host, sender.Port, sender.User, sender.Password),
		receipts: receipts,
		now:      time.Now,
	}
}

func (v *EmailVendor) Send(ctx context.Context, d vendor.Delivery) (vendor.Response, error) {
	m, err := v.sender.buildMessage(d)
	if err != nil {
		return vendor.Response{}, err
	}

	var resp vendor.Response
	if err := v.dialer.DialAndSend(m); err != nil {
		resp = vendor.Response{Success: false, Error: fmt.Sprintf("smtp send: %v", err)}
	} else {
		resp = vendor.Response{Success: true, MessageID: "smtp_" + uuid.New().String()}
	}

	if v.receipts != nil {
		if err := v.receipts.Notify(ctx, vendor.ReceiptFor(d.CorrelationID, resp, v.now())); err != nil {
			log := logger.WithComponent("smtp-vendor")
			log.Error().Err(err).Str("log_id", d.CorrelationID).Msg("failed to send delivery receipt")
		}
	}

	return resp, nil
}

func (s *EmailSender) buildMessage(d vendor.Delivery) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := campaignTemplate.Execute(&body, campaignEmailData{Message: d.Message, From: s.From}); err != nil {
		return nil, fmt.Errorf("render campaign email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", d.To)
	m.SetHeader("Subject", s.Subject)
	m.SetHeader("X-Correlation-ID", d.CorrelationID)
	m.SetBody("text/plain", d.Message)
	m.AddAlternative("text/html", body.String())
	return m, nil
}
