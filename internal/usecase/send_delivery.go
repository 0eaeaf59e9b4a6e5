package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/vendor"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// SendDeliveryUseCase consumes delivery jobs: it hands the message to the
// vendor and records that the vendor accepted it, or that it refused it. The
// final outcome of an accepted message arrives later through the receipt
// endpoint.
type SendDeliveryUseCase struct {
	Vendor DeliveryVendor
	Logs   entity.CommunicationLogRepositoryInterface
	Now    Clock
}

func NewSendDeliveryUseCase(v DeliveryVendor, logs entity.CommunicationLogRepositoryInterface) *SendDeliveryUseCase {
	return &SendDeliveryUseCase{Vendor: v, Logs: logs, Now: utcNow}
}

func (uc *SendDeliveryUseCase) HandleDelivery(ctx context.Context, job queue.DeliveryJob) error {
	log := logger.WithComponent("delivery").With().Str("log_id", job.LogID).Logger()

	resp, err := uc.Vendor.Send(ctx, vendor.Delivery{
		To:            job.To,
		Phone:         job.Phone,
		Message:       job.Message,
		CorrelationID: job.LogID,
	})
	if err != nil {
		log.Warn().Err(err).Msg("vendor call failed")
		body, _ := json.Marshal(vendor.Response{Success: false, Error: err.Error()})
		if _, applyErr := uc.Logs.ApplyReceipt(ctx, job.LogID, entity.DeliveryFailed, nil, body); applyErr != nil {
			return fmt.Errorf("mark log %s failed: %w", job.LogID, applyErr)
		}
		return nil
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal vendor response: %w", err)
	}

	// A refusal is final even when the vendor's receipt never arrives.
	if !resp.Success {
		log.Info().Str("error", resp.Error).Msg("vendor refused delivery")
		if _, err := uc.Logs.ApplyReceipt(ctx, job.LogID, entity.DeliveryFailed, nil, body); err != nil {
			return fmt.Errorf("mark log %s failed: %w", job.LogID, err)
		}
		return nil
	}

	changed, err := uc.Logs.MarkSent(ctx, job.LogID, uc.Now(), body)
	if err != nil {
		return fmt.Errorf("mark log %s sent: %w", job.LogID, err)
	}
	if !changed {
		log.Debug().Msg("receipt arrived before send confirmation, keeping final status")
	}
	return nil
}
