package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ProcessReceiptUseCase struct {
	Logs entity.CommunicationLogRepositoryInterface
	Now  Clock
}

func NewProcessReceiptUseCase(logs entity.CommunicationLogRepositoryInterface) *ProcessReceiptUseCase {
	return &ProcessReceiptUseCase{Logs: logs, Now: utcNow}
}

// Execute reconciles one vendor receipt onto its log. Receipts for logs that
// already reached delivered or failed are acknowledged without changes.
func (uc *ProcessReceiptUseCase) Execute(ctx context.Context, input ReceiptInput) (*ReceiptOutput, error) {
	if input.LogID == "" {
		return nil, validationError("logId is required")
	}

	status := entity.DeliveryStatus(input.Status)
	if !status.IsFinal() {
		return nil, validationError("status must be delivered or failed")
	}

	entry, err := uc.Logs.FindByID(ctx, input.LogID)
	if errors.Is(err, entity.ErrLogNotFound) {
		return nil, notFound("communication log not found")
	}
	if err != nil {
		return nil, databaseError("failed to load communication log", err)
	}

	if entry.Status.IsFinal() {
		return &ReceiptOutput{LogID: entry.ID, Status: entry.Status, Applied: false}, nil
	}

	var deliveredAt *time.Time
	if status == entity.DeliveryDelivered {
		at := uc.Now()
		if input.Timestamp != nil && !input.Timestamp.IsZero() {
			at = input.Timestamp.UTC()
		}
		deliveredAt = &at
	}

	applied, err := uc.Logs.ApplyReceipt(ctx, entry.ID, status, deliveredAt, input.VendorResponse)
	if err != nil {
		return nil, databaseError("failed to apply receipt", err)
	}

	return &ReceiptOutput{LogID: entry.ID, Status: status, Applied: applied}, nil
}
