package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const logColumns = `id, campaign_id, customer_id, message, status, vendor_response, sent_at, delivered_at, created_at`

type CommunicationLogRepository struct {
	DB *sql.DB
}

func NewCommunicationLogRepository(db *sql.DB) *CommunicationLogRepository {
	return &CommunicationLogRepository{DB: db}
}

func (r *CommunicationLogRepository) Create(ctx context.Context, l *entity.CommunicationLog) error {
	query := `
		INSERT INTO communication_logs (id, campaign_id, customer_id, message, status, vendor_response, sent_at, delivered_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		l.ID,
		l.CampaignID,
		l.CustomerID,
		l.Message,
		string(l.Status),
		jsonParam(l.VendorResponse),
		nullTime(l.SentAt),
		nullTime(l.DeliveredAt),
		l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert communication log: %w", err)
	}
	return nil
}

func (r *CommunicationLogRepository) FindByID(ctx context.Context, id string) (*entity.CommunicationLog, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+logColumns+` FROM communication_logs WHERE id = $1`, id)
	l, err := scanLog(row)
	if noRows(err) {
		return nil, entity.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find communication log %s: %w", id, err)
	}
	return l, nil
}

func (r *CommunicationLogRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*entity.CommunicationLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+logColumns+` FROM communication_logs WHERE campaign_id = $1 ORDER BY created_at ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("list communication logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*entity.CommunicationLog, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan communication log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate communication logs: %w", err)
	}
	return logs, nil
}

func (r *CommunicationLogRepository) MarkSent(ctx context.Context, id string, sentAt time.Time, vendorResponse json.RawMessage) (bool, error) {
	query := `
		UPDATE communication_logs
		SET status = 'sent',
		    sent_at = $2,
		    vendor_response = COALESCE($3::jsonb, vendor_response)
		WHERE id = $1 AND status = 'pending'
	`
	return r.execGuarded(ctx, "mark log sent", query, id, sentAt, jsonParam(vendorResponse))
}

func (r *CommunicationLogRepository) ApplyReceipt(ctx context.Context, id string, status entity.DeliveryStatus, deliveredAt *time.Time, vendorResponse json.RawMessage) (bool, error) {
	query := `
		UPDATE communication_logs
		SET status = $2,
		    delivered_at = COALESCE($3, delivered_at),
		    vendor_response = COALESCE($4::jsonb, vendor_response)
		WHERE id = $1 AND status NOT IN ('delivered', 'failed')
	`
	return r.execGuarded(ctx, "apply receipt", query, id, string(status), nullTime(deliveredAt), jsonParam(vendorResponse))
}

func (r *CommunicationLogRepository) execGuarded(ctx context.Context, op, query string, args ...any) (bool, error) {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return n > 0, nil
}

func (r *CommunicationLogRepository) StatsByCampaign(ctx context.Context, campaignID string) (entity.CampaignStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'sent'),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM communication_logs
		WHERE campaign_id = $1
	`
	var s entity.CampaignStats
	if err := r.DB.QueryRowContext(ctx, query, campaignID).Scan(&s.Sent, &s.Delivered, &s.Failed); err != nil {
		return entity.CampaignStats{}, fmt.Errorf("campaign stats: %w", err)
	}
	return s, nil
}

func (r *CommunicationLogRepository) TotalsByUser(ctx context.Context, userID string) (int, int, error) {
	query := `
		SELECT COUNT(l.id), COUNT(l.id) FILTER (WHERE l.status = 'delivered')
		FROM communication_logs l
		JOIN campaigns c ON c.id = l.campaign_id
		WHERE c.user_id = $1
	`
	var messages, delivered int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&messages, &delivered); err != nil {
		return 0, 0, fmt.Errorf("delivery totals: %w", err)
	}
	return messages, delivered, nil
}

// CountPendingBefore counts logs created before the cutoff that are still
// waiting for a receipt, whether or not the vendor accepted them.
func (r *CommunicationLogRepository) CountPendingBefore(ctx context.Context, before time.Time) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM communication_logs WHERE status IN ('pending', 'sent') AND created_at < $1`,
		before,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stale deliveries: %w", err)
	}
	return count, nil
}

func scanLog(s rowScanner) (*entity.CommunicationLog, error) {
	var (
		l           entity.CommunicationLog
		status      string
		vendorResp  []byte
		sentAt      sql.NullTime
		deliveredAt sql.NullTime
	)
	err := s.Scan(
		&l.ID,
		&l.CampaignID,
		&l.CustomerID,
		&l.Message,
		&status,
		&vendorResp,
		&sentAt,
		&deliveredAt,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = entity.DeliveryStatus(status)
	if len(vendorResp) > 0 {
		l.VendorResponse = json.RawMessage(vendorResp)
	}
	l.SentAt = timePtr(sentAt)
	l.DeliveredAt = timePtr(deliveredAt)
	return &l, nil
}
