package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const campaignColumns = `id, user_id, name, type, message, rules, audience_size, status, created_at, launched_at`

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	rules, err := json.Marshal(c.Rules)
	if err != nil {
		return fmt.Errorf("marshal campaign rules: %w", err)
	}

	query := `
		INSERT INTO campaigns (id, user_id, name, type, message, rules, audience_size, status, created_at, launched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.DB.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.Name,
		string(c.Type),
		c.Message,
		string(rules),
		c.AudienceSize,
		string(c.Status),
		c.CreatedAt,
		nullTime(c.LaunchedAt),
	)
	if err != nil {
		if hasPQCode(err, foreignKeyViolation) {
			return entity.ErrUserNotFound
		}
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if noRows(err) {
		return nil, entity.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find campaign %s: %w", id, err)
	}
	return c, nil
}

func (r *CampaignRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Campaign, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]*entity.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}
	return campaigns, nil
}

// MarkRunning only matches drafts, so concurrent launches of one campaign
// dispatch at most once.
func (r *CampaignRepository) MarkRunning(ctx context.Context, id string, launchedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET status = $2, launched_at = $3 WHERE id = $1 AND status = $4`,
		id, string(entity.CampaignRunning), launchedAt, string(entity.CampaignDraft),
	)
	if err != nil {
		if hasPQCode(err, invalidTextRepresentation) {
			return entity.ErrCampaignNotFound
		}
		return fmt.Errorf("mark campaign %s running: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark campaign running rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrCampaignNotLaunchable
	}
	return nil
}

// UpdateStatus keeps the stored launched_at when launchedAt is nil.
func (r *CampaignRepository) UpdateStatus(ctx context.Context, id string, status entity.CampaignStatus, launchedAt *time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET status = $2, launched_at = COALESCE($3, launched_at) WHERE id = $1`,
		id, string(status), nullTime(launchedAt),
	)
	if err != nil {
		return fmt.Errorf("update campaign %s status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update campaign rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count campaigns: %w", err)
	}
	return count, nil
}

func scanCampaign(s rowScanner) (*entity.Campaign, error) {
	var (
		c          entity.Campaign
		rules      []byte
		campType   string
		status     string
		launchedAt sql.NullTime
	)
	err := s.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&campType,
		&c.Message,
		&rules,
		&c.AudienceSize,
		&status,
		&c.CreatedAt,
		&launchedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Type = entity.CampaignType(campType)
	c.Status = entity.CampaignStatus(status)
	c.LaunchedAt = timePtr(launchedAt)
	c.Rules = []entity.SegmentRule{}
	if len(rules) > 0 {
		if err := json.Unmarshal(rules, &c.Rules); err != nil {
			return nil, fmt.Errorf("decode campaign rules: %w", err)
		}
	}
	return &c, nil
}
