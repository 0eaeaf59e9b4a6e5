package database

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

var campaignCols = []string{"id", "user_id", "name", "type", "message", "rules", "audience_size", "status", "created_at", "launched_at"}

func TestCampaignRepositoryCreateStoresRulesAsJSON(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)
	c, err := entity.NewCampaign("u-1", "Win back", entity.CampaignWinBack, "Hi {{name}}", []entity.SegmentRule{
		{Field: "lastOrderDate", Operator: ">", Value: "90"},
	})
	require.NoError(t, err)
	c.AudienceSize = 42
	rules, err := json.Marshal(c.Rules)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO campaigns")).
		WithArgs(c.ID, "u-1", "Win back", "win-back", "Hi {{name}}",
			string(rules),
			42, "draft", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepositoryCreateUnknownUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)
	c, _ := entity.NewCampaign("ghost", "Promo", entity.CampaignPromotional, "Hi", nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO campaigns")).
		WillReturnError(&pq.Error{Code: "23503"})

	assert.ErrorIs(t, repo.Create(context.Background(), c), entity.ErrUserNotFound)
}

func TestCampaignRepositoryFindByIDDecodesRules(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM campaigns WHERE id = $1")).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows(campaignCols).AddRow(
			"camp-1", "u-1", "Promo", "promotional", "Hi {{name}}",
			[]byte(`[{"field":"totalSpend","operator":">","value":"100","connector":"OR"},{"field":"segment","operator":"=","value":"vip"}]`),
			2, "completed", now, now,
		))

	c, err := repo.FindByID(context.Background(), "camp-1")

	require.NoError(t, err)
	assert.Equal(t, entity.CampaignCompleted, c.Status)
	assert.Equal(t, entity.CampaignPromotional, c.Type)
	require.Len(t, c.Rules, 2)
	assert.Equal(t, "OR", c.Rules[0].Connector)
	require.NotNil(t, c.LaunchedAt)
}

func TestCampaignRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE campaigns SET status = $2")).
		WithArgs("ghost", "completed", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "ghost", entity.CampaignCompleted, nil)
	assert.ErrorIs(t, err, entity.ErrCampaignNotFound)
}

func TestCampaignRepositoryMarkRunningOnlyFromDraft(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE campaigns SET status = $2, launched_at = $3 WHERE id = $1 AND status = $4")).
		WithArgs("camp-1", "running", at, "draft").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = $4")).
		WithArgs("camp-1", "running", at, "draft").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkRunning(context.Background(), "camp-1", at))
	assert.ErrorIs(t, repo.MarkRunning(context.Background(), "camp-1", at), entity.ErrCampaignNotLaunchable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
