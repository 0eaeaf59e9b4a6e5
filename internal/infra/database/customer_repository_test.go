package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/segment"
)

var customerCols = []string{"id", "email", "name", "phone", "total_spend", "visit_count", "last_order_date", "segment", "created_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestCustomerRepositoryCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)
	c, err := entity.NewCustomer("Ana", "ana@example.com", "", "")
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs(c.ID, "ana@example.com", "Ana", nil, 0.0, 0, nil, "regular", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)
	c, _ := entity.NewCustomer("Ana", "ana@example.com", "", "vip")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
}

func TestCustomerRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, entity.ErrCustomerNotFound)
}

func TestCustomerRepositoryFindByIDScansNullables(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(customerCols).
			AddRow("c-1", "ana@example.com", "Ana", nil, 1250.5, 3, nil, "vip", created))

	c, err := repo.FindByID(context.Background(), "c-1")

	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	assert.Empty(t, c.Phone)
	assert.Nil(t, c.LastOrderDate)
	assert.Equal(t, 1250.5, c.TotalSpend)
	assert.Equal(t, 3, c.VisitCount)
}

func TestCustomerRepositoryFindBySegmentEmptyFilterSkipsQuery(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)

	customers, err := repo.FindBySegment(context.Background(), segment.Filter{}, time.Now())

	require.NoError(t, err)
	assert.Empty(t, customers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepositoryFindBySegment(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	f, dropped := segment.Compile([]entity.SegmentRule{
		{Field: "totalSpend", Operator: ">", Value: "10000", Connector: "OR"},
		{Field: "lastOrderDate", Operator: ">", Value: "90"},
	})
	require.Empty(t, dropped)

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE (total_spend > $1) OR ((last_order_date IS NULL OR last_order_date < $2)) ORDER BY created_at ASC")).
		WithArgs(10000.0, now.Add(-90*24*time.Hour)).
		WillReturnRows(sqlmock.NewRows(customerCols).
			AddRow("c-1", "ana@example.com", "Ana", "+5511999999999", 12000.0, 10, now, "vip", now).
			AddRow("c-2", "bia@example.com", "Bia", nil, 10.0, 1, nil, "regular", now))

	customers, err := repo.FindBySegment(context.Background(), f, now)

	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "+5511999999999", customers[0].Phone)
	assert.NotNil(t, customers[0].LastOrderDate)
	assert.Nil(t, customers[1].LastOrderDate)
}

func TestCustomerRepositoryCountActiveSince(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)
	since := time.Now().Add(-90 * 24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers WHERE last_order_date >= $1")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountActiveSince(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
