package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/segment"
)

const customerColumns = `id, email, name, phone, total_spend, visit_count, last_order_date, segment, created_at`

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (id, email, name, phone, total_spend, visit_count, last_order_date, segment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.Email,
		c.Name,
		nullString(c.Phone),
		c.TotalSpend,
		c.VisitCount,
		nullTime(c.LastOrderDate),
		c.Segment,
		c.CreatedAt,
	)
	if err != nil {
		if hasPQCode(err, uniqueViolation) {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if noRows(err) {
		return nil, entity.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %s: %w", id, err)
	}
	return c, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = $1`, email)
	c, err := scanCustomer(row)
	if noRows(err) {
		return nil, entity.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return collectCustomers(rows)
}

// FindBySegment returns every customer matched by f, oldest first. An empty
// filter matches nobody and does not hit the database.
func (r *CustomerRepository) FindBySegment(ctx context.Context, f segment.Filter, now time.Time) ([]*entity.Customer, error) {
	if f.Empty() {
		return []*entity.Customer{}, nil
	}

	where, args := f.SQL(now, 1)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE `+where+` ORDER BY created_at ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("find customers by segment: %w", err)
	}
	return collectCustomers(rows)
}

func (r *CustomerRepository) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE last_order_date >= $1`, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active customers: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s rowScanner) (*entity.Customer, error) {
	var (
		c         entity.Customer
		phone     sql.NullString
		lastOrder sql.NullTime
	)
	err := s.Scan(
		&c.ID,
		&c.Email,
		&c.Name,
		&phone,
		&c.TotalSpend,
		&c.VisitCount,
		&lastOrder,
		&c.Segment,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Phone = phone.String
	c.LastOrderDate = timePtr(lastOrder)
	return &c, nil
}

func collectCustomers(rows *sql.Rows) ([]*entity.Customer, error) {
	defer rows.Close()

	customers := make([]*entity.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}
