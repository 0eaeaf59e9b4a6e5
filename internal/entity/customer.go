package entity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultSegment = "regular"

// Customer aggregates (TotalSpend, VisitCount, LastOrderDate) are only ever
// moved forward by order ingestion, in the same transaction as the order row.
type Customer struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone,omitempty"`
	TotalSpend    float64    `json:"totalSpend"`
	VisitCount    int        `json:"visitCount"`
	LastOrderDate *time.Time `json:"lastOrderDate"`
	Segment       string     `json:"segment"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func NewCustomer(name, email, phone, segment string) (*Customer, error) {
	if strings.TrimSpace(segment) == "" {
		segment = DefaultSegment
	}

	customer := &Customer{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Phone:     strings.TrimSpace(phone),
		Segment:   strings.TrimSpace(segment),
		CreatedAt: time.Now().UTC(),
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	return customer, nil
}

func (c *Customer) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return errors.New("email is invalid")
	}
	if c.TotalSpend < 0 {
		return errors.New("totalSpend must not be negative")
	}
	if c.VisitCount < 0 {
		return errors.New("visitCount must not be negative")
	}
	return nil
}

// DaysSinceLastOrder reports false when the customer never ordered.
func (c *Customer) DaysSinceLastOrder(now time.Time) (float64, bool) {
	if c.LastOrderDate == nil {
		return 0, false
	}
	return now.Sub(*c.LastOrderDate).Hours() / 24, true
}

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, limit, offset int) ([]*Customer, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
}
