package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const OrderStatusCompleted = "completed"

type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewOrder(customerID string, amount float64, status string) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, errors.New("customerId is required")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if strings.TrimSpace(status) == "" {
		status = OrderStatusCompleted
	}

	return &Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Amount:     amount,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

type OrderRepositoryInterface interface {
	// Create also moves the customer's aggregates forward, atomically.
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context, customerID string, limit int) ([]*Order, error)
}
