package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateOrderUseCase struct {
	Orders    entity.OrderRepositoryInterface
	Customers entity.CustomerRepositoryInterface
}

func NewCreateOrderUseCase(orders entity.OrderRepositoryInterface, customers entity.CustomerRepositoryInterface) *CreateOrderUseCase {
	return &CreateOrderUseCase{Orders: orders, Customers: customers}
}

// Execute records the order. The repository moves the customer aggregates
// forward in the same transaction, so the totals always equal the sum over
// stored orders.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	if errs := ValidateCreateOrderInput(input); len(errs) > 0 {
		return nil, joinValidationErrors(errs)
	}

	if _, err := uc.Customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, entity.ErrCustomerNotFound) {
			return nil, notFound("customer not found")
		}
		return nil, databaseError("failed to load customer", err)
	}

	order, err := entity.NewOrder(input.CustomerID, input.Amount, input.Status)
	if err != nil {
		return nil, validationError(err.Error())
	}
	if input.CreatedAt != nil && !input.CreatedAt.IsZero() {
		order.CreatedAt = input.CreatedAt.UTC()
	}

	if err := uc.Orders.Create(ctx, order); err != nil {
		if errors.Is(err, entity.ErrCustomerNotFound) {
			return nil, notFound("customer not found")
		}
		return nil, databaseError("failed to persist order", err)
	}
	return order, nil
}

type ListOrdersUseCase struct {
	Orders entity.OrderRepositoryInterface
}

func NewListOrdersUseCase(orders entity.OrderRepositoryInterface) *ListOrdersUseCase {
	return &ListOrdersUseCase{Orders: orders}
}

func (uc *ListOrdersUseCase) Execute(ctx context.Context, customerID string, limit int) ([]*entity.Order, error) {
	orders, err := uc.Orders.List(ctx, customerID, clampLimit(limit))
	if err != nil {
		return nil, databaseError("failed to list orders", err)
	}
	return orders, nil
}
