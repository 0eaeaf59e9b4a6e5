package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

type CreateCustomerUseCase struct {
	Repo entity.CustomerRepositoryInterface
}

func NewCreateCustomerUseCase(repo entity.CustomerRepositoryInterface) *CreateCustomerUseCase {
	return &CreateCustomerUseCase{Repo: repo}
}

func (uc *CreateCustomerUseCase) Execute(ctx context.Context, input CreateCustomerInput) (*entity.Customer, error) {
	customer, err := entity.NewCustomer(input.Name, input.Email, input.Phone, input.Segment)
	if err != nil {
		return nil, validationError(err.Error())
	}

	if err := uc.Repo.Create(ctx, customer); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, &DomainError{Code: CodeConflict, Message: "a customer with this email already exists"}
		}
		return nil, databaseError("failed to persist customer", err)
	}
	return customer, nil
}

type ListCustomersUseCase struct {
	Repo entity.CustomerRepositoryInterface
}

func NewListCustomersUseCase(repo entity.CustomerRepositoryInterface) *ListCustomersUseCase {
	return &ListCustomersUseCase{Repo: repo}
}

func (uc *ListCustomersUseCase) Execute(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	customers, err := uc.Repo.List(ctx, clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, databaseError("failed to list customers", err)
	}
	return customers, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return min(limit, maxPageSize)
}
