package services

import (
	"context"
	"errors"
	"fmt"

	"customer-sync/internal/models"
	"customer-sync/internal/repositories"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidPage      = errors.New("page and limit must be positive")
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

type CustomerService struct {
	customerRepo repositories.CustomerRepositoryInterface
}

func NewCustomerService(customerRepo repositories.CustomerRepositoryInterface) CustomerServiceInterface {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// ListCustomers returns one page of stored customers ordered by identifier
func (s *CustomerService) ListCustomers(ctx context.Context, page, limit int) ([]models.Customer, int64, error) {
	if page < 1 || limit < 1 {
		return nil, 0, ErrInvalidPage
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	customers, total, err := s.customerRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, total, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}
