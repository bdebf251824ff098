package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"customer-sync/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCustomerAlreadyExists = errors.New("customer already exists")
)

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepositoryInterface {
	return &CustomerRepository{
		db: db,
	}
}

func (r *CustomerRepository) WithTx(tx *gorm.DB) CustomerRepositoryInterface {
	return &CustomerRepository{db: tx}
}

// GetByCustomerID retrieves a customer by its upstream identifier
func (r *CustomerRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.Customer, error) {
	var customer models.Customer

	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by ID: %w", err)
	}

	return &customer, nil
}

// Create inserts a new customer row
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if customer == nil {
		return errors.New("customer cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrCustomerAlreadyExists
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// Update writes every column of the customer, including nulls
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	if customer == nil {
		return errors.New("customer cannot be nil")
	}

	if customer.CustomerID == "" {
		return errors.New("customer ID cannot be empty")
	}

	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return nil
}

// List returns one page of customers ordered by identifier, plus the total row count
func (r *CustomerRepository) List(ctx context.Context, offset, limit int) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64

	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	if err := db.Order("customer_id ASC").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, total, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return total, nil
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505")
}
