package dto

import (
	"fmt"
	"time"

	"customer-sync/internal/models"

	"github.com/shopspring/decimal"
)

// ---------- Page Envelope ----------

type UpstreamCustomerPage struct {
	Data  []CustomerRecord `json:"data"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ---------- Customer Record ----------

// CustomerRecord is the flat customer object as served by the upstream provider.
type CustomerRecord struct {
	CustomerID     string              `json:"customer_id"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Email          string              `json:"email"`
	Phone          *string             `json:"phone"`
	Address        *string             `json:"address"`
	DateOfBirth    *string             `json:"date_of_birth"`
	AccountBalance decimal.NullDecimal `json:"account_balance"`
	CreatedAt      *string             `json:"created_at"`
}

// timestampLayouts lists the ISO-8601 shapes accepted for created_at, zoned first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	models.DateLayout,
}

// ToModel converts the wire record into the stored representation.
// Balances are rounded to two fractional digits.
func (r CustomerRecord) ToModel() (*models.Customer, error) {
	customer := &models.Customer{
		CustomerID: r.CustomerID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
	}

	if r.AccountBalance.Valid {
		customer.AccountBalance = models.NewMoney(r.AccountBalance.Decimal)
	}

	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, err := models.ParseDate(*r.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("customer %s: date_of_birth: %w", r.CustomerID, err)
		}
		customer.DateOfBirth = &dob
	}

	if r.CreatedAt != nil && *r.CreatedAt != "" {
		createdAt, err := parseTimestamp(*r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("customer %s: created_at: %w", r.CustomerID, err)
		}
		customer.CreatedAt = &createdAt
	}

	return customer, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
