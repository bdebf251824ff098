package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for balances.
const MoneyScale = 2

// Money is a nullable amount rendered with exactly two fractional digits.
// @Description Amount as a decimal string with two fractional digits, or null
// swaggertype: string
type Money struct {
	decimal.NullDecimal
}

// NewMoney rounds d to two fractional digits.
func NewMoney(d decimal.Decimal) Money {
	return Money{NullDecimal: decimal.NewNullDecimal(d.Round(MoneyScale))}
}

func (m Money) String() string {
	if !m.Valid {
		return ""
	}
	return m.Decimal.StringFixed(MoneyScale)
}

func (m Money) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.NullDecimal.UnmarshalJSON(data)
}

// Value implements driver.Valuer interface
func (m Money) Value() (driver.Value, error) {
	if !m.Valid {
		return nil, nil
	}
	return m.String(), nil
}

// Scan implements sql.Scanner interface
func (m *Money) Scan(value interface{}) error {
	return m.NullDecimal.Scan(value)
}
