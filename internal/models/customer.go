package models

import (
	"fmt"
	"time"
)

// Customer is the locally stored copy of an upstream customer record.
// The column set mirrors the provider's record shape exactly.
type Customer struct {
	CustomerID     string  `gorm:"type:text;primaryKey" json:"customer_id"`
	FirstName      string  `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string  `gorm:"type:varchar(100);not null" json:"last_name"`
	Email          string  `gorm:"type:varchar(255);not null" json:"email"`
	Phone          *string `gorm:"type:varchar(50)" json:"phone"`
	Address        *string `gorm:"type:text" json:"address"`
	DateOfBirth    *Date   `gorm:"type:date" json:"date_of_birth"`
	AccountBalance Money   `gorm:"type:decimal(15,2)" json:"account_balance"`
	// CreatedAt is the provider's timestamp, never filled in locally.
	CreatedAt *time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// ApplyFrom overwrites every attribute except the identifier with the values from src.
// Nil values in src replace stored values; nothing is merged.
func (c *Customer) ApplyFrom(src *Customer) {
	c.FirstName = src.FirstName
	c.LastName = src.LastName
	c.Email = src.Email
	c.Phone = src.Phone
	c.Address = src.Address
	c.DateOfBirth = src.DateOfBirth
	c.AccountBalance = src.AccountBalance
	c.CreatedAt = src.CreatedAt
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

func (c *Customer) String() string {
	return fmt.Sprintf("Customer[%s: %s <%s>]", c.CustomerID, c.FullName(), c.Email)
}
