package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a registered buyer with a running credit balance.
type Customer struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName    string          `gorm:"column:first_name;not null"`
	LastName     string          `gorm:"column:last_name;not null"`
	Email        string          `gorm:"column:email;not null;uniqueIndex:idx_customers_email"`
	DateOfBirth  *time.Time      `gorm:"column:date_of_birth"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	RegisteredAt time.Time       `gorm:"column:registered_at;autoCreateTime"`
	CreditLimit  decimal.Decimal `gorm:"column:credit_limit;type:numeric(12,2);not null"`
}
