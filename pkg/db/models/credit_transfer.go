package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditTransfer records one immutable credit movement between customers.
// Rows are append-only; there is no update or delete path.
type CreditTransfer struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement"`
	FromCustomerID int64           `gorm:"column:from_customer_id;not null"`
	ToCustomerID   int64           `gorm:"column:to_customer_id;not null"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	TransferredAt  time.Time       `gorm:"column:transferred_at;autoCreateTime"`
}
