package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgarza-dev/shopledger/pkg/enums"
)

// Order is the header row of a purchase. TotalAmount is derived from the
// order's items and is never edited independently.
type Order struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID  int64             `gorm:"column:customer_id;not null"`
	Customer    *Customer         `gorm:"foreignKey:CustomerID"`
	OrderedAt   time.Time         `gorm:"column:ordered_at;autoCreateTime"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:pending"`
	IsPriority  bool              `gorm:"column:is_priority;not null;default:false"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID"`
}
