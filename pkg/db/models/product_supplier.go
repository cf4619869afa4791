package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSupplier links a product to one of its suppliers.
type ProductSupplier struct {
	ProductID   int64           `gorm:"column:product_id;primaryKey"`
	SupplierID  int64           `gorm:"column:supplier_id;primaryKey"`
	SupplyPrice decimal.Decimal `gorm:"column:supply_price;type:numeric(12,2);not null"`
	SupplyDate  time.Time       `gorm:"column:supply_date;autoCreateTime"`
}
