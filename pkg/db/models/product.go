package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgarza-dev/shopledger/pkg/enums"
)

// Product represents a catalog listing. Stock is a boolean availability
// flag, not a decrementable count.
type Product struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string              `gorm:"column:name;not null"`
	Description *string             `gorm:"column:description"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	CategoryID  *int64              `gorm:"column:category_id"`
	Category    *Category           `gorm:"foreignKey:CategoryID"`
	InStock     bool                `gorm:"column:in_stock;not null;default:true"`
	Status      enums.ProductStatus `gorm:"column:status;not null;default:active"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}
