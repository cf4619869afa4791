package models

// Supplier represents a wholesale partner linked to products through the
// product_suppliers junction table.
type Supplier struct {
	ID           int64   `gorm:"column:id;primaryKey;autoIncrement"`
	CompanyName  string  `gorm:"column:company_name;not null"`
	ContactName  *string `gorm:"column:contact_name"`
	ContactEmail *string `gorm:"column:contact_email"`
	Phone        *string `gorm:"column:phone"`
	Address      *string `gorm:"column:address"`
	IsActive     bool    `gorm:"column:is_active;not null;default:true"`
}
