package models

// Category groups products in the catalog.
type Category struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string  `gorm:"column:name;not null"`
	Description *string `gorm:"column:description"`
}
