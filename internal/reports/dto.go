package reports

import "github.com/shopspring/decimal"

// Report rows are flat aggregates suitable for tabular rendering; dates
// are pre-formatted strings so the UI layer never re-parses them.

type SalesSummaryRow struct {
	TotalCustomers    int64           `gorm:"column:total_customers"`
	TotalOrders       int64           `gorm:"column:total_orders"`
	TotalRevenue      decimal.Decimal `gorm:"column:total_revenue"`
	AverageOrderValue decimal.Decimal `gorm:"column:average_order_value"`
	FirstOrderedAt    string          `gorm:"column:first_ordered_at"`
	LastOrderedAt     string          `gorm:"column:last_ordered_at"`
}

type TopProductRow struct {
	ProductID    int64           `gorm:"column:product_id"`
	ProductName  string          `gorm:"column:product_name"`
	Price        decimal.Decimal `gorm:"column:price"`
	QuantitySold int64           `gorm:"column:quantity_sold"`
	Revenue      decimal.Decimal `gorm:"column:revenue"`
	OrderCount   int64           `gorm:"column:order_count"`
}

type CustomerOrderSummaryRow struct {
	CustomerID    int64           `gorm:"column:customer_id"`
	FirstName     string          `gorm:"column:first_name"`
	LastName      string          `gorm:"column:last_name"`
	Email         string          `gorm:"column:email"`
	OrderCount    int64           `gorm:"column:order_count"`
	TotalSpent    decimal.Decimal `gorm:"column:total_spent"`
	LastOrderedAt string          `gorm:"column:last_ordered_at"`
}

type InventoryRow struct {
	ProductID    int64           `gorm:"column:product_id"`
	ProductName  string          `gorm:"column:product_name"`
	Price        decimal.Decimal `gorm:"column:price"`
	InStock      bool            `gorm:"column:in_stock"`
	CategoryName string          `gorm:"column:category_name"`
	TotalSold    int64           `gorm:"column:total_sold"`
	TimesOrdered int64           `gorm:"column:times_ordered"`
}

type MonthlySalesRow struct {
	Month             string          `gorm:"column:month"`
	TotalOrders       int64           `gorm:"column:total_orders"`
	UniqueCustomers   int64           `gorm:"column:unique_customers"`
	Revenue           decimal.Decimal `gorm:"column:revenue"`
	AverageOrderValue decimal.Decimal `gorm:"column:average_order_value"`
}

type CategoryPerformanceRow struct {
	CategoryID   int64           `gorm:"column:category_id"`
	CategoryName string          `gorm:"column:category_name"`
	ProductCount int64           `gorm:"column:product_count"`
	UnitsSold    int64           `gorm:"column:units_sold"`
	Revenue      decimal.Decimal `gorm:"column:revenue"`
}
