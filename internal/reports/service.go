package reports

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/pkg/db"
)

// Service runs the read-only aggregations. Reports execute outside any
// write transaction at the store's default read isolation; repeated calls
// with no intervening writes return identical ordered results.
type Service struct {
	db      *gorm.DB
	dialect string
}

// NewService builds a report service over the shared connection.
func NewService(conn *gorm.DB) (*Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("database connection required")
	}
	return &Service{db: conn, dialect: conn.Dialector.Name()}, nil
}

// timestampExpr formats a timestamp expression as YYYY-MM-DD HH:MM:SS in
// the active dialect.
func (s *Service) timestampExpr(expr string) string {
	if s.dialect == "sqlite" {
		return fmt.Sprintf("COALESCE(strftime('%%Y-%%m-%%d %%H:%%M:%%S', %s), '')", expr)
	}
	return fmt.Sprintf("COALESCE(to_char(%s, 'YYYY-MM-DD HH24:MI:SS'), '')", expr)
}

// monthExpr truncates a timestamp expression to its calendar month.
func (s *Service) monthExpr(expr string) string {
	if s.dialect == "sqlite" {
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", expr)
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM')", expr)
}

// SalesSummary aggregates customers, orders, and revenue over
// non-cancelled orders.
func (s *Service) SalesSummary(ctx context.Context) (*SalesSummaryRow, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(DISTINCT c.id) AS total_customers,
			COUNT(o.id) AS total_orders,
			COALESCE(SUM(o.total_amount), 0) AS total_revenue,
			COALESCE(AVG(o.total_amount), 0) AS average_order_value,
			%s AS first_ordered_at,
			%s AS last_ordered_at
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id AND o.status != 'cancelled'
	`, s.timestampExpr("MIN(o.ordered_at)"), s.timestampExpr("MAX(o.ordered_at)"))

	var row SalesSummaryRow
	if err := s.db.WithContext(ctx).Raw(query).Scan(&row).Error; err != nil {
		return nil, db.Translate(err, "sales summary report")
	}
	return &row, nil
}

// TopProducts ranks products by total quantity sold, descending, ties
// broken by product id ascending.
func (s *Service) TopProducts(ctx context.Context, limit int) ([]TopProductRow, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.price AS price,
			COALESCE(SUM(oi.quantity), 0) AS quantity_sold,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS revenue,
			COUNT(DISTINCT oi.order_id) AS order_count
		FROM products p
		JOIN order_items oi ON oi.product_id = p.id
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status != 'cancelled'
		GROUP BY p.id, p.name, p.price
		ORDER BY quantity_sold DESC, p.id ASC
		LIMIT ?
	`

	rows := []TopProductRow{}
	if err := s.db.WithContext(ctx).Raw(query, limit).Scan(&rows).Error; err != nil {
		return nil, db.Translate(err, "top products report")
	}
	return rows, nil
}

// CustomerOrderSummary reports per-customer order count, spend, and last
// order date, mirroring the persisted customer_order_summary view.
func (s *Service) CustomerOrderSummary(ctx context.Context) ([]CustomerOrderSummaryRow, error) {
	query := fmt.Sprintf(`
		SELECT
			c.id AS customer_id,
			c.first_name AS first_name,
			c.last_name AS last_name,
			c.email AS email,
			COUNT(o.id) AS order_count,
			COALESCE(SUM(o.total_amount), 0) AS total_spent,
			%s AS last_ordered_at
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id AND o.status != 'cancelled'
		GROUP BY c.id, c.first_name, c.last_name, c.email
		ORDER BY total_spent DESC, c.id ASC
	`, s.timestampExpr("MAX(o.ordered_at)"))

	rows := []CustomerOrderSummaryRow{}
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, db.Translate(err, "customer order summary report")
	}
	return rows, nil
}

// Inventory reports each product's stock flag and total quantity sold
// across non-cancelled orders.
func (s *Service) Inventory(ctx context.Context) ([]InventoryRow, error) {
	query := `
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.price AS price,
			p.in_stock AS in_stock,
			COALESCE(c.name, '') AS category_name,
			COALESCE(SUM(s.quantity), 0) AS total_sold,
			COUNT(DISTINCT s.order_id) AS times_ordered
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN (
			SELECT oi.product_id, oi.quantity, oi.order_id
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.status != 'cancelled'
		) s ON s.product_id = p.id
		GROUP BY p.id, p.name, p.price, p.in_stock, c.name
		ORDER BY p.name ASC, p.id ASC
	`

	rows := []InventoryRow{}
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, db.Translate(err, "inventory report")
	}
	return rows, nil
}

// MonthlySales groups non-cancelled orders by the calendar month they
// were placed in, oldest month first.
func (s *Service) MonthlySales(ctx context.Context) ([]MonthlySalesRow, error) {
	month := s.monthExpr("o.ordered_at")
	query := fmt.Sprintf(`
		SELECT
			%s AS month,
			COUNT(o.id) AS total_orders,
			COUNT(DISTINCT o.customer_id) AS unique_customers,
			COALESCE(SUM(o.total_amount), 0) AS revenue,
			COALESCE(AVG(o.total_amount), 0) AS average_order_value
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.status != 'cancelled'
		GROUP BY %s
		ORDER BY month ASC
	`, month, month)

	rows := []MonthlySalesRow{}
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, db.Translate(err, "monthly sales report")
	}
	return rows, nil
}

// CategoryPerformance reports revenue and unit counts per category over
// non-cancelled orders.
func (s *Service) CategoryPerformance(ctx context.Context) ([]CategoryPerformanceRow, error) {
	query := `
		SELECT
			c.id AS category_id,
			c.name AS category_name,
			COUNT(DISTINCT p.id) AS product_count,
			COALESCE(SUM(s.quantity), 0) AS units_sold,
			COALESCE(SUM(s.quantity * s.unit_price), 0) AS revenue
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		LEFT JOIN (
			SELECT oi.product_id, oi.quantity, oi.unit_price
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.status != 'cancelled'
		) s ON s.product_id = p.id
		GROUP BY c.id, c.name
		ORDER BY revenue DESC, c.id ASC
	`

	rows := []CategoryPerformanceRow{}
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, db.Translate(err, "category performance report")
	}
	return rows, nil
}
