package orders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/internal/repo"
	"github.com/mgarza-dev/shopledger/pkg/db"
	"github.com/mgarza-dev/shopledger/pkg/db/models"
	"github.com/mgarza-dev/shopledger/pkg/enums"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

// Repository exposes order and order-item persistence. It never writes
// rows of other entities; multi-entity orchestration lives in Service.
type Repository struct {
	*repo.Base[models.Order]
	items *repo.Base[models.OrderItem]
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{
		Base:  repo.NewBase[models.Order](conn),
		items: repo.NewBase[models.OrderItem](conn),
	}
}

// WithTx rebinds the repository to the active transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{
		Base:  r.Base.WithTx(tx),
		items: r.items.WithTx(tx),
	}
}

// CreateItems inserts the line items of one order.
func (r *Repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.DB(ctx).Create(&items).Error; err != nil {
		return db.Translate(err, "insert order items")
	}
	return nil
}

// ItemsForOrder returns the order's line items ordered by id.
func (r *Repository) ItemsForOrder(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, db.Translate(err, "list order items")
	}
	return items, nil
}

// SetTotal re-derives the order header total after item writes.
func (r *Repository) SetTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	res := r.DB(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("total_amount", total)
	if res.Error != nil {
		return db.Translate(res.Error, "update order total")
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "order not found")
	}
	return nil
}

// ListByCustomer returns the customer's orders ordered by id.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	var out []models.Order
	if err := r.DB(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, db.Translate(err, "list orders by customer")
	}
	return out, nil
}

// ListByStatus returns orders in the given lifecycle state.
func (r *Repository) ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error) {
	if !status.IsValid() {
		return nil, apperrors.New(apperrors.CodeInvalidEntity, "invalid order status")
	}
	var out []models.Order
	if err := r.DB(ctx).Where("status = ?", status).Order("id ASC").Find(&out).Error; err != nil {
		return nil, db.Translate(err, "list orders by status")
	}
	return out, nil
}

// GetWithDetails loads one order with its customer and its items joined
// to their products, as a single view object.
func (r *Repository) GetWithDetails(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := r.DB(ctx).
		Preload("Customer").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.id ASC")
		}).
		Preload("Items.Product").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, db.Translate(err, "load order details")
	}
	return &order, nil
}
