package customers

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/internal/repo"
	"github.com/mgarza-dev/shopledger/pkg/db"
	"github.com/mgarza-dev/shopledger/pkg/db/models"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

// Repository exposes customer persistence operations.
type Repository struct {
	*repo.Base[models.Customer]
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase[models.Customer](conn)}
}

// WithTx rebinds the repository to the active transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Base.WithTx(tx)}
}

// FindByEmail retrieves the customer matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, db.Translate(err, "load customer by email")
	}
	return &customer, nil
}

// ListActive returns active customers ordered by id.
func (r *Repository) ListActive(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	if err := r.DB(ctx).Where("is_active = ?", true).Order("id ASC").Find(&out).Error; err != nil {
		return nil, db.Translate(err, "list active customers")
	}
	return out, nil
}

// ListWithOrders returns customers that have placed at least one order.
func (r *Repository) ListWithOrders(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	err := r.DB(ctx).
		Distinct("customers.*").
		Joins("INNER JOIN orders ON orders.customer_id = customers.id").
		Order("customers.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, db.Translate(err, "list customers with orders")
	}
	return out, nil
}

// AddCredit increases the customer's running credit balance.
func (r *Repository) AddCredit(ctx context.Context, id int64, amount decimal.Decimal) error {
	res := r.DB(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumn("credit_limit", gorm.Expr("credit_limit + ?", amount))
	if res.Error != nil {
		return db.Translate(res.Error, "credit customer")
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "customer not found")
	}
	return nil
}

// DebitCredit decreases the balance, rejecting any debit that would take
// it negative. Callers must have already checked the customer exists.
func (r *Repository) DebitCredit(ctx context.Context, id int64, amount decimal.Decimal) error {
	res := r.DB(ctx).Model(&models.Customer{}).
		Where("id = ? AND credit_limit >= ?", id, amount).
		UpdateColumn("credit_limit", gorm.Expr("credit_limit - ?", amount))
	if res.Error != nil {
		return db.Translate(res.Error, "debit customer")
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeInsufficientFunds, "debit would take balance negative")
	}
	return nil
}
