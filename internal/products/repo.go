package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/internal/repo"
	"github.com/mgarza-dev/shopledger/pkg/db"
	"github.com/mgarza-dev/shopledger/pkg/db/models"
	"github.com/mgarza-dev/shopledger/pkg/enums"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

// Repository exposes product persistence operations.
type Repository struct {
	*repo.Base[models.Product]
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase[models.Product](conn)}
}

// WithTx rebinds the repository to the active transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Base.WithTx(tx)}
}

// ListByCategory returns products in the given category ordered by id.
func (r *Repository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	var out []models.Product
	if err := r.DB(ctx).Where("category_id = ?", categoryID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, db.Translate(err, "list products by category")
	}
	return out, nil
}

// ListByStatus returns products with the given lifecycle status.
func (r *Repository) ListByStatus(ctx context.Context, status enums.ProductStatus) ([]models.Product, error) {
	if !status.IsValid() {
		return nil, apperrors.New(apperrors.CodeInvalidEntity, "invalid product status")
	}
	var out []models.Product
	if err := r.DB(ctx).Where("status = ?", status).Order("id ASC").Find(&out).Error; err != nil {
		return nil, db.Translate(err, "list products by status")
	}
	return out, nil
}

// ListInStock returns products currently flagged available.
func (r *Repository) ListInStock(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := r.DB(ctx).Where("in_stock = ?", true).Order("id ASC").Find(&out).Error; err != nil {
		return nil, db.Translate(err, "list in-stock products")
	}
	return out, nil
}
