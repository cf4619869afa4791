package suppliers

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/internal/repo"
	"github.com/mgarza-dev/shopledger/pkg/db"
	"github.com/mgarza-dev/shopledger/pkg/db/models"
)

// Repository exposes supplier persistence plus the product_suppliers
// junction operations.
type Repository struct {
	*repo.Base[models.Supplier]
}

// NewRepository constructs a suppliers repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase[models.Supplier](conn)}
}

// WithTx rebinds the repository to the active transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Base.WithTx(tx)}
}

// ListActive returns active suppliers ordered by id.
func (r *Repository) ListActive(ctx context.Context) ([]models.Supplier, error) {
	var out []models.Supplier
	if err := r.DB(ctx).Where("is_active = ?", true).Order("id ASC").Find(&out).Error; err != nil {
		return nil, db.Translate(err, "list active suppliers")
	}
	return out, nil
}

// AttachProduct records that the supplier supplies the given product.
// Both foreign keys must reference existing rows.
func (r *Repository) AttachProduct(ctx context.Context, link *models.ProductSupplier) error {
	if err := r.DB(ctx).Create(link).Error; err != nil {
		return db.Translate(err, "attach product to supplier")
	}
	return nil
}

// ListForProduct returns the suppliers linked to a product, ordered by
// supplier id.
func (r *Repository) ListForProduct(ctx context.Context, productID int64) ([]models.Supplier, error) {
	var out []models.Supplier
	err := r.DB(ctx).
		Joins("INNER JOIN product_suppliers ON product_suppliers.supplier_id = suppliers.id").
		Where("product_suppliers.product_id = ?", productID).
		Order("suppliers.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, db.Translate(err, "list suppliers for product")
	}
	return out, nil
}
