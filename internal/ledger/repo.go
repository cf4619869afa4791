package ledger

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/pkg/db"
	"github.com/mgarza-dev/shopledger/pkg/db/models"
)

// Repository manages persistence for the append-only transfer log.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a transfer-log repository bound to the provided DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// WithTx rebinds the repository to the active transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Append records one immutable transfer entry.
func (r *Repository) Append(ctx context.Context, entry *models.CreditTransfer) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return db.Translate(err, "append transfer log entry")
	}
	return nil
}

// ListByCustomer returns every transfer the customer sent or received,
// oldest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]models.CreditTransfer, error) {
	var entries []models.CreditTransfer
	err := r.db.WithContext(ctx).
		Where("from_customer_id = ? OR to_customer_id = ?", customerID, customerID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, db.Translate(err, "list transfer log entries")
	}
	return entries, nil
}
