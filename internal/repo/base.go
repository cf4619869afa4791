package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/pkg/db"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

// Base provides generic CRUD primitives over one entity type. Entity
// repositories embed it and add their domain queries. A Base never opens
// or closes connections; it runs against whatever handle it was bound
// to, plain or transactional.
type Base[T any] struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM handle.
func NewBase[T any](conn *gorm.DB) *Base[T] {
	return &Base[T]{db: conn}
}

// WithTx rebinds the repository to the active transaction.
func (b *Base[T]) WithTx(tx *gorm.DB) *Base[T] {
	if tx == nil {
		return b
	}
	return &Base[T]{db: tx}
}

// DB returns the GORM handle bound to the supplied context (if any).
func (b *Base[T]) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Create inserts the entity and backfills its generated identifier.
func (b *Base[T]) Create(ctx context.Context, entity *T) error {
	if entity == nil {
		return apperrors.New(apperrors.CodeInvalidEntity, "entity is required")
	}
	if err := b.DB(ctx).Create(entity).Error; err != nil {
		return db.Translate(err, "insert record")
	}
	return nil
}

// GetByID fetches exactly one row, or a typed not-found error.
func (b *Base[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	var entity T
	if err := b.DB(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, db.Translate(err, "load record")
	}
	return &entity, nil
}

// Update applies a partial column patch to the row with the given id.
func (b *Base[T]) Update(ctx context.Context, id int64, patch map[string]any) error {
	if len(patch) == 0 {
		return apperrors.New(apperrors.CodeInvalidEntity, "empty update patch")
	}

	var entity T
	res := b.DB(ctx).Model(&entity).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return db.Translate(res.Error, "update record")
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "record not found")
	}
	return nil
}

// Delete removes the row with the given id. Rows referenced by dependents
// surface a constraint violation; there is no cascade.
func (b *Base[T]) Delete(ctx context.Context, id int64) error {
	var entity T
	res := b.DB(ctx).Where("id = ?", id).Delete(&entity)
	if res.Error != nil {
		return db.Translate(res.Error, "delete record")
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "record not found")
	}
	return nil
}

// List returns every row ordered by primary key ascending. An empty
// result is a valid, empty slice.
func (b *Base[T]) List(ctx context.Context) ([]T, error) {
	var entities []T
	if err := b.DB(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, db.Translate(err, "list records")
	}
	return entities, nil
}
