package db

import (
	stdErrors "errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

// Translate maps driver and GORM errors into the application taxonomy.
// GORM's TranslateError config normalizes most constraint failures; the
// string checks cover drivers that slip through untranslated.
func Translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if typed := apperrors.As(err); typed != nil {
		return err
	}

	switch {
	case stdErrors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, err, op)
	case stdErrors.Is(err, gorm.ErrDuplicatedKey),
		stdErrors.Is(err, gorm.ErrForeignKeyViolated),
		stdErrors.Is(err, gorm.ErrCheckConstraintViolated),
		isConstraintMessage(err):
		return apperrors.Wrap(apperrors.CodeConstraintViolation, err, op)
	default:
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, err, op)
	}
}

// IsUniqueViolation reports whether the error references a unique
// constraint. When constraintName is provided, the helper looks for the
// constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func isConstraintMessage(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "CHECK constraint failed")
}
