package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/internal/customers"
	"github.com/mgarza-dev/shopledger/internal/products"
	"github.com/mgarza-dev/shopledger/internal/txn"
	"github.com/mgarza-dev/shopledger/pkg/db/models"
	"github.com/mgarza-dev/shopledger/pkg/enums"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
	"github.com/mgarza-dev/shopledger/pkg/logger"
)

// CustomerRecord is one pre-parsed customer row from an external source.
type CustomerRecord struct {
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	Email       string `validate:"required,email"`
	DateOfBirth *time.Time
	IsActive    bool
	CreditLimit decimal.Decimal
}

// ProductRecord is one pre-parsed product row from an external source.
type ProductRecord struct {
	Name        string `validate:"required"`
	Description *string
	Price       decimal.Decimal
	CategoryID  *int64
	InStock     bool
	Status      string `validate:"required"`
}

// RecordFailure identifies one rejected record by its batch position.
type RecordFailure struct {
	Index  int
	Reason string
}

// Result summarizes one import batch.
type Result struct {
	BatchID      uuid.UUID
	SuccessCount int
	Failures     []RecordFailure
}

// Service bulk-inserts validated records. Each batch runs in a single
// transaction with a savepoint per record, so a bad record rolls back
// alone and the rest of the batch still commits.
type Service struct {
	customers *customers.Repository
	products  *products.Repository
	tx        txn.Runner
	validate  *validator.Validate
	logg      *logger.Logger
}

// NewService wires an import service with the required dependencies.
func NewService(custs *customers.Repository, prods *products.Repository, tx txn.Runner, logg *logger.Logger) (*Service, error) {
	if custs == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if prods == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Service{
		customers: custs,
		products:  prods,
		tx:        tx,
		validate:  validator.New(),
		logg:      logg,
	}, nil
}

// ImportCustomers inserts the batch, reporting per-record failures.
func (s *Service) ImportCustomers(ctx context.Context, records []CustomerRecord) (*Result, error) {
	result := &Result{BatchID: uuid.New()}
	if s.logg != nil {
		ctx = s.logg.WithBatchID(ctx, result.BatchID.String())
	}

	err := s.tx.Run(ctx, func(tx *gorm.DB) error {
		custs := s.customers.WithTx(tx)
		for i, record := range records {
			if reason := s.validateCustomer(record); reason != "" {
				result.Failures = append(result.Failures, RecordFailure{Index: i, Reason: reason})
				continue
			}

			sp := savepointName(i)
			tx.SavePoint(sp)
			customer := &models.Customer{
				FirstName:   record.FirstName,
				LastName:    record.LastName,
				Email:       record.Email,
				DateOfBirth: record.DateOfBirth,
				IsActive:    record.IsActive,
				CreditLimit: record.CreditLimit,
			}
			if err := custs.Create(ctx, customer); err != nil {
				tx.RollbackTo(sp)
				result.Failures = append(result.Failures, RecordFailure{Index: i, Reason: failureReason(err)})
				continue
			}
			result.SuccessCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("customer import finished: %d ok, %d failed",
			result.SuccessCount, len(result.Failures)))
	}
	return result, nil
}

// ImportProducts inserts the batch, reporting per-record failures.
func (s *Service) ImportProducts(ctx context.Context, records []ProductRecord) (*Result, error) {
	result := &Result{BatchID: uuid.New()}
	if s.logg != nil {
		ctx = s.logg.WithBatchID(ctx, result.BatchID.String())
	}

	err := s.tx.Run(ctx, func(tx *gorm.DB) error {
		prods := s.products.WithTx(tx)
		for i, record := range records {
			status, reason := s.validateProduct(record)
			if reason != "" {
				result.Failures = append(result.Failures, RecordFailure{Index: i, Reason: reason})
				continue
			}

			sp := savepointName(i)
			tx.SavePoint(sp)
			product := &models.Product{
				Name:        record.Name,
				Description: record.Description,
				Price:       record.Price,
				CategoryID:  record.CategoryID,
				InStock:     record.InStock,
				Status:      status,
			}
			if err := prods.Create(ctx, product); err != nil {
				tx.RollbackTo(sp)
				result.Failures = append(result.Failures, RecordFailure{Index: i, Reason: failureReason(err)})
				continue
			}
			result.SuccessCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("product import finished: %d ok, %d failed",
			result.SuccessCount, len(result.Failures)))
	}
	return result, nil
}

func (s *Service) validateCustomer(record CustomerRecord) string {
	if err := s.validate.Struct(record); err != nil {
		return err.Error()
	}
	if record.CreditLimit.IsNegative() {
		return "credit limit must not be negative"
	}
	return ""
}

func (s *Service) validateProduct(record ProductRecord) (enums.ProductStatus, string) {
	if err := s.validate.Struct(record); err != nil {
		return "", err.Error()
	}
	if record.Price.IsNegative() {
		return "", "price must not be negative"
	}
	status, err := enums.ParseProductStatus(record.Status)
	if err != nil {
		return "", err.Error()
	}
	return status, ""
}

func failureReason(err error) string {
	if typed := apperrors.As(err); typed != nil {
		return typed.Error()
	}
	return err.Error()
}

func savepointName(index int) string {
	return fmt.Sprintf("import_record_%d", index)
}
