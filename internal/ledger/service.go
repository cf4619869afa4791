package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/internal/customers"
	"github.com/mgarza-dev/shopledger/internal/txn"
	"github.com/mgarza-dev/shopledger/pkg/db/models"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

// Service moves credit between customers, logging every transfer in the
// same transaction as the balance updates.
type Service struct {
	repo      *Repository
	customers *customers.Repository
	tx        txn.Runner
}

// TransferInput carries one requested credit movement.
type TransferInput struct {
	FromCustomerID int64
	ToCustomerID   int64
	Amount         decimal.Decimal
}

// NewService wires a transfer service with the required dependencies.
func NewService(repo *Repository, custs *customers.Repository, tx txn.Runner) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if custs == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Service{repo: repo, customers: custs, tx: tx}, nil
}

// Transfer debits the source, credits the target, and appends the log
// entry atomically. A debit that would go negative fails the whole unit
// with no balance or log change.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (*models.CreditTransfer, error) {
	if input.FromCustomerID == input.ToCustomerID {
		return nil, apperrors.New(apperrors.CodeInvalidEntity, "source and target customers must differ")
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.New(apperrors.CodeInvalidEntity, "transfer amount must be positive")
	}

	// Existence checks happen before the transaction opens.
	if _, err := s.customers.GetByID(ctx, input.FromCustomerID); err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByID(ctx, input.ToCustomerID); err != nil {
		return nil, err
	}

	var entry *models.CreditTransfer
	err := s.tx.Run(ctx, func(tx *gorm.DB) error {
		custs := s.customers.WithTx(tx)

		if err := custs.DebitCredit(ctx, input.FromCustomerID, input.Amount); err != nil {
			return err
		}
		if err := custs.AddCredit(ctx, input.ToCustomerID, input.Amount); err != nil {
			return err
		}

		entry = &models.CreditTransfer{
			FromCustomerID: input.FromCustomerID,
			ToCustomerID:   input.ToCustomerID,
			Amount:         input.Amount,
		}
		return s.repo.WithTx(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// History returns the customer's transfer log, oldest first.
func (s *Service) History(ctx context.Context, customerID int64) ([]models.CreditTransfer, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, customerID)
}
