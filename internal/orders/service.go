package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/internal/customers"
	"github.com/mgarza-dev/shopledger/internal/products"
	"github.com/mgarza-dev/shopledger/internal/txn"
	"github.com/mgarza-dev/shopledger/pkg/db/models"
	"github.com/mgarza-dev/shopledger/pkg/enums"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

// Service orchestrates the multi-table order workflows. Stock is checked
// as a boolean flag only, so two orders racing past the check can both
// commit; the schema cannot express a count-based reservation.
type Service struct {
	repo      *Repository
	customers *customers.Repository
	products  *products.Repository
	tx        txn.Runner
}

// NewService builds an order service with the required dependencies.
func NewService(repo *Repository, custs *customers.Repository, prods *products.Repository, tx txn.Runner) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if custs == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if prods == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Service{repo: repo, customers: custs, products: prods, tx: tx}, nil
}

// Place validates the request, then writes the order header, one item
// per line with the product price snapshotted, and the re-derived total,
// all inside a single transaction. No order row survives without its
// items and no item without its order.
func (s *Service) Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if input.CustomerID <= 0 {
		return nil, apperrors.New(apperrors.CodeInvalidEntity, "customer id required")
	}
	if len(input.Lines) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidEntity, "order requires at least one line")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, apperrors.New(apperrors.CodeInvalidQuantity,
				fmt.Sprintf("quantity for product %d must be positive", line.ProductID))
		}
	}

	// Validation happens before the transaction opens so rejected
	// requests never cost a rollback.
	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, apperrors.New(apperrors.CodeInvalidEntity, "customer is inactive")
	}
	for _, line := range input.Lines {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.InStock {
			return nil, apperrors.New(apperrors.CodeInvalidQuantity,
				fmt.Sprintf("product %d is out of stock", line.ProductID))
		}
	}

	var placed *models.Order
	err = s.tx.Run(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		prods := s.products.WithTx(tx)

		order := &models.Order{
			CustomerID:  input.CustomerID,
			TotalAmount: decimal.Zero,
			Status:      enums.OrderStatusPending,
			IsPriority:  input.IsPriority,
		}
		if err := repo.Create(ctx, order); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(input.Lines))
		total := decimal.Zero
		for _, line := range input.Lines {
			// The price is re-read inside the transaction so the
			// snapshot reflects order time, not validation time.
			product, err := prods.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return err
		}
		if err := repo.SetTotal(ctx, order.ID, total); err != nil {
			return err
		}

		order.TotalAmount = total
		order.Items = items
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// UpdateStatus moves the order to a new lifecycle state. Terminal states
// do not reopen.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error {
	if !status.IsValid() {
		return apperrors.New(apperrors.CodeInvalidEntity, "invalid order status")
	}

	return s.tx.Run(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == status {
			return nil
		}
		if order.Status.IsTerminal() {
			return apperrors.New(apperrors.CodeInvalidState,
				fmt.Sprintf("order is %s and cannot change state", order.Status))
		}
		return repo.Update(ctx, orderID, map[string]any{"status": status})
	})
}

// Cancel sets the order cancelled and credits its total back to the
// owning customer, atomically. Cancelled and delivered orders reject
// the call.
func (s *Service) Cancel(ctx context.Context, orderID int64) error {
	return s.tx.Run(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		custs := s.customers.WithTx(tx)

		order, err := repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return apperrors.New(apperrors.CodeInvalidState,
				fmt.Sprintf("order is %s and cannot be cancelled", order.Status))
		}

		if err := repo.Update(ctx, orderID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			return err
		}
		return custs.AddCredit(ctx, order.CustomerID, order.TotalAmount)
	})
}
