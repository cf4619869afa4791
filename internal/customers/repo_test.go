package customers

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/pkg/db/models"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=1"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  date_of_birth DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  registered_at DATETIME,
  credit_limit NUMERIC NOT NULL DEFAULT 0
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id INTEGER NOT NULL REFERENCES customers (id),
  ordered_at DATETIME,
  total_amount NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  is_priority INTEGER NOT NULL DEFAULT 0
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func newCustomer(t *testing.T, repo *Repository, email string, active bool, credit int64) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		FirstName:   "Test",
		LastName:    "Customer",
		Email:       email,
		IsActive:    active,
		CreditLimit: decimal.NewFromInt(credit),
	}
	require.NoError(t, repo.Create(context.Background(), customer))
	return customer
}

func creditOf(t *testing.T, repo *Repository, id int64) decimal.Decimal {
	t.Helper()

	customer, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return customer.CreditLimit
}

func TestRepositoryFindByEmail(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	created := newCustomer(t, repo, "find@example.com", true, 50)

	found, err := repo.FindByEmail(context.Background(), "find@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByEmail(context.Background(), "missing@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestRepositoryListActive(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	active := newCustomer(t, repo, "active@example.com", true, 0)
	newCustomer(t, repo, "inactive@example.com", false, 0)

	listed, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)
}

func TestRepositoryListWithOrders(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	buyer := newCustomer(t, repo, "buyer@example.com", true, 0)
	newCustomer(t, repo, "browser@example.com", true, 0)

	// Two orders for the same buyer must not duplicate the row.
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Exec(
			`INSERT INTO orders (customer_id, total_amount, status) VALUES (?, 10, 'pending')`,
			buyer.ID,
		).Error)
	}

	listed, err := repo.ListWithOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, buyer.ID, listed[0].ID)
}

func TestRepositoryAddCredit(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	customer := newCustomer(t, repo, "credit@example.com", true, 100)

	require.NoError(t, repo.AddCredit(context.Background(), customer.ID, decimal.NewFromFloat(25.50)))
	assert.True(t, creditOf(t, repo, customer.ID).Equal(decimal.NewFromFloat(125.50)))

	err := repo.AddCredit(context.Background(), 999, decimal.NewFromInt(5))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestRepositoryDebitCredit(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	customer := newCustomer(t, repo, "debit@example.com", true, 100)

	require.NoError(t, repo.DebitCredit(context.Background(), customer.ID, decimal.NewFromInt(40)))
	assert.True(t, creditOf(t, repo, customer.ID).Equal(decimal.NewFromInt(60)))

	// Draining to exactly zero is allowed.
	require.NoError(t, repo.DebitCredit(context.Background(), customer.ID, decimal.NewFromInt(60)))
	assert.True(t, creditOf(t, repo, customer.ID).Equal(decimal.Zero))
}

func TestRepositoryDebitCreditInsufficientFunds(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	customer := newCustomer(t, repo, "poor@example.com", true, 10)

	err := repo.DebitCredit(context.Background(), customer.ID, decimal.NewFromInt(11))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInsufficientFunds))

	// Balance unchanged after the rejected debit.
	assert.True(t, creditOf(t, repo, customer.ID).Equal(decimal.NewFromInt(10)))
}

func TestRepositoryDeleteReferencedByOrder(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	buyer := newCustomer(t, repo, "referenced@example.com", true, 0)
	require.NoError(t, db.Exec(
		`INSERT INTO orders (customer_id, total_amount, status) VALUES (?, 10, 'pending')`,
		buyer.ID,
	).Error)

	err := repo.Delete(context.Background(), buyer.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConstraintViolation))

	// The customer row survives the rejected delete.
	_, err = repo.GetByID(context.Background(), buyer.ID)
	require.NoError(t, err)
}

func TestRepositoryDuplicateEmailRejected(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	newCustomer(t, repo, "unique@example.com", true, 0)

	err := repo.Create(context.Background(), &models.Customer{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "unique@example.com",
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConstraintViolation))
}
