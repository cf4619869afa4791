package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/internal/customers"
	"github.com/mgarza-dev/shopledger/internal/txn"
	"github.com/mgarza-dev/shopledger/pkg/db/models"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	customersDDL := `
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
	transfers := `
CREATE TABLE IF NOT EXISTS credit_transfers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  from_customer_id INTEGER NOT NULL,
  to_customer_id INTEGER NOT NULL,
  amount NUMERIC NOT NULL,
  transferred_at DATETIME
);`
	require.NoError(t, db.Exec(customersDDL).Error)
	require.NoError(t, db.Exec(transfers).Error)
	return db
}

func newLedgerService(t *testing.T, db *gorm.DB) (*Service, *customers.Repository) {
	t.Helper()

	custs := customers.NewRepository(db)
	service, err := NewService(NewRepository(db), custs, txn.NewRunner(db))
	require.NoError(t, err)
	return service, custs
}

func newCustomer(t *testing.T, custs *customers.Repository, email string, credit int64) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		FirstName:   "Test",
		LastName:    "Holder",
		Email:       email,
		IsActive:    true,
		CreditLimit: decimal.NewFromInt(credit),
	}
	require.NoError(t, custs.Create(context.Background(), customer))
	return customer
}

func creditOf(t *testing.T, custs *customers.Repository, id int64) decimal.Decimal {
	t.Helper()

	customer, err := custs.GetByID(context.Background(), id)
	require.NoError(t, err)
	return customer.CreditLimit
}

func countTransfers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Table("credit_transfers").Count(&n).Error)
	return n
}

func TestServiceTransfer(t *testing.T) {
	db := setupLedgerTestDB(t)
	service, custs := newLedgerService(t, db)

	alice := newCustomer(t, custs, "alice@example.com", 100)
	bob := newCustomer(t, custs, "bob@example.com", 20)

	entry, err := service.Transfer(context.Background(), TransferInput{
		FromCustomerID: alice.ID,
		ToCustomerID:   bob.ID,
		Amount:         decimal.NewFromFloat(30.50),
	})
	require.NoError(t, err)
	require.NotZero(t, entry.ID)
	assert.Equal(t, alice.ID, entry.FromCustomerID)
	assert.Equal(t, bob.ID, entry.ToCustomerID)
	assert.True(t, entry.Amount.Equal(decimal.NewFromFloat(30.50)))

	assert.True(t, creditOf(t, custs, alice.ID).Equal(decimal.NewFromFloat(69.50)))
	assert.True(t, creditOf(t, custs, bob.ID).Equal(decimal.NewFromFloat(50.50)))
	assert.EqualValues(t, 1, countTransfers(t, db))
}

func TestServiceTransferExactBalance(t *testing.T) {
	db := setupLedgerTestDB(t)
	service, custs := newLedgerService(t, db)

	alice := newCustomer(t, custs, "alice@example.com", 40)
	bob := newCustomer(t, custs, "bob@example.com", 0)

	_, err := service.Transfer(context.Background(), TransferInput{
		FromCustomerID: alice.ID,
		ToCustomerID:   bob.ID,
		Amount:         decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	assert.True(t, creditOf(t, custs, alice.ID).Equal(decimal.Zero))
	assert.True(t, creditOf(t, custs, bob.ID).Equal(decimal.NewFromInt(40)))
}

func TestServiceTransferInsufficientFunds(t *testing.T) {
	db := setupLedgerTestDB(t)
	service, custs := newLedgerService(t, db)

	alice := newCustomer(t, custs, "alice@example.com", 10)
	bob := newCustomer(t, custs, "bob@example.com", 5)

	_, err := service.Transfer(context.Background(), TransferInput{
		FromCustomerID: alice.ID,
		ToCustomerID:   bob.ID,
		Amount:         decimal.NewFromInt(11),
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInsufficientFunds))

	// Neither balance moved and no log entry was written.
	assert.True(t, creditOf(t, custs, alice.ID).Equal(decimal.NewFromInt(10)))
	assert.True(t, creditOf(t, custs, bob.ID).Equal(decimal.NewFromInt(5)))
	assert.EqualValues(t, 0, countTransfers(t, db))
}

func TestServiceTransferRejectsSameCustomer(t *testing.T) {
	db := setupLedgerTestDB(t)
	service, custs := newLedgerService(t, db)

	alice := newCustomer(t, custs, "alice@example.com", 100)

	_, err := service.Transfer(context.Background(), TransferInput{
		FromCustomerID: alice.ID,
		ToCustomerID:   alice.ID,
		Amount:         decimal.NewFromInt(5),
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidEntity))
}

func TestServiceTransferRejectsNonPositiveAmount(t *testing.T) {
	db := setupLedgerTestDB(t)
	service, custs := newLedgerService(t, db)

	alice := newCustomer(t, custs, "alice@example.com", 100)
	bob := newCustomer(t, custs, "bob@example.com", 0)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := service.Transfer(context.Background(), TransferInput{
			FromCustomerID: alice.ID,
			ToCustomerID:   bob.ID,
			Amount:         amount,
		})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidEntity))
	}
}

func TestServiceTransferRejectsUnknownCustomer(t *testing.T) {
	db := setupLedgerTestDB(t)
	service, custs := newLedgerService(t, db)

	alice := newCustomer(t, custs, "alice@example.com", 100)

	_, err := service.Transfer(context.Background(), TransferInput{
		FromCustomerID: alice.ID,
		ToCustomerID:   999,
		Amount:         decimal.NewFromInt(5),
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.EqualValues(t, 0, countTransfers(t, db))
}

func TestServiceHistory(t *testing.T) {
	db := setupLedgerTestDB(t)
	service, custs := newLedgerService(t, db)

	alice := newCustomer(t, custs, "alice@example.com", 100)
	bob := newCustomer(t, custs, "bob@example.com", 100)
	carol := newCustomer(t, custs, "carol@example.com", 100)

	sent, err := service.Transfer(context.Background(), TransferInput{
		FromCustomerID: alice.ID,
		ToCustomerID:   bob.ID,
		Amount:         decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	received, err := service.Transfer(context.Background(), TransferInput{
		FromCustomerID: carol.ID,
		ToCustomerID:   alice.ID,
		Amount:         decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	// Unrelated movement stays out of alice's history.
	_, err = service.Transfer(context.Background(), TransferInput{
		FromCustomerID: bob.ID,
		ToCustomerID:   carol.ID,
		Amount:         decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	history, err := service.History(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, sent.ID, history[0].ID)
	assert.Equal(t, received.ID, history[1].ID)
}

func TestServiceHistoryUnknownCustomer(t *testing.T) {
	db := setupLedgerTestDB(t)
	service, _ := newLedgerService(t, db)

	_, err := service.History(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
