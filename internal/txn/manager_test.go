package txn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

func setupTxnTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS notes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  body TEXT NOT NULL
);`).Error)
	return db
}

func countNotes(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Table("notes").Count(&n).Error)
	return n
}

func TestManagerLifecycle(t *testing.T) {
	db := setupTxnTestDB(t)
	m := NewManager(db)

	assert.Equal(t, StateIdle, m.State())
	assert.Nil(t, m.Tx())

	require.NoError(t, m.Begin(context.Background()))
	assert.Equal(t, StateActive, m.State())
	require.NotNil(t, m.Tx())

	require.NoError(t, m.Tx().Exec(`INSERT INTO notes (body) VALUES ('kept')`).Error)
	require.NoError(t, m.Commit())
	assert.Equal(t, StateCommitted, m.State())
	assert.Nil(t, m.Tx())

	assert.EqualValues(t, 1, countNotes(t, db))
}

func TestManagerRollbackDiscardsWrites(t *testing.T) {
	db := setupTxnTestDB(t)
	m := NewManager(db)

	require.NoError(t, m.Begin(context.Background()))
	require.NoError(t, m.Tx().Exec(`INSERT INTO notes (body) VALUES ('discarded')`).Error)
	require.NoError(t, m.Rollback())

	assert.Equal(t, StateRolledBack, m.State())
	assert.EqualValues(t, 0, countNotes(t, db))
}

func TestManagerCommitWithoutBegin(t *testing.T) {
	db := setupTxnTestDB(t)
	m := NewManager(db)

	err := m.Commit()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
}

func TestManagerRollbackWithoutBegin(t *testing.T) {
	db := setupTxnTestDB(t)
	m := NewManager(db)

	err := m.Rollback()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
}

func TestManagerDoubleBegin(t *testing.T) {
	db := setupTxnTestDB(t)
	m := NewManager(db)

	require.NoError(t, m.Begin(context.Background()))
	err := m.Begin(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
	require.NoError(t, m.Rollback())
}

func TestManagerTerminalStatesDoNotReopen(t *testing.T) {
	db := setupTxnTestDB(t)
	m := NewManager(db)

	require.NoError(t, m.Begin(context.Background()))
	require.NoError(t, m.Commit())

	assert.True(t, apperrors.HasCode(m.Begin(context.Background()), apperrors.CodeInvalidState))
	assert.True(t, apperrors.HasCode(m.Commit(), apperrors.CodeInvalidState))
	assert.True(t, apperrors.HasCode(m.Rollback(), apperrors.CodeInvalidState))
}

func TestRunnerCommitsOnSuccess(t *testing.T) {
	db := setupTxnTestDB(t)
	runner := NewRunner(db)

	err := runner.Run(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO notes (body) VALUES ('committed')`).Error
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, countNotes(t, db))
}

func TestRunnerRollsBackOnError(t *testing.T) {
	db := setupTxnTestDB(t)
	runner := NewRunner(db)

	boom := errors.New("boom")
	err := runner.Run(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO notes (body) VALUES ('lost')`).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 0, countNotes(t, db))
}

func TestRunnerRollsBackOnPanic(t *testing.T) {
	db := setupTxnTestDB(t)
	runner := NewRunner(db)

	assert.Panics(t, func() {
		_ = runner.Run(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Exec(`INSERT INTO notes (body) VALUES ('lost')`).Error; err != nil {
				return err
			}
			panic("mid-transaction panic")
		})
	})
	assert.EqualValues(t, 0, countNotes(t, db))
}

func TestRunnerUnitsOfWorkAreIndependent(t *testing.T) {
	db := setupTxnTestDB(t)
	runner := NewRunner(db)

	err := runner.Run(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO notes (body) VALUES ('first')`).Error
	})
	require.NoError(t, err)

	err = runner.Run(context.Background(), func(tx *gorm.DB) error {
		return errors.New("second unit fails")
	})
	require.Error(t, err)

	assert.EqualValues(t, 1, countNotes(t, db))
}
