package txn

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/pkg/db"
	apperrors "github.com/mgarza-dev/shopledger/pkg/errors"
)

// State tracks a manager through its transaction lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateActive     State = "active"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
)

// Manager owns one database transaction. It moves Idle -> Active via
// Begin, then exactly once to Committed or RolledBack. Terminal states
// do not reopen; a new unit of work gets a new Manager.
type Manager struct {
	conn  *gorm.DB
	tx    *gorm.DB
	state State
}

// NewManager builds an idle manager over the shared connection.
func NewManager(conn *gorm.DB) *Manager {
	return &Manager{conn: conn, state: StateIdle}
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// Tx returns the active transaction handle, or nil outside Active.
func (m *Manager) Tx() *gorm.DB {
	if m.state != StateActive {
		return nil
	}
	return m.tx
}

// Begin opens the transaction boundary.
func (m *Manager) Begin(ctx context.Context) error {
	if m.state != StateIdle {
		return apperrors.New(apperrors.CodeInvalidState, "transaction already "+string(m.state))
	}
	tx := m.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return db.Translate(tx.Error, "begin transaction")
	}
	m.tx = tx
	m.state = StateActive
	return nil
}

// Commit durably applies all writes since Begin. A commit the store
// rejects leaves the manager RolledBack.
func (m *Manager) Commit() error {
	if m.state != StateActive {
		return apperrors.New(apperrors.CodeInvalidState, "commit requires an active transaction")
	}
	if err := m.tx.Commit().Error; err != nil {
		m.state = StateRolledBack
		return db.Translate(err, "commit transaction")
	}
	m.state = StateCommitted
	return nil
}

// Rollback discards all writes since Begin.
func (m *Manager) Rollback() error {
	if m.state != StateActive {
		return apperrors.New(apperrors.CodeInvalidState, "rollback requires an active transaction")
	}
	if err := m.tx.Rollback().Error; err != nil {
		m.state = StateRolledBack
		return db.Translate(err, "rollback transaction")
	}
	m.state = StateRolledBack
	return nil
}

// Runner executes a unit-of-work body inside one transaction.
type Runner interface {
	Run(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type runner struct {
	conn *gorm.DB
}

// NewRunner returns a Runner that opens a fresh Manager per call, so no
// two units of work ever share a transaction.
func NewRunner(conn *gorm.DB) Runner {
	return &runner{conn: conn}
}

// Run begins, invokes fn with the transaction handle, and commits when
// fn returns nil. Any error or panic from fn rolls the transaction back
// before propagating; the caller can never leave it dangling Active.
func (r *runner) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m := NewManager(r.conn)
	if err := m.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback()
			panic(p)
		}
	}()

	if err := fn(m.Tx()); err != nil {
		_ = m.Rollback()
		return err
	}

	return m.Commit()
}
