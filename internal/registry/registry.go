package registry

import (
	"gorm.io/gorm"

	"github.com/mgarza-dev/shopledger/internal/customers"
	"github.com/mgarza-dev/shopledger/internal/ledger"
	"github.com/mgarza-dev/shopledger/internal/orders"
	"github.com/mgarza-dev/shopledger/internal/products"
	"github.com/mgarza-dev/shopledger/internal/suppliers"
)

// Registry resolves one repository per entity type over a shared GORM
// handle. Construction is lazy and memoized; a unit of work owns its
// registry exclusively, so no locking is needed. A new unit of work
// gets a fresh registry via WithTx rather than reusing a stale binding.
type Registry struct {
	db *gorm.DB

	customers *customers.Repository
	products  *products.Repository
	suppliers *suppliers.Repository
	orders    *orders.Repository
	transfers *ledger.Repository
}

// New builds an empty registry over the shared connection.
func New(conn *gorm.DB) *Registry {
	return &Registry{db: conn}
}

// WithTx returns a fresh registry whose repositories all bind to the
// active transaction.
func (r *Registry) WithTx(tx *gorm.DB) *Registry {
	if tx == nil {
		return r
	}
	return &Registry{db: tx}
}

// Customers resolves the customer repository.
func (r *Registry) Customers() *customers.Repository {
	if r.customers == nil {
		r.customers = customers.NewRepository(r.db)
	}
	return r.customers
}

// Products resolves the product repository.
func (r *Registry) Products() *products.Repository {
	if r.products == nil {
		r.products = products.NewRepository(r.db)
	}
	return r.products
}

// Suppliers resolves the supplier repository.
func (r *Registry) Suppliers() *suppliers.Repository {
	if r.suppliers == nil {
		r.suppliers = suppliers.NewRepository(r.db)
	}
	return r.suppliers
}

// Orders resolves the order repository.
func (r *Registry) Orders() *orders.Repository {
	if r.orders == nil {
		r.orders = orders.NewRepository(r.db)
	}
	return r.orders
}

// Transfers resolves the credit transfer log repository.
func (r *Registry) Transfers() *ledger.Repository {
	if r.transfers == nil {
		r.transfers = ledger.NewRepository(r.db)
	}
	return r.transfers
}
