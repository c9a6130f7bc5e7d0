package store

import (
	"github.com/juninhokosta/jp-forro-2-sub000/internal/backend"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/pkg/errors"
)

var ErrBackendUnavailable = errors.New("backend unavailable for every table")

const (
	opUpsert = "upsert"
	opDelete = "delete"
)

type op struct {
	kind  string
	table string
	id    string
	rec   any
}

// effects accumulates the side effects of a mutation while the store lock
// is held. They run after the lock is released, once the mutation is known
// to commit.
type effects struct {
	tables []string
	ops    []op
}

func newEffects() *effects {
	return &effects{}
}

func (e *effects) upsert(table, id string, rec any) {
	e.touch(table)
	e.ops = append(e.ops, op{kind: opUpsert, table: table, id: id, rec: rec})
}

func (e *effects) remove(table, id string) {
	e.touch(table)
	e.ops = append(e.ops, op{kind: opDelete, table: table, id: id})
}

func (e *effects) touch(table string) {
	for _, t := range e.tables {
		if t == table {
			return
		}
	}
	e.tables = append(e.tables, table)
}

// Txn is the view handed to a Batch callback. It reuses the store's locked
// internals; every mutation it stages commits or rolls back together.
type Txn struct {
	s   *Store
	eff *effects
}

func (tx *Txn) Transactions() []*model.Transaction {
	return tx.s.transactions
}

func (tx *Txn) Orders() []*model.ServiceOrder {
	return tx.s.orders
}

func (tx *Txn) FindOrder(id string) (*model.ServiceOrder, bool) {
	return findOrder(tx.s.orders, id)
}

func (tx *Txn) FindQuote(id string) (*model.Quote, bool) {
	return findQuote(tx.s.quotes, id)
}

func (tx *Txn) FindCustomer(id string) (*model.Customer, bool) {
	for _, c := range tx.s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

func (tx *Txn) FindCustomerByName(name string) (*model.Customer, bool) {
	for _, c := range tx.s.customers {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (tx *Txn) CreateTransaction(t *model.Transaction) *model.Transaction {
	return tx.s.createTransaction(tx.eff, t)
}

func (tx *Txn) UpdateTransaction(id string, p model.TransactionPatch) (*model.Transaction, bool) {
	return tx.s.updateTransaction(tx.eff, id, p)
}

func (tx *Txn) RemoveTransaction(id string) {
	tx.s.transactions = removeByID(tx.s.transactions, id,
		func(t *model.Transaction) string { return t.ID }, tx.eff, backend.TableTransactions)
}

func (tx *Txn) CreateOrder(o *model.ServiceOrder) *model.ServiceOrder {
	return tx.s.createOrder(tx.eff, o)
}

func (tx *Txn) UpdateOrder(id string, p model.OrderPatch) (*model.ServiceOrder, bool) {
	return tx.s.updateOrder(tx.eff, id, p)
}

func (tx *Txn) CreateQuote(q *model.Quote) *model.Quote {
	return tx.s.createQuote(tx.eff, q)
}

func (tx *Txn) SetQuoteStatus(id string, status model.QuoteStatus) (*model.Quote, bool) {
	return tx.s.setQuoteStatus(tx.eff, id, status)
}

func (tx *Txn) EnsureCustomer(name, contact, address string) *model.Customer {
	return tx.s.ensureCustomer(tx.eff, name, contact, address)
}
