package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/repository"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/pg"
)

// PG persists records straight into Postgres through the gorm repositories.
type PG struct {
	transactions *repository.TransactionRepository
	orders       *repository.OrderRepository
	quotes       *repository.QuoteRepository
	catalog      *repository.CatalogRepository
	customers    *repository.CustomerRepository
	partners     *repository.PartnerRepository
}

func NewPG(db *pg.DB) *PG {
	return &PG{
		transactions: repository.NewTransactionRepository(db),
		orders:       repository.NewOrderRepository(db),
		quotes:       repository.NewQuoteRepository(db),
		catalog:      repository.NewCatalogRepository(db),
		customers:    repository.NewCustomerRepository(db),
		partners:     repository.NewPartnerRepository(db),
	}
}

func (b *PG) LoadTransactions(ctx context.Context) ([]*model.Transaction, error) {
	return b.transactions.ListAll(ctx)
}

func (b *PG) LoadOrders(ctx context.Context) ([]*model.ServiceOrder, error) {
	return b.orders.ListAll(ctx)
}

func (b *PG) LoadQuotes(ctx context.Context) ([]*model.Quote, error) {
	return b.quotes.ListAll(ctx)
}

func (b *PG) LoadCatalog(ctx context.Context) ([]*model.CatalogItem, error) {
	return b.catalog.ListAll(ctx)
}

func (b *PG) LoadCustomers(ctx context.Context) ([]*model.Customer, error) {
	return b.customers.ListAll(ctx)
}

func (b *PG) LoadPartners(ctx context.Context) ([]*model.Partner, error) {
	return b.partners.ListAll(ctx)
}

func (b *PG) Upsert(ctx context.Context, table string, payload json.RawMessage) error {
	switch table {
	case TableTransactions:
		var m model.Transaction
		if err := json.Unmarshal(payload, &m); err != nil {
			return fmt.Errorf("decode %s record: %w", table, err)
		}
		return b.transactions.Upsert(ctx, &m)
	case TableOrders:
		var m model.ServiceOrder
		if err := json.Unmarshal(payload, &m); err != nil {
			return fmt.Errorf("decode %s record: %w", table, err)
		}
		return b.orders.Upsert(ctx, &m)
	case TableQuotes:
		var m model.Quote
		if err := json.Unmarshal(payload, &m); err != nil {
			return fmt.Errorf("decode %s record: %w", table, err)
		}
		return b.quotes.Upsert(ctx, &m)
	case TableCatalog:
		var m model.CatalogItem
		if err := json.Unmarshal(payload, &m); err != nil {
			return fmt.Errorf("decode %s record: %w", table, err)
		}
		return b.catalog.Upsert(ctx, &m)
	case TableCustomers:
		var m model.Customer
		if err := json.Unmarshal(payload, &m); err != nil {
			return fmt.Errorf("decode %s record: %w", table, err)
		}
		return b.customers.Upsert(ctx, &m)
	}
	return fmt.Errorf("unknown table %q", table)
}

func (b *PG) Delete(ctx context.Context, table string, id string) error {
	switch table {
	case TableTransactions:
		return b.transactions.Delete(ctx, id)
	case TableOrders:
		return b.orders.Delete(ctx, id)
	case TableQuotes:
		return b.quotes.Delete(ctx, id)
	case TableCatalog:
		return b.catalog.Delete(ctx, id)
	case TableCustomers:
		return b.customers.Delete(ctx, id)
	}
	return fmt.Errorf("unknown table %q", table)
}
