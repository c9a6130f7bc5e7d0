package backend

import (
	"context"
	"encoding/json"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
)

// Table names shared by every backend, the journal, and the change feed.
const (
	TableTransactions = "transactions"
	TableOrders       = "service_orders"
	TableQuotes       = "quotes"
	TableCatalog      = "catalog_items"
	TableCustomers    = "customers"
	TablePartners     = "partners"
)

// Tables lists the record-store tables in load order. Partners are not
// listed: the roster is static and read only by auth.
var Tables = []string{TableTransactions, TableOrders, TableQuotes, TableCatalog, TableCustomers}

func KnownTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}

// Backend is the persistence contract: per-table select-all, upsert and
// delete. Upsert takes the serialized record so the journal can replay ops
// without knowing entity shapes; each backend decodes for itself.
type Backend interface {
	LoadTransactions(ctx context.Context) ([]*model.Transaction, error)
	LoadOrders(ctx context.Context) ([]*model.ServiceOrder, error)
	LoadQuotes(ctx context.Context) ([]*model.Quote, error)
	LoadCatalog(ctx context.Context) ([]*model.CatalogItem, error)
	LoadCustomers(ctx context.Context) ([]*model.Customer, error)
	LoadPartners(ctx context.Context) ([]*model.Partner, error)

	Upsert(ctx context.Context, table string, payload json.RawMessage) error
	Delete(ctx context.Context, table string, id string) error
}
