package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	partners []*model.Partner
}

func (b *stubBackend) LoadTransactions(ctx context.Context) ([]*model.Transaction, error) {
	return nil, nil
}
func (b *stubBackend) LoadOrders(ctx context.Context) ([]*model.ServiceOrder, error) {
	return nil, nil
}
func (b *stubBackend) LoadQuotes(ctx context.Context) ([]*model.Quote, error) {
	return nil, nil
}
func (b *stubBackend) LoadCatalog(ctx context.Context) ([]*model.CatalogItem, error) {
	return nil, nil
}
func (b *stubBackend) LoadCustomers(ctx context.Context) ([]*model.Customer, error) {
	return nil, nil
}
func (b *stubBackend) LoadPartners(ctx context.Context) ([]*model.Partner, error) {
	return b.partners, nil
}
func (b *stubBackend) Upsert(ctx context.Context, table string, payload json.RawMessage) error {
	return nil
}
func (b *stubBackend) Delete(ctx context.Context, table string, id string) error {
	return nil
}

type nopJournal struct{}

func (nopJournal) EnqueueUpsert(ctx context.Context, table string, record any) error { return nil }
func (nopJournal) EnqueueDelete(ctx context.Context, table string, id string) error  { return nil }

func setupTestAdapter(t *testing.T) redis.RedisAdapter {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return adapter
}

func newTestStore(t *testing.T) *store.Store {
	return store.New(&stubBackend{}, setupTestAdapter(t), nopJournal{})
}
