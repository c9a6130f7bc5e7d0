package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/backend"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	transactions []*model.Transaction
	orders       []*model.ServiceOrder
	quotes       []*model.Quote
	catalog      []*model.CatalogItem
	customers    []*model.Customer
	partners     []*model.Partner
	loadErr      error
}

func (b *stubBackend) LoadTransactions(ctx context.Context) ([]*model.Transaction, error) {
	return b.transactions, b.loadErr
}
func (b *stubBackend) LoadOrders(ctx context.Context) ([]*model.ServiceOrder, error) {
	return b.orders, b.loadErr
}
func (b *stubBackend) LoadQuotes(ctx context.Context) ([]*model.Quote, error) {
	return b.quotes, b.loadErr
}
func (b *stubBackend) LoadCatalog(ctx context.Context) ([]*model.CatalogItem, error) {
	return b.catalog, b.loadErr
}
func (b *stubBackend) LoadCustomers(ctx context.Context) ([]*model.Customer, error) {
	return b.customers, b.loadErr
}
func (b *stubBackend) LoadPartners(ctx context.Context) ([]*model.Partner, error) {
	return b.partners, b.loadErr
}
func (b *stubBackend) Upsert(ctx context.Context, table string, payload json.RawMessage) error {
	return nil
}
func (b *stubBackend) Delete(ctx context.Context, table string, id string) error {
	return nil
}

type recordedOp struct {
	kind  string
	table string
	id    string
}

type recordingJournal struct {
	ops []recordedOp
}

func (j *recordingJournal) EnqueueUpsert(ctx context.Context, table string, record any) error {
	j.ops = append(j.ops, recordedOp{kind: "upsert", table: table})
	return nil
}

func (j *recordingJournal) EnqueueDelete(ctx context.Context, table string, id string) error {
	j.ops = append(j.ops, recordedOp{kind: "delete", table: table, id: id})
	return nil
}

func setupTestCache(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func newTestStore(t *testing.T, b backend.Backend) (*Store, redis.RedisAdapter, *recordingJournal) {
	_, cache := setupTestCache(t)
	j := &recordingJournal{}
	return New(b, cache, j), cache, j
}

func TestCreateTransactionHeadInsert(t *testing.T) {
	s, _, j := newTestStore(t, &stubBackend{})
	ctx := context.Background()

	first := s.CreateTransaction(ctx, &model.Transaction{Type: model.TransactionIncome, Amount: 100, Description: "a"})
	second := s.CreateTransaction(ctx, &model.Transaction{Type: model.TransactionExpense, Amount: 50, Description: "b"})

	assert.NotEmpty(t, first.ID)
	assert.True(t, len(first.ID) > 3 && first.ID[:3] == "TR-", "expected TR- prefix, got %s", first.ID)

	list := s.Transactions()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	require.Len(t, j.ops, 2)
	assert.Equal(t, "upsert", j.ops[0].kind)
	assert.Equal(t, backend.TableTransactions, j.ops[0].table)
}

func TestMutationWritesThroughToCache(t *testing.T) {
	s, cache, _ := newTestStore(t, &stubBackend{})

	created := s.CreateTransaction(context.Background(), &model.Transaction{
		Type: model.TransactionIncome, Amount: 100, Description: "material",
	})

	raw, err := cache.Get("cache:" + backend.TableTransactions)
	require.NoError(t, err)

	var cached []*model.Transaction
	require.NoError(t, json.Unmarshal(raw, &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, created.ID, cached[0].ID)
}

func TestUpdateMissingIDIsNoOp(t *testing.T) {
	s, _, j := newTestStore(t, &stubBackend{})
	ctx := context.Background()

	s.CreateTransaction(ctx, &model.Transaction{Type: model.TransactionIncome, Amount: 100, Description: "a"})
	before := s.Transactions()
	journaled := len(j.ops)

	amount := 999.0
	updated, ok := s.UpdateTransaction(ctx, "TR-MISSING", model.TransactionPatch{Amount: &amount})

	assert.False(t, ok)
	assert.Nil(t, updated)
	assert.Equal(t, before, s.Transactions())
	assert.Len(t, j.ops, journaled, "no-op must not journal anything")
}

func TestUpdatePersistsMergedRecord(t *testing.T) {
	s, _, _ := newTestStore(t, &stubBackend{})
	ctx := context.Background()

	created := s.CreateTransaction(ctx, &model.Transaction{
		Type: model.TransactionIncome, Amount: 100, Description: "material", Category: "compra",
	})

	amount := 150.0
	updated, ok := s.UpdateTransaction(ctx, created.ID, model.TransactionPatch{Amount: &amount})

	require.True(t, ok)
	assert.Equal(t, 150.0, updated.Amount)
	assert.Equal(t, "material", updated.Description, "unpatched fields survive the merge")
	assert.Equal(t, "compra", updated.Category)
}

func TestRemoveTransaction(t *testing.T) {
	s, _, j := newTestStore(t, &stubBackend{})
	ctx := context.Background()

	created := s.CreateTransaction(ctx, &model.Transaction{Type: model.TransactionIncome, Amount: 100, Description: "a"})
	s.RemoveTransaction(ctx, created.ID)

	assert.Empty(t, s.Transactions())
	last := j.ops[len(j.ops)-1]
	assert.Equal(t, recordedOp{kind: "delete", table: backend.TableTransactions, id: created.ID}, last)
}

func TestLoadReplacesState(t *testing.T) {
	b := &stubBackend{
		transactions: []*model.Transaction{{ID: "TR-AAAAA", Type: model.TransactionIncome, Amount: 10}},
		orders:       []*model.ServiceOrder{{ID: "OS-AAAAA", Status: model.OrderQuoted}},
	}
	s, cache, _ := newTestStore(t, b)

	require.NoError(t, s.Load(context.Background()))

	require.Len(t, s.Transactions(), 1)
	assert.Equal(t, "TR-AAAAA", s.Transactions()[0].ID)
	require.Len(t, s.Orders(), 1)

	raw, err := cache.Get("cache:" + backend.TableOrders)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "OS-AAAAA")
}

func TestLoadFailureKeepsLocalState(t *testing.T) {
	b := &stubBackend{}
	s, _, _ := newTestStore(t, b)
	ctx := context.Background()

	created := s.CreateTransaction(ctx, &model.Transaction{Type: model.TransactionIncome, Amount: 100, Description: "a"})

	b.loadErr = errors.New("connection refused")
	err := s.Load(ctx)

	assert.ErrorIs(t, err, ErrBackendUnavailable)
	require.Len(t, s.Transactions(), 1, "failed load must not clobber local state")
	assert.Equal(t, created.ID, s.Transactions()[0].ID)
}

func TestSeedFromCache(t *testing.T) {
	_, cache := setupTestCache(t)
	seed := []*model.Transaction{{ID: "TR-CACHE", Type: model.TransactionIncome, Amount: 42}}
	raw, err := json.Marshal(seed)
	require.NoError(t, err)
	require.NoError(t, cache.Set("cache:"+backend.TableTransactions, raw, 0))

	s := New(&stubBackend{}, cache, &recordingJournal{})
	s.SeedFromCache()

	require.Len(t, s.Transactions(), 1)
	assert.Equal(t, "TR-CACHE", s.Transactions()[0].ID)
}

func TestBatchRollsBackOnError(t *testing.T) {
	s, _, j := newTestStore(t, &stubBackend{})
	ctx := context.Background()

	order := s.CreateOrder(ctx, &model.ServiceOrder{
		CustomerName: "Maria", Description: "Forro", Status: model.OrderQuoted, TotalValue: 100,
	})
	journaled := len(j.ops)

	boom := errors.New("boom")
	err := s.Batch(ctx, func(tx *Txn) error {
		tx.CreateTransaction(&model.Transaction{Type: model.TransactionIncome, Amount: 100, Description: "x"})
		paid := model.OrderPaid
		tx.UpdateOrder(order.ID, model.OrderPatch{Status: &paid})
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Transactions(), "created transaction must be rolled back")
	got, ok := s.FindOrder(order.ID)
	require.True(t, ok)
	assert.Equal(t, model.OrderQuoted, got.Status, "order mutation must be rolled back")
	assert.Len(t, j.ops, journaled, "failed batch must not journal anything")
}

func TestBatchCommitsAllOrNothing(t *testing.T) {
	s, _, _ := newTestStore(t, &stubBackend{})
	ctx := context.Background()

	err := s.Batch(ctx, func(tx *Txn) error {
		tx.CreateOrder(&model.ServiceOrder{CustomerName: "Maria", Description: "Forro", Status: model.OrderApproved})
		tx.CreateTransaction(&model.Transaction{Type: model.TransactionIncome, Amount: 50, Description: "sinal"})
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, s.Orders(), 1)
	assert.Len(t, s.Transactions(), 1)
}

func TestEnsureCustomerMatchesCaseInsensitive(t *testing.T) {
	s, _, _ := newTestStore(t, &stubBackend{})
	ctx := context.Background()

	first := s.EnsureCustomer(ctx, "João Silva", "11 99999-0000", "Rua A")
	second := s.EnsureCustomer(ctx, "joão silva", "", "")

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, s.Customers(), 1)
}

func TestReplaceAllSwapsEveryCollection(t *testing.T) {
	s, _, j := newTestStore(t, &stubBackend{})
	ctx := context.Background()

	s.CreateTransaction(ctx, &model.Transaction{Type: model.TransactionIncome, Amount: 1, Description: "old"})

	snap := &model.Snapshot{
		Version:      model.SnapshotVersion,
		Transactions: []*model.Transaction{{ID: "TR-NEW01", Type: model.TransactionExpense, Amount: 5}},
		Orders:       []*model.ServiceOrder{{ID: "OS-NEW01", Status: model.OrderPaid}},
		Catalog:      []*model.CatalogItem{{ID: "IT-NEW01", Name: "Forro PVC", Type: model.CatalogProduct}},
	}
	s.ReplaceAll(ctx, snap)

	require.Len(t, s.Transactions(), 1)
	assert.Equal(t, "TR-NEW01", s.Transactions()[0].ID)
	assert.Len(t, s.Orders(), 1)
	assert.Len(t, s.Catalog(), 1)
	assert.Empty(t, s.Quotes())

	// every imported record is re-persisted
	upserts := 0
	for _, op := range j.ops {
		if op.kind == "upsert" {
			upserts++
		}
	}
	assert.GreaterOrEqual(t, upserts, 3)
}

func TestSnapshotIsolatedFromLaterMutations(t *testing.T) {
	s, _, _ := newTestStore(t, &stubBackend{})
	ctx := context.Background()

	s.CreateTransaction(ctx, &model.Transaction{Type: model.TransactionIncome, Amount: 1, Description: "a"})
	snap := s.Snapshot()
	s.CreateTransaction(ctx, &model.Transaction{Type: model.TransactionIncome, Amount: 2, Description: "b"})

	assert.Len(t, snap.Transactions, 1)
	assert.Equal(t, model.SnapshotVersion, snap.Version)
}

func TestNewIDFormat(t *testing.T) {
	id := NewID(TagOrder)
	require.Len(t, id, len(TagOrder)+1+5)
	assert.Equal(t, "OS-", id[:3])
	for _, r := range id[3:] {
		assert.Contains(t, idAlphabet, string(r))
	}
}

func TestCreateOrderDefaults(t *testing.T) {
	s, _, _ := newTestStore(t, &stubBackend{})

	o := s.CreateOrder(context.Background(), &model.ServiceOrder{
		CustomerName: "Maria", Description: "Forro", Status: model.OrderInProgress,
	})

	assert.Equal(t, 60, o.Progress, "progress always derives from status")
	assert.WithinDuration(t, time.Now(), o.CreatedAt, time.Minute)
}
