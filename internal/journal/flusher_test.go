package journal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/backend"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBackend struct {
	upserts int
	deletes int
	err     error
}

func (b *countingBackend) LoadTransactions(ctx context.Context) ([]*model.Transaction, error) {
	return nil, nil
}
func (b *countingBackend) LoadOrders(ctx context.Context) ([]*model.ServiceOrder, error) {
	return nil, nil
}
func (b *countingBackend) LoadQuotes(ctx context.Context) ([]*model.Quote, error) {
	return nil, nil
}
func (b *countingBackend) LoadCatalog(ctx context.Context) ([]*model.CatalogItem, error) {
	return nil, nil
}
func (b *countingBackend) LoadCustomers(ctx context.Context) ([]*model.Customer, error) {
	return nil, nil
}
func (b *countingBackend) LoadPartners(ctx context.Context) ([]*model.Partner, error) {
	return nil, nil
}

func (b *countingBackend) Upsert(ctx context.Context, table string, payload json.RawMessage) error {
	if b.err != nil {
		return b.err
	}
	b.upserts++
	return nil
}

func (b *countingBackend) Delete(ctx context.Context, table string, id string) error {
	if b.err != nil {
		return b.err
	}
	b.deletes++
	return nil
}

type countingNotifier struct {
	events int
}

func (n *countingNotifier) RecordChanged(table, kind string) error {
	n.events++
	return nil
}

func TestApplyIsIdempotentPerOp(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig())
	require.NoError(t, err)

	b := &countingBackend{}
	n := &countingNotifier{}
	f := NewFlusher(adapter, q, b, n)

	op, err := NewUpsertOp(backend.TableTransactions, &model.Transaction{ID: "TR-AAAAA"})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, f.apply(ctx, op))
	require.NoError(t, f.apply(ctx, op))

	assert.Equal(t, 1, b.upserts, "redelivered op must apply exactly once")
	assert.Equal(t, 1, n.events, "one change notification per applied op")
}

func TestApplyReleasesMarkerOnFailure(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig())
	require.NoError(t, err)

	b := &countingBackend{err: errors.New("pg down")}
	f := NewFlusher(adapter, q, b, &countingNotifier{})

	op := NewDeleteOp(backend.TableOrders, "OS-AAAAA")

	ctx := context.Background()
	require.Error(t, f.apply(ctx, op))

	// Backend recovers; the retry must go through.
	b.err = nil
	require.NoError(t, f.apply(ctx, op))
	assert.Equal(t, 1, b.deletes)
}

func TestApplyRoutesKinds(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig())
	require.NoError(t, err)

	b := &countingBackend{}
	f := NewFlusher(adapter, q, b, &countingNotifier{})

	ctx := context.Background()

	up, err := NewUpsertOp(backend.TableCatalog, &model.CatalogItem{ID: "IT-AAAAA", Name: "Forro PVC"})
	require.NoError(t, err)
	require.NoError(t, f.apply(ctx, up))

	require.NoError(t, f.apply(ctx, NewDeleteOp(backend.TableCatalog, "IT-AAAAA")))

	assert.Equal(t, 1, b.upserts)
	assert.Equal(t, 1, b.deletes)
}
