package journal

import (
	"context"
	"encoding/json"
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

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
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

func testConfig() Config {
	return Config{
		Name:              "test:journal",
		ConsumerGroup:     "test-flushers",
		ConsumerName:      "test-flusher",
		MaxRetries:        3,
		VisibilityTimeout: 5 * time.Second,
		PollInterval:      50 * time.Millisecond,
		BatchSize:         10,
		MaxLen:            1000,
		EnableDLQ:         true,
	}
}

func TestEnqueueAndConsumeUpsert(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig())
	require.NoError(t, err)
	defer q.Stop(time.Second)

	record := &model.Transaction{ID: "TR-AAAAA", Type: model.TransactionIncome, Amount: 100}
	require.NoError(t, q.EnqueueUpsert(context.Background(), backend.TableTransactions, record))

	received := make(chan Op, 1)
	require.NoError(t, q.Consume(func(ctx context.Context, d *Delivery) error {
		received <- d.Op
		return nil
	}))

	select {
	case op := <-received:
		assert.Equal(t, KindUpsert, op.Kind)
		assert.Equal(t, backend.TableTransactions, op.Table)
		assert.NotEmpty(t, op.ID)

		var decoded model.Transaction
		require.NoError(t, json.Unmarshal(op.Payload, &decoded))
		assert.Equal(t, "TR-AAAAA", decoded.ID)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for journal delivery")
	}
}

func TestEnqueueDelete(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig())
	require.NoError(t, err)
	defer q.Stop(time.Second)

	require.NoError(t, q.EnqueueDelete(context.Background(), backend.TableOrders, "OS-AAAAA"))

	received := make(chan Op, 1)
	require.NoError(t, q.Consume(func(ctx context.Context, d *Delivery) error {
		received <- d.Op
		return nil
	}))

	select {
	case op := <-received:
		assert.Equal(t, KindDelete, op.Kind)
		assert.Equal(t, backend.TableOrders, op.Table)
		assert.Equal(t, "OS-AAAAA", op.RecordID)
		assert.Empty(t, op.Payload)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for journal delivery")
	}
}

func TestConsumeAcksProcessedEntries(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig())
	require.NoError(t, err)
	defer q.Stop(time.Second)

	require.NoError(t, q.EnqueueDelete(context.Background(), backend.TableQuotes, "ORC-AAAAA"))

	done := make(chan struct{}, 1)
	require.NoError(t, q.Consume(func(ctx context.Context, d *Delivery) error {
		done <- struct{}{}
		return nil
	}))

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for journal delivery")
	}

	assert.Eventually(t, func() bool {
		pending, err := adapter.XPending("test:journal", "test-flushers")
		return err == nil && pending != nil && pending.Count == 0
	}, 3*time.Second, 50*time.Millisecond, "processed entry should be acked")
}

func TestStatsCountEnqueuedOps(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, q.EnqueueDelete(ctx, backend.TableOrders, "OS-A"))
	require.NoError(t, q.EnqueueDelete(ctx, backend.TableOrders, "OS-B"))

	stats, err := q.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOps)
}
