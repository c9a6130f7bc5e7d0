package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/pkg/logger"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/redis"
)

// Delivery is one op read back from the journal stream.
type Delivery struct {
	StreamID string
	Op       Op
	Attempts int
}

// OpHandler processes a delivery. Returning nil acks the entry; returning
// an error leaves it pending so the visibility sweep redelivers it.
type OpHandler func(ctx context.Context, d *Delivery) error

type Config struct {
	Name              string
	ConsumerGroup     string
	ConsumerName      string
	MaxRetries        int
	VisibilityTimeout time.Duration
	PollInterval      time.Duration
	BatchSize         int64
	MaxLen            int64
	EnableDLQ         bool
}

// Queue is the write-ahead persist journal on a Redis stream. The store
// enqueues ops; a single consumer drains them in order. Entries stay
// pending until acked, survive process restarts, and land in a dead-letter
// stream after MaxRetries failed deliveries.
type Queue struct {
	adapter redis.RedisAdapter
	config  Config
	handler OpHandler
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type Stats struct {
	TotalOps   int64
	PendingOps int64
	Consumers  int64
}

func NewQueue(adapter redis.RedisAdapter, config Config) (*Queue, error) {
	if config.Name == "" {
		return nil, fmt.Errorf("journal stream name is required")
	}
	if config.ConsumerGroup == "" {
		config.ConsumerGroup = "flushers"
	}
	if config.ConsumerName == "" {
		config.ConsumerName = fmt.Sprintf("flusher-%d", time.Now().UnixNano())
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 5
	}
	if config.VisibilityTimeout == 0 {
		config.VisibilityTimeout = 30 * time.Second
	}
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.BatchSize == 0 {
		config.BatchSize = 20
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		adapter: adapter,
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
	}

	if err := q.adapter.XGroupCreateMkStream(q.config.Name, q.config.ConsumerGroup, "0"); err != nil {
		// BUSYGROUP on restart, the group already exists
	}

	return q, nil
}

// EnqueueUpsert publishes a full-record upsert op. Satisfies the store's
// journal dependency.
func (q *Queue) EnqueueUpsert(ctx context.Context, table string, record any) error {
	op, err := NewUpsertOp(table, record)
	if err != nil {
		return fmt.Errorf("failed to encode record for journal: %w", err)
	}
	return q.publish(op)
}

func (q *Queue) EnqueueDelete(ctx context.Context, table string, id string) error {
	return q.publish(NewDeleteOp(table, id))
}

func (q *Queue) publish(op Op) error {
	raw, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal journal op: %w", err)
	}

	values := map[string]interface{}{
		"op":       string(raw),
		"attempts": 0,
	}

	if _, err := q.adapter.XAdd(q.config.Name, values); err != nil {
		return fmt.Errorf("failed to append to journal: %w", err)
	}

	if q.config.MaxLen > 0 {
		_ = q.adapter.XTrimApprox(q.config.Name, q.config.MaxLen)
	}

	return nil
}

// Consume starts draining the stream. One consumer per process keeps the
// per-session op order intact.
func (q *Queue) Consume(handler OpHandler) error {
	if handler == nil {
		return fmt.Errorf("op handler is required")
	}

	q.handler = handler
	q.wg.Add(1)

	go q.consumeLoop()

	return nil
}

func (q *Queue) consumeLoop() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.processEntries()
			q.claimStuckEntries()
		}
	}
}

func (q *Queue) processEntries() {
	messages, err := q.adapter.XReadGroup(
		q.config.ConsumerGroup,
		q.config.ConsumerName,
		q.config.Name,
		">",
		q.config.BatchSize,
	)
	if err != nil {
		if err != redis.NilError {
			logger.Warn("journal read failed", "stream", q.config.Name, "error", err)
		}
		return
	}

	for _, streamMsg := range messages {
		q.handleEntry(streamMsg)
	}
}

// claimStuckEntries takes over entries another (dead) consumer read but
// never acked, once their idle time exceeds the visibility timeout.
func (q *Queue) claimStuckEntries() {
	pending, err := q.adapter.XPending(q.config.Name, q.config.ConsumerGroup)
	if err != nil || pending == nil || pending.Count == 0 {
		return
	}

	pendingExt, err := q.adapter.XPendingExt(q.config.Name, q.config.ConsumerGroup, "-", "+", 100)
	if err != nil || len(pendingExt) == 0 {
		return
	}

	var idsToReclaim []string
	for _, msg := range pendingExt {
		if msg.Idle >= q.config.VisibilityTimeout {
			idsToReclaim = append(idsToReclaim, msg.ID)
		}
	}
	if len(idsToReclaim) == 0 {
		return
	}

	messages, err := q.adapter.XClaim(
		q.config.Name,
		q.config.ConsumerGroup,
		q.config.ConsumerName,
		q.config.VisibilityTimeout,
		idsToReclaim...,
	)
	if err != nil {
		return
	}

	for _, streamMsg := range messages {
		q.handleEntry(streamMsg)
	}
}

func (q *Queue) handleEntry(streamMsg redis.StreamMessage) {
	d, err := q.decodeEntry(streamMsg)
	if err != nil {
		// Undecodable entries will not improve on redelivery.
		logger.Error("journal entry is unreadable, dropping", "stream_id", streamMsg.ID, "error", err)
		_ = q.ack(streamMsg.ID)
		return
	}

	if d.Attempts >= q.config.MaxRetries {
		q.moveToDeadLetter(streamMsg, d)
		_ = q.ack(d.StreamID)
		return
	}

	ctx, cancel := context.WithTimeout(q.ctx, q.config.VisibilityTimeout)
	defer cancel()

	if err := q.handler(ctx, d); err != nil {
		logger.Warn("journal op failed, will be redelivered",
			"op_id", d.Op.ID, "table", d.Op.Table, "kind", d.Op.Kind,
			"attempts", d.Attempts, "error", err)
		q.bumpAttempts(d)
		return
	}

	_ = q.ack(d.StreamID)
}

// bumpAttempts re-appends the op with an incremented attempt counter and
// acks the old entry. XCLAIM redelivery alone cannot count attempts across
// restarts, so the counter travels with the entry.
func (q *Queue) bumpAttempts(d *Delivery) {
	raw, err := json.Marshal(d.Op)
	if err != nil {
		return
	}
	values := map[string]interface{}{
		"op":       string(raw),
		"attempts": d.Attempts + 1,
	}
	if _, err := q.adapter.XAdd(q.config.Name, values); err != nil {
		// Leave the original pending; the visibility sweep retries it.
		return
	}
	_ = q.ack(d.StreamID)
}

func (q *Queue) ack(streamID string) error {
	return q.adapter.XAck(q.config.Name, q.config.ConsumerGroup, streamID)
}

func (q *Queue) moveToDeadLetter(streamMsg redis.StreamMessage, d *Delivery) {
	if !q.config.EnableDLQ {
		logger.Error("journal op exhausted retries, dropping",
			"op_id", d.Op.ID, "table", d.Op.Table, "attempts", d.Attempts)
		return
	}

	values := map[string]interface{}{
		"op":          streamMsg.Values["op"],
		"original_id": d.StreamID,
		"attempts":    d.Attempts,
		"failed_at":   time.Now().Unix(),
	}
	_, _ = q.adapter.XAdd(q.config.Name+":dlq", values)

	logger.Error("journal op moved to dead-letter stream",
		"op_id", d.Op.ID, "table", d.Op.Table, "kind", d.Op.Kind, "attempts", d.Attempts)
}

func (q *Queue) decodeEntry(streamMsg redis.StreamMessage) (*Delivery, error) {
	d := &Delivery{StreamID: streamMsg.ID}

	raw, ok := streamMsg.Values["op"].(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("entry has no op field")
	}
	if err := json.Unmarshal([]byte(raw), &d.Op); err != nil {
		return nil, fmt.Errorf("failed to decode op: %w", err)
	}

	if attempts, ok := streamMsg.Values["attempts"].(string); ok {
		fmt.Sscanf(attempts, "%d", &d.Attempts)
	}

	return d, nil
}

func (q *Queue) Stop(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for journal consumer to stop")
	}
}

func (q *Queue) GetStats() (*Stats, error) {
	total, err := q.adapter.XLen(q.config.Name)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalOps: total}

	if pending, err := q.adapter.XPending(q.config.Name, q.config.ConsumerGroup); err == nil && pending != nil {
		stats.PendingOps = pending.Count
		stats.Consumers = int64(len(pending.Consumers))
	}

	return stats, nil
}
