package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/backend"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/logger"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/prom"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/redis"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/worker"
)

const (
	appliedKeyPrefix = "journal:applied:"
	appliedTTL       = 24 * time.Hour

	applyTimeout    = 5 * time.Second
	statsInterval   = 30 * time.Second
	shutdownTimeout = time.Minute
)

// ChangeNotifier is told about every op that reached the backend, so other
// devices can reload.
type ChangeNotifier interface {
	RecordChanged(table, kind string) error
}

// Flusher drains the journal and applies each op to the backend. A single
// worker keeps ops applying in the order they were enqueued; the applied
// marker makes redelivered entries no-ops.
type Flusher struct {
	adapter  redis.RedisAdapter
	queue    *Queue
	backend  backend.Backend
	notifier ChangeNotifier
	worker   *worker.WorkerManager
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewFlusher(adapter redis.RedisAdapter, queue *Queue, b backend.Backend, notifier ChangeNotifier) *Flusher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Flusher{
		adapter:  adapter,
		queue:    queue,
		backend:  b,
		notifier: notifier,
		worker:   worker.NewWorkerManager(1024, 1, nil),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (f *Flusher) Start() error {
	logger.Info("starting journal flusher...")

	f.worker.SetWorker(f.workerHandler)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := f.worker.Start(); err != nil {
			logger.Error("flusher worker stopped", "error", err)
		}
	}()

	if err := f.queue.Consume(f.opHandler); err != nil {
		return fmt.Errorf("failed to start journal consumer: %w", err)
	}

	f.wg.Add(1)
	go f.statsReporter()

	logger.Info("journal flusher started")
	return nil
}

func (f *Flusher) Stop() {
	logger.Info("shutting down journal flusher...")

	f.cancel()

	if err := f.queue.Stop(shutdownTimeout); err != nil {
		logger.Error("error stopping journal queue", "error", err)
	}

	f.worker.Exit()
	f.wg.Wait()

	logger.Info("journal flusher stopped")
}

type flushJob struct {
	delivery   *Delivery
	resultChan chan error
	ctx        context.Context
}

// opHandler bridges the queue consumer to the worker pool and blocks for
// the result so the ack decision stays with the queue.
func (f *Flusher) opHandler(ctx context.Context, d *Delivery) error {
	resultChan := make(chan error, 1)

	opCtx, cancel := context.WithTimeout(ctx, applyTimeout+time.Second)
	defer cancel()

	f.worker.Enqueue(&flushJob{
		delivery:   d,
		resultChan: resultChan,
		ctx:        opCtx,
	})

	select {
	case err := <-resultChan:
		return err
	case <-opCtx.Done():
		return fmt.Errorf("timeout waiting for flush worker: %w", opCtx.Err())
	}
}

func (f *Flusher) workerHandler(workerIndex int, job interface{}) {
	flush, ok := job.(*flushJob)
	if !ok {
		logger.Error("invalid job type in flush worker", "worker", workerIndex)
		return
	}

	select {
	case <-flush.ctx.Done():
		return
	default:
	}

	err := f.apply(flush.ctx, flush.delivery.Op)

	select {
	case flush.resultChan <- err:
	case <-flush.ctx.Done():
		logger.Warn("flush result dropped, op handler timed out", "worker", workerIndex)
	}
}

func (f *Flusher) apply(ctx context.Context, op Op) error {
	// Claim the op before applying. A redelivery that lost the race is
	// already covered by whoever holds the marker.
	acquired, err := f.adapter.SetNX(appliedKeyPrefix+op.ID, []byte("1"), appliedTTL)
	if err != nil {
		// Better to risk a duplicate upsert than to stall the journal;
		// upserts are idempotent on the backend anyway.
		logger.Warn("applied-marker check failed, applying anyway", "op_id", op.ID, "error", err)
	} else if !acquired {
		logger.Debug("op already applied, skipping", "op_id", op.ID, "table", op.Table)
		return nil
	}

	start := time.Now()

	switch op.Kind {
	case KindUpsert:
		err = f.backend.Upsert(ctx, op.Table, op.Payload)
	case KindDelete:
		err = f.backend.Delete(ctx, op.Table, op.RecordID)
	default:
		logger.Error("unknown journal op kind, dropping", "op_id", op.ID, "kind", op.Kind)
		return nil
	}

	if err != nil {
		// Release the marker so the redelivery can re-apply.
		_ = f.adapter.Del(appliedKeyPrefix + op.ID)
		prom.IncCounterVec(prom.SystemJournal, prom.MetricFlushFailures, op.Table)
		return fmt.Errorf("failed to apply %s on %s: %w", op.Kind, op.Table, err)
	}

	prom.ObserveHistogramVec(prom.SystemJournal, prom.MetricFlushDuration, time.Since(start).Seconds(), op.Table)

	if f.notifier != nil {
		if err := f.notifier.RecordChanged(op.Table, op.Kind); err != nil {
			logger.Warn("change notification failed", "table", op.Table, "error", err)
		}
	}

	return nil
}

func (f *Flusher) statsReporter() {
	defer f.wg.Done()

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if stats, err := f.queue.GetStats(); err == nil {
				logger.Info("journal stats", "total_ops", stats.TotalOps, "pending_ops", stats.PendingOps)
				if stats.PendingOps > 1000 {
					logger.Warn("journal backlog is high", "pending_ops", stats.PendingOps)
				}
			}
		case <-f.ctx.Done():
			return
		}
	}
}
