package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/pkg/logger"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/prom"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/redis"
)

// Event announces that some record in a table changed. It deliberately
// carries no record data: the contract is notify-then-reload, so a lost
// event costs one stale view, never a wrong merge.
type Event struct {
	Table string    `json:"table"`
	Kind  string    `json:"kind"`
	At    time.Time `json:"at"`
}

// Publisher announces applied ops on the feed channel. Satisfies the
// flusher's notifier dependency.
type Publisher struct {
	adapter redis.RedisAdapter
	channel string
}

func NewPublisher(adapter redis.RedisAdapter, channel string) *Publisher {
	return &Publisher{adapter: adapter, channel: channel}
}

func (p *Publisher) RecordChanged(table, kind string) error {
	raw, err := json.Marshal(Event{Table: table, Kind: kind, At: time.Now()})
	if err != nil {
		return err
	}
	return p.adapter.Publish(p.channel, raw)
}

// Reloader is what a feed event triggers, a full refresh from the backend.
type Reloader interface {
	Load(ctx context.Context) error
}

// Subscriber listens on the feed channel and reloads the whole store on
// every event. Runs degraded (logs, keeps local state) when the
// subscription cannot be established.
type Subscriber struct {
	adapter  redis.RedisAdapter
	channel  string
	reloader Reloader
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewSubscriber(adapter redis.RedisAdapter, channel string, reloader Reloader) *Subscriber {
	ctx, cancel := context.WithCancel(context.Background())
	return &Subscriber{
		adapter:  adapter,
		channel:  channel,
		reloader: reloader,
		debounce: 500 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Subscriber) Start() {
	s.wg.Add(1)
	go s.listen()
}

func (s *Subscriber) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Subscriber) listen() {
	defer s.wg.Done()

	pubsub := s.adapter.Subscribe(s.ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(s.ctx); err != nil {
		logger.Warn("change feed unavailable, running without live updates", "channel", s.channel, "error", err)
		return
	}

	logger.Info("change feed subscribed", "channel", s.channel)

	ch := pubsub.Channel()
	var reloadTimer *time.Timer
	var reloadC <-chan time.Time

	for {
		select {
		case <-s.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				logger.Warn("change feed closed, running without live updates", "channel", s.channel)
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("discarding malformed feed event", "error", err)
				continue
			}
			prom.IncCounterVec(prom.SystemFeed, prom.MetricFeedEvents, event.Table)

			// Coalesce bursts: one reload per quiet window, not per event.
			if reloadTimer == nil {
				reloadTimer = time.NewTimer(s.debounce)
				reloadC = reloadTimer.C
			} else {
				if !reloadTimer.Stop() {
					select {
					case <-reloadTimer.C:
					default:
					}
				}
				reloadTimer.Reset(s.debounce)
			}
		case <-reloadC:
			reloadTimer = nil
			reloadC = nil
			s.reload()
		}
	}
}

func (s *Subscriber) reload() {
	prom.IncCounterVec(prom.SystemStore, prom.MetricStoreReloads, "feed")
	if err := s.reloader.Load(s.ctx); err != nil {
		logger.Warn("feed-triggered reload failed, keeping local state", "error", err)
	}
}
