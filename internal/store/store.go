package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/backend"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/logger"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/prom"
)

const cacheKeyPrefix = "cache:"

// Cache is the durable local fallback. The in-memory collections are the
// source of truth for the session; the cache is a redundant copy refreshed
// on every mutation and read as the initial seed.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
}

// Journal receives persist ops for the background flusher. Enqueue failures
// are logged, never surfaced: local state stays authoritative.
type Journal interface {
	EnqueueUpsert(ctx context.Context, table string, record any) error
	EnqueueDelete(ctx context.Context, table string, id string) error
}

// Store holds the five record collections. Mutations apply to memory first,
// then snapshot the affected collection into the cache and enqueue the
// persist op; nothing waits on the backend.
type Store struct {
	mu      sync.RWMutex
	backend backend.Backend
	cache   Cache
	journal Journal

	transactions []*model.Transaction
	orders       []*model.ServiceOrder
	quotes       []*model.Quote
	catalog      []*model.CatalogItem
	customers    []*model.Customer
}

func New(b backend.Backend, cache Cache, journal Journal) *Store {
	return &Store{
		backend: b,
		cache:   cache,
		journal: journal,
	}
}

// SeedFromCache fills the collections from the durable cache. Called once
// at startup, before the first backend load completes (or in place of it
// when the backend is unreachable).
func (s *Store) SeedFromCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := func(table string, dst any) {
		raw, err := s.cache.Get(cacheKeyPrefix + table)
		if err != nil || len(raw) == 0 {
			prom.IncCounterVec(prom.SystemStore, prom.MetricCacheReads, table, "miss")
			return
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			logger.Warn("cache seed: discarding unreadable snapshot", "table", table, "error", err)
			prom.IncCounterVec(prom.SystemStore, prom.MetricCacheReads, table, "corrupt")
			return
		}
		prom.IncCounterVec(prom.SystemStore, prom.MetricCacheReads, table, "hit")
	}

	seed(backend.TableTransactions, &s.transactions)
	seed(backend.TableOrders, &s.orders)
	seed(backend.TableQuotes, &s.quotes)
	seed(backend.TableCatalog, &s.catalog)
	seed(backend.TableCustomers, &s.customers)
}

// Load refreshes every collection from the backend. A collection whose
// fetch fails keeps its current (possibly stale, possibly empty) state; the
// failure is a warning, not an error, unless every single fetch failed.
func (s *Store) Load(ctx context.Context) error {
	transactions, errT := s.backend.LoadTransactions(ctx)
	orders, errO := s.backend.LoadOrders(ctx)
	quotes, errQ := s.backend.LoadQuotes(ctx)
	catalog, errI := s.backend.LoadCatalog(ctx)
	customers, errC := s.backend.LoadCustomers(ctx)

	failed := 0
	warn := func(table string, err error) {
		if err != nil {
			failed++
			logger.Warn("load: keeping local state for table", "table", table, "error", err)
		}
	}
	warn(backend.TableTransactions, errT)
	warn(backend.TableOrders, errO)
	warn(backend.TableQuotes, errQ)
	warn(backend.TableCatalog, errI)
	warn(backend.TableCustomers, errC)

	s.mu.Lock()
	if errT == nil {
		s.transactions = transactions
	}
	if errO == nil {
		s.orders = orders
	}
	if errQ == nil {
		s.quotes = quotes
	}
	if errI == nil {
		s.catalog = catalog
	}
	if errC == nil {
		s.customers = customers
	}
	loaded := map[string]bool{
		backend.TableTransactions: errT == nil,
		backend.TableOrders:       errO == nil,
		backend.TableQuotes:       errQ == nil,
		backend.TableCatalog:      errI == nil,
		backend.TableCustomers:    errC == nil,
	}
	tables := make([]string, 0, len(loaded))
	for t, ok := range loaded {
		if ok {
			tables = append(tables, t)
		}
	}
	blobs := s.snapshotTables(tables)
	s.mu.Unlock()

	s.writeCache(blobs)

	if failed == len(backend.Tables) {
		return ErrBackendUnavailable
	}
	return nil
}

// Reads

func (s *Store) Transactions() []*model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Transaction(nil), s.transactions...)
}

func (s *Store) Orders() []*model.ServiceOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.ServiceOrder(nil), s.orders...)
}

func (s *Store) Quotes() []*model.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Quote(nil), s.quotes...)
}

func (s *Store) Catalog() []*model.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.CatalogItem(nil), s.catalog...)
}

func (s *Store) Customers() []*model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Customer(nil), s.customers...)
}

func (s *Store) FindOrder(id string) (*model.ServiceOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findOrder(s.orders, id)
}

func (s *Store) FindQuote(id string) (*model.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findQuote(s.quotes, id)
}

func (s *Store) FindCustomer(id string) (*model.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Snapshot copies the full state for export.
func (s *Store) Snapshot() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &model.Snapshot{
		Version:      model.SnapshotVersion,
		Transactions: append([]*model.Transaction(nil), s.transactions...),
		Orders:       append([]*model.ServiceOrder(nil), s.orders...),
		Quotes:       append([]*model.Quote(nil), s.quotes...),
		Catalog:      append([]*model.CatalogItem(nil), s.catalog...),
		Customers:    append([]*model.Customer(nil), s.customers...),
	}
}

// ReplaceAll swaps in an imported snapshot and re-persists every record so
// the backend converges on the imported state.
func (s *Store) ReplaceAll(ctx context.Context, snap *model.Snapshot) {
	eff := newEffects()

	s.mu.Lock()
	s.transactions = snap.Transactions
	s.orders = snap.Orders
	s.quotes = snap.Quotes
	s.catalog = snap.Catalog
	s.customers = snap.Customers
	for _, t := range snap.Transactions {
		eff.upsert(backend.TableTransactions, t.ID, t)
	}
	for _, o := range snap.Orders {
		eff.upsert(backend.TableOrders, o.ID, o)
	}
	for _, q := range snap.Quotes {
		eff.upsert(backend.TableQuotes, q.ID, q)
	}
	for _, c := range snap.Catalog {
		eff.upsert(backend.TableCatalog, c.ID, c)
	}
	for _, c := range snap.Customers {
		eff.upsert(backend.TableCustomers, c.ID, c)
	}
	blobs := s.snapshotTables(backend.Tables)
	s.mu.Unlock()

	s.flushEffects(ctx, blobs, eff)
}

// Single-record mutations

func (s *Store) CreateTransaction(ctx context.Context, t *model.Transaction) *model.Transaction {
	eff := newEffects()
	s.mu.Lock()
	created := s.createTransaction(eff, t)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return created
}

func (s *Store) UpdateTransaction(ctx context.Context, id string, p model.TransactionPatch) (*model.Transaction, bool) {
	eff := newEffects()
	s.mu.Lock()
	updated, ok := s.updateTransaction(eff, id, p)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return updated, ok
}

func (s *Store) RemoveTransaction(ctx context.Context, id string) {
	eff := newEffects()
	s.mu.Lock()
	s.transactions = removeByID(s.transactions, id, func(t *model.Transaction) string { return t.ID }, eff, backend.TableTransactions)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
}

func (s *Store) CreateOrder(ctx context.Context, o *model.ServiceOrder) *model.ServiceOrder {
	eff := newEffects()
	s.mu.Lock()
	created := s.createOrder(eff, o)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return created
}

func (s *Store) UpdateOrder(ctx context.Context, id string, p model.OrderPatch) (*model.ServiceOrder, bool) {
	eff := newEffects()
	s.mu.Lock()
	updated, ok := s.updateOrder(eff, id, p)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return updated, ok
}

func (s *Store) RemoveOrder(ctx context.Context, id string) {
	eff := newEffects()
	s.mu.Lock()
	s.orders = removeByID(s.orders, id, func(o *model.ServiceOrder) string { return o.ID }, eff, backend.TableOrders)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
}

func (s *Store) CreateQuote(ctx context.Context, q *model.Quote) *model.Quote {
	eff := newEffects()
	s.mu.Lock()
	created := s.createQuote(eff, q)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return created
}

func (s *Store) RemoveQuote(ctx context.Context, id string) {
	eff := newEffects()
	s.mu.Lock()
	s.quotes = removeByID(s.quotes, id, func(q *model.Quote) string { return q.ID }, eff, backend.TableQuotes)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
}

func (s *Store) CreateCatalogItem(ctx context.Context, c *model.CatalogItem) *model.CatalogItem {
	eff := newEffects()
	s.mu.Lock()
	if c.ID == "" {
		c.ID = NewID(TagCatalog)
	}
	s.catalog = append(s.catalog, c)
	eff.upsert(backend.TableCatalog, c.ID, c)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return c
}

func (s *Store) UpdateCatalogItem(ctx context.Context, id string, p model.CatalogPatch) (*model.CatalogItem, bool) {
	eff := newEffects()
	s.mu.Lock()
	var updated *model.CatalogItem
	ok := false
	for i, c := range s.catalog {
		if c.ID == id {
			clone := *c
			p.Merge(&clone)
			s.catalog[i] = &clone
			eff.upsert(backend.TableCatalog, clone.ID, &clone)
			updated, ok = &clone, true
			break
		}
	}
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return updated, ok
}

func (s *Store) RemoveCatalogItem(ctx context.Context, id string) {
	eff := newEffects()
	s.mu.Lock()
	s.catalog = removeByID(s.catalog, id, func(c *model.CatalogItem) string { return c.ID }, eff, backend.TableCatalog)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
}

// EnsureCustomer returns the customer with the given name, creating it when
// the name has never been seen. Matching is case-insensitive on the exact
// name, which is how the partners expect "joão silva" and "João Silva" to
// behave.
func (s *Store) EnsureCustomer(ctx context.Context, name, contact, address string) *model.Customer {
	eff := newEffects()
	s.mu.Lock()
	customer := s.ensureCustomer(eff, name, contact, address)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return customer
}

func (s *Store) UpdateCustomer(ctx context.Context, id string, p model.CustomerPatch) (*model.Customer, bool) {
	eff := newEffects()
	s.mu.Lock()
	var updated *model.Customer
	ok := false
	for i, c := range s.customers {
		if c.ID == id {
			clone := *c
			p.Merge(&clone)
			s.customers[i] = &clone
			eff.upsert(backend.TableCustomers, clone.ID, &clone)
			updated, ok = &clone, true
			break
		}
	}
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return updated, ok
}

func (s *Store) RemoveCustomer(ctx context.Context, id string) {
	eff := newEffects()
	s.mu.Lock()
	s.customers = removeByID(s.customers, id, func(c *model.Customer) string { return c.ID }, eff, backend.TableCustomers)
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
}

// Batch runs fn against a transactional view. Either every staged mutation
// lands or, when fn errors, none of them do; the lock is held for the whole
// batch, so a batch observes and produces a consistent state.
func (s *Store) Batch(ctx context.Context, fn func(tx *Txn) error) error {
	eff := newEffects()
	s.mu.Lock()
	backup := s.backupLocked()
	tx := &Txn{s: s, eff: eff}
	if err := fn(tx); err != nil {
		s.restoreLocked(backup)
		s.mu.Unlock()
		return err
	}
	blobs := s.snapshotTables(eff.tables)
	s.mu.Unlock()
	s.flushEffects(ctx, blobs, eff)
	return nil
}

// Locked internals, shared by the public methods and Txn. Records are
// cloned before merging a patch so a batch rollback never sees a half
// mutated record.

func (s *Store) createTransaction(eff *effects, t *model.Transaction) *model.Transaction {
	if t.ID == "" {
		t.ID = NewID(TagTransaction)
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	s.transactions = append([]*model.Transaction{t}, s.transactions...)
	eff.upsert(backend.TableTransactions, t.ID, t)
	return t
}

func (s *Store) updateTransaction(eff *effects, id string, p model.TransactionPatch) (*model.Transaction, bool) {
	for i, t := range s.transactions {
		if t.ID == id {
			clone := *t
			p.Merge(&clone)
			s.transactions[i] = &clone
			eff.upsert(backend.TableTransactions, clone.ID, &clone)
			return &clone, true
		}
	}
	return nil, false
}

func (s *Store) createOrder(eff *effects, o *model.ServiceOrder) *model.ServiceOrder {
	if o.ID == "" {
		o.ID = NewID(TagOrder)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.Progress = model.ProgressFor(o.Status)
	s.orders = append([]*model.ServiceOrder{o}, s.orders...)
	eff.upsert(backend.TableOrders, o.ID, o)
	return o
}

func (s *Store) updateOrder(eff *effects, id string, p model.OrderPatch) (*model.ServiceOrder, bool) {
	for i, o := range s.orders {
		if o.ID == id {
			clone := *o
			p.Merge(&clone)
			s.orders[i] = &clone
			eff.upsert(backend.TableOrders, clone.ID, &clone)
			return &clone, true
		}
	}
	return nil, false
}

func (s *Store) createQuote(eff *effects, q *model.Quote) *model.Quote {
	if q.ID == "" {
		q.ID = NewID(TagQuote)
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	if q.Status == "" {
		q.Status = model.QuotePending
	}
	q.Total = q.ComputeTotal()
	s.quotes = append([]*model.Quote{q}, s.quotes...)
	eff.upsert(backend.TableQuotes, q.ID, q)
	return q
}

func (s *Store) setQuoteStatus(eff *effects, id string, status model.QuoteStatus) (*model.Quote, bool) {
	for i, q := range s.quotes {
		if q.ID == id {
			clone := *q
			clone.Status = status
			s.quotes[i] = &clone
			eff.upsert(backend.TableQuotes, clone.ID, &clone)
			return &clone, true
		}
	}
	return nil, false
}

func (s *Store) ensureCustomer(eff *effects, name, contact, address string) *model.Customer {
	for _, c := range s.customers {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	customer := &model.Customer{
		ID:        NewID(TagCustomer),
		Name:      name,
		Contact:   contact,
		Address:   address,
		CreatedAt: time.Now(),
	}
	s.customers = append(s.customers, customer)
	eff.upsert(backend.TableCustomers, customer.ID, customer)
	return customer
}

// Helpers

func findOrder(orders []*model.ServiceOrder, id string) (*model.ServiceOrder, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

func findQuote(quotes []*model.Quote, id string) (*model.Quote, bool) {
	for _, q := range quotes {
		if q.ID == id {
			return q, true
		}
	}
	return nil, false
}

func removeByID[T any](list []*T, id string, idOf func(*T) string, eff *effects, table string) []*T {
	for i, rec := range list {
		if idOf(rec) == id {
			eff.remove(table, id)
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

type storeBackup struct {
	transactions []*model.Transaction
	orders       []*model.ServiceOrder
	quotes       []*model.Quote
	catalog      []*model.CatalogItem
	customers    []*model.Customer
}

func (s *Store) backupLocked() storeBackup {
	return storeBackup{
		transactions: append([]*model.Transaction(nil), s.transactions...),
		orders:       append([]*model.ServiceOrder(nil), s.orders...),
		quotes:       append([]*model.Quote(nil), s.quotes...),
		catalog:      append([]*model.CatalogItem(nil), s.catalog...),
		customers:    append([]*model.Customer(nil), s.customers...),
	}
}

func (s *Store) restoreLocked(b storeBackup) {
	s.transactions = b.transactions
	s.orders = b.orders
	s.quotes = b.quotes
	s.catalog = b.catalog
	s.customers = b.customers
}

// snapshotTables serializes the named collections while the lock is held.
func (s *Store) snapshotTables(tables []string) map[string][]byte {
	blobs := make(map[string][]byte, len(tables))
	for _, table := range tables {
		var (
			raw []byte
			err error
		)
		switch table {
		case backend.TableTransactions:
			raw, err = json.Marshal(s.transactions)
		case backend.TableOrders:
			raw, err = json.Marshal(s.orders)
		case backend.TableQuotes:
			raw, err = json.Marshal(s.quotes)
		case backend.TableCatalog:
			raw, err = json.Marshal(s.catalog)
		case backend.TableCustomers:
			raw, err = json.Marshal(s.customers)
		}
		if err != nil {
			logger.Warn("cache snapshot failed", "table", table, "error", err)
			continue
		}
		blobs[table] = raw
	}
	return blobs
}

func (s *Store) writeCache(blobs map[string][]byte) {
	for table, raw := range blobs {
		if err := s.cache.Set(cacheKeyPrefix+table, raw, 0); err != nil {
			logger.Warn("cache write failed", "table", table, "error", err)
		}
	}
}

// flushEffects applies the side effects of a committed mutation: cache
// snapshots, journal ops, metrics. All best-effort.
func (s *Store) flushEffects(ctx context.Context, blobs map[string][]byte, eff *effects) {
	s.writeCache(blobs)
	for _, o := range eff.ops {
		var err error
		switch o.kind {
		case opUpsert:
			err = s.journal.EnqueueUpsert(ctx, o.table, o.rec)
		case opDelete:
			err = s.journal.EnqueueDelete(ctx, o.table, o.id)
		}
		if err != nil {
			logger.Warn("journal enqueue failed; record stays local until next reload",
				"table", o.table, "kind", o.kind, "id", o.id, "error", err)
		}
		prom.IncCounterVec(prom.SystemStore, prom.MetricStoreMutations, o.table, o.kind)
	}
}
