package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// storemock is a stand-in remote table store for developing against
// BACKEND=rest without a real remote database. Records live in memory,
// keyed by table and id; an optional failure rate exercises the degraded
// paths of the API process.

type record map[string]any

type tableStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]record

	failureRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
	rng         *rand.Rand
}

func newTableStore(failureRate float64, minDelay, maxDelay time.Duration) *tableStore {
	return &tableStore{
		tables:      make(map[string]map[string]record),
		failureRate: failureRate,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *tableStore) simulate() bool {
	if s.maxDelay > 0 {
		delay := s.minDelay
		if span := s.maxDelay - s.minDelay; span > 0 {
			delay += time.Duration(s.rng.Int63n(int64(span)))
		}
		time.Sleep(delay)
	}
	return s.rng.Float64() >= s.failureRate
}

func (s *tableStore) list(table string) []record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]record, 0, len(s.tables[table]))
	for _, r := range s.tables[table] {
		records = append(records, r)
	}
	return records
}

func (s *tableStore) upsert(table string, r record) string {
	id, _ := r["id"].(string)
	if id == "" {
		id = uuid.NewString()
		r["id"] = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[table] == nil {
		s.tables[table] = make(map[string]record)
	}
	s.tables[table][id] = r
	return id
}

func (s *tableStore) delete(table, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables[table], id)
}

type handler struct {
	store *tableStore
}

func (h *handler) listRecords(c *gin.Context) {
	if !h.store.simulate() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "table store temporarily unavailable"})
		return
	}

	records := h.store.list(c.Param("table"))
	raw, err := json.Marshal(records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": json.RawMessage(raw)})
}

func (h *handler) upsertRecord(c *gin.Context) {
	if !h.store.simulate() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "table store temporarily unavailable"})
		return
	}

	var r record
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record", "details": err.Error()})
		return
	}

	id := h.store.upsert(c.Param("table"), r)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *handler) deleteRecord(c *gin.Context) {
	if !h.store.simulate() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "table store temporarily unavailable"})
		return
	}

	h.store.delete(c.Param("table"), c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

func setupRouter(h *handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request processed")
	})

	router.GET("/tables/:table", h.listRecords)
	router.PUT("/tables/:table/records", h.upsertRecord)
	router.DELETE("/tables/:table/records/:id", h.deleteRecord)
	router.GET("/health", h.health)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8082")
	failureRate := getEnvFloat("FAILURE_RATE", 0)
	minDelay := getEnvDuration("MIN_DELAY", 0)
	maxDelay := getEnvDuration("MAX_DELAY", 0)

	log.Info().
		Str("port", port).
		Float64("failure_rate", failureRate).
		Msg("starting mock table store")

	h := &handler{store: newTableStore(failureRate, minDelay, maxDelay)}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      setupRouter(h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if err := json.Unmarshal([]byte(value), &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
