package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/backend"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/config"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/feed"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/handlers"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/journal"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/services"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
	xhttp "github.com/juninhokosta/jp-forro-2-sub000/pkg/http"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/logger"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/pg"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/prom"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	if config.Get().AppDebug && config.Get().AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Warn("failed to register metrics", "error", err)
		}
		go prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
	}

	// transport
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.CORSMiddleware(config.Get().HttpCORSAllowOrigin))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	be, err := selectBackend()
	if err != nil {
		logger.Error("failed setting up persistence backend", "error", err)
		return
	}

	q, err := journal.NewQueue(redisAdap, journal.Config{
		Name:              config.Get().JournalName,
		ConsumerGroup:     config.Get().JournalConsumerGroup,
		ConsumerName:      config.Get().JournalConsumerName,
		MaxRetries:        config.Get().JournalMaxRetries,
		VisibilityTimeout: config.Get().JournalVisibilityTimeout,
		PollInterval:      config.Get().JournalPollInterval,
		BatchSize:         config.Get().JournalBatchSize,
		MaxLen:            config.Get().JournalMaxLen,
		EnableDLQ:         config.Get().JournalEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating persist journal", "error", err)
		return
	}

	// The cache seed makes records visible immediately; the backend load
	// replaces them when (and if) the backend answers.
	st := store.New(be, redisAdap, q)
	st.SeedFromCache()
	prom.IncCounterVec(prom.SystemStore, prom.MetricStoreReloads, "startup")
	if err := st.Load(context.Background()); err != nil {
		logger.Warn("initial load failed, serving from cache", "error", err)
	}

	publisher := feed.NewPublisher(redisAdap, config.Get().FeedChannel)
	flusher := journal.NewFlusher(redisAdap, q, be, publisher)
	if err := flusher.Start(); err != nil {
		logger.Error("failed starting journal flusher", "error", err)
		return
	}

	subscriber := feed.NewSubscriber(redisAdap, config.Get().FeedChannel, st)
	subscriber.Start()

	// services
	transactionService := services.NewTransactionService(st)
	orderService := services.NewOrderService(st)
	quoteService := services.NewQuoteService(st)
	catalogService := services.NewCatalogService(st)
	customerService := services.NewCustomerService(st)
	reportService := services.NewReportService(st)
	syncService := services.NewSyncService(st)
	authService := services.NewAuthService(be, redisAdap, config.Get().SessionTTL)

	// v1 handlers
	guard := handlers.RequireSession(authService)
	g := s.Router.Group("/api/v1")
	handlers.RegisterAuthRoutes(g, handlers.NewAuthHandler(authService))
	handlers.RegisterTransactionRoutes(g, handlers.NewTransactionHandler(transactionService), guard)
	handlers.RegisterOrderRoutes(g, handlers.NewOrderHandler(orderService), guard)
	handlers.RegisterQuoteRoutes(g, handlers.NewQuoteHandler(quoteService), guard)
	handlers.RegisterCatalogRoutes(g, handlers.NewCatalogHandler(catalogService), guard)
	handlers.RegisterCustomerRoutes(g, handlers.NewCustomerHandler(customerService), guard)
	handlers.RegisterReportRoutes(g, handlers.NewReportHandler(reportService), guard)
	handlers.RegisterSyncRoutes(g, handlers.NewSyncHandler(syncService), guard)
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(nil))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting http server", "addr", config.Get().HttpListenAddr, "version", version)
		if err := s.ListenAndServe(config.Get().HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	subscriber.Stop()
	flusher.Stop()
	s.Shutdown()
}

func selectBackend() (backend.Backend, error) {
	if config.Get().Backend == "rest" {
		logger.Info("using remote table-store backend", "url", config.Get().RemoteStoreURL)
		return backend.NewRest(config.Get().RemoteStoreURL, config.Get().RemoteStoreTimeout), nil
	}

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := config.Get().AppEnv == "dev"
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		return nil, err
	}
	return backend.NewPG(db), nil
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
