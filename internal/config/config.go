package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/logger"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every env-sourced setting. Only this struct may be used to
// read configuration; no direct env access anywhere else.
type Config struct {
	AppEnv              string `env:"APP_ENV" default:"dev"`
	AppName             string `env:"APP_NAME" default:"jpforro"`
	AppDebug            bool   `env:"APP_DEBUG" default:"1"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI"`

	HttpListenAddr         string `env:"HTTP_LISTEN_ADDR" validation:"mustExists"`
	HttpServerReadTimeout  int    `env:"HTTP_SERVER_READ_TIMEOUT"`
	HttpServerWriteTimeout int    `env:"HTTP_SERVER_WRITE_TIMEOUT"`
	HttpCORSAllowOrigin    string `env:"HTTP_CORS_ALLOW_ORIGIN" default:"*"`

	// Backend selects where records are persisted: "pg" talks to Postgres
	// directly, "rest" talks to a remote table-store API.
	Backend string `env:"BACKEND" default:"pg"`

	RemoteStoreURL     string        `env:"REMOTE_STORE_URL"`
	RemoteStoreTimeout time.Duration `env:"REMOTE_STORE_TIMEOUT" default:"5s"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE"`

	LogLevel []string `env:"LOG_LEVEL"`

	JournalName              string        `env:"JOURNAL_NAME" default:"persist-journal"`
	JournalConsumerGroup     string        `env:"JOURNAL_CONSUMER_GROUP" default:"flushers"`
	JournalConsumerName      string        `env:"JOURNAL_CONSUMER_NAME"`
	JournalMaxRetries        int           `env:"JOURNAL_MAX_RETRIES" default:"5"`
	JournalVisibilityTimeout time.Duration `env:"JOURNAL_VISIBILITY_TIMEOUT" default:"30s"`
	JournalPollInterval      time.Duration `env:"JOURNAL_POLL_INTERVAL" default:"1s"`
	JournalBatchSize         int64         `env:"JOURNAL_BATCH_SIZE" default:"20"`
	JournalMaxLen            int64         `env:"JOURNAL_MAX_LEN"`
	JournalEnableDLQ         bool          `env:"JOURNAL_ENABLE_DLQ" default:"1"`

	FeedChannel string `env:"FEED_CHANNEL" default:"table-changes"`

	SessionTTL time.Duration `env:"SESSION_TTL" default:"720h"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)

	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
