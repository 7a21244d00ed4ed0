// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Store         StoreConfig             `mapstructure:"store"`
	Engine        EngineConfig            `mapstructure:"engine"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Metrics       MetricsConfig           `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	DeployDir      string `mapstructure:"deploy_dir"`      // deploy *.bpmn from here on start
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	SQLite        SQLiteConfig        `mapstructure:"sqlite"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN renders the lib/pq key=value connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// SQLiteConfig points at a local post archive exported by the collector.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	URL        string   `mapstructure:"url"` // single node; used when addresses is empty
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	PostsIndex string   `mapstructure:"posts_index"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

// Store drivers for the post corpus.
const (
	StoreDriverPostgres      = "postgres"
	StoreDriverSQLite        = "sqlite"
	StoreDriverElasticsearch = "elasticsearch"
)

// StoreConfig selects where historical posts are read from.
type StoreConfig struct {
	Driver           string `mapstructure:"driver"`
	ExcludeGiveaways bool   `mapstructure:"exclude_giveaways"`
	DedupePerAccount bool   `mapstructure:"dedupe_per_account"`
}

// EngineConfig tunes calibration, scoring and the model cache.
type EngineConfig struct {
	WeightTablePath       string  `mapstructure:"weight_table_path"`
	MinSamples            int     `mapstructure:"min_samples"`
	SignificanceThreshold float64 `mapstructure:"significance_threshold"`
	BatchConcurrency      int     `mapstructure:"batch_concurrency"`
	CacheTTL              int     `mapstructure:"cache_ttl"` // seconds
	DefaultScope          string  `mapstructure:"default_scope"`
	Outcome               string  `mapstructure:"outcome"`
}

// Calibration outcomes.
const (
	OutcomeAlgorithmicValue = "algorithmic_value"
	OutcomeEngagementRate   = "engagement_rate"
)

// CacheTTLDuration returns the cache TTL as a duration.
func (e EngineConfig) CacheTTLDuration() time.Duration {
	return time.Duration(e.CacheTTL) * time.Second
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// NotificationConfig holds settings for calibration events.
type NotificationConfig struct {
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
		Region   string `mapstructure:"region"`
	} `mapstructure:"sns"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
