// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	NLU      NLUConfig               `mapstructure:"nlu"`
	Rules    RulesConfig             `mapstructure:"rules"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
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
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Domain Configuration Sections ---

// NLUConfig holds settings for the farmer text pipeline.
type NLUConfig struct {
	DefaultLanguage  string          `mapstructure:"default_language"`
	MaxInputRunes    int             `mapstructure:"max_input_runes"`
	PatternThreshold float64         `mapstructure:"pattern_threshold"`
	CacheEnabled     bool            `mapstructure:"cache_enabled"`
	CacheTTL         int             `mapstructure:"cache_ttl"` // seconds
	Remote           RemoteNLUConfig `mapstructure:"remote"`
}

// RemoteNLUConfig configures the optional external intent API. An empty
// BaseURL disables it.
type RemoteNLUConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
	// MinConfidence declines remote answers at or below this confidence so
	// the local processor answers instead. Zero accepts any answer.
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// Enabled reports whether a remote endpoint is configured.
func (r RemoteNLUConfig) Enabled() bool {
	return r.BaseURL != ""
}

// RulesConfig selects the rule layers registered at startup.
type RulesConfig struct {
	IncludeBuiltins  bool   `mapstructure:"include_builtins"`
	DefinitionsFile  string `mapstructure:"definitions_file"`
	LoadFromDatabase bool   `mapstructure:"load_from_database"`
	// OrderByPriority evaluates rules by ascending priority instead of
	// registration order.
	OrderByPriority bool `mapstructure:"order_by_priority"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the health/metrics server settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}
