package config

import (
	"fmt"
	"strings"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// EmbeddedConfig holds configuration file contents compiled into the
// binary, passed in from the application entry point.
type EmbeddedConfig []byte

// ConnectionPoolConfig holds database connection pool settings. Zero
// values keep the database/sql defaults.
type ConnectionPoolConfig struct {
	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `yaml:"conn_max_lifetime_seconds"`
}

// DatabaseConfig selects and parameterizes the report store. An empty
// Type disables database persistence.
type DatabaseConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Sslmode  string `yaml:"sslmode"`
	// Path is the database file for file-backed databases such as
	// sqlite. ":memory:" selects an in-process database.
	Path string `yaml:"path"`
	// Snowflake-specific settings.
	Account   string `yaml:"account"`
	Schema    string `yaml:"schema"`
	Warehouse string `yaml:"warehouse"`
	Role      string `yaml:"role"`

	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

// ConnectionString builds the driver DSN for the configured database
// type. Snowflake DSNs are built by the snowflake connector and are not
// covered here.
func (c DatabaseConfig) ConnectionString() string {
	switch strings.ToLower(c.Type) {
	case "postgres", "redshift":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.Database, c.Sslmode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			c.User, c.Password, c.Host, c.Port, c.Database)
	case "sqlite":
		if c.Path == "" {
			return ":memory:"
		}
		return c.Path
	default:
		return ""
	}
}

// BatchConfig holds the engine defaults applied to jobs that do not
// configure their own values.
type BatchConfig struct {
	JobName          string `yaml:"job_name"`
	DefaultBatchSize int    `yaml:"default_batch_size"`
	// DefaultErrorThreshold tolerates that many per-record processing
	// failures before a run fails. A negative value means unlimited.
	DefaultErrorThreshold int64 `yaml:"default_error_threshold"`
	Monitoring            bool  `yaml:"monitoring"`
}

// JobParameters maps the batch defaults to an engine parameter set.
func (c BatchConfig) JobParameters() core.JobParameters {
	p := core.NewJobParameters()
	if c.JobName != "" {
		p.Name = c.JobName
	}
	if c.DefaultBatchSize > 0 {
		p.BatchSize = c.DefaultBatchSize
	}
	if c.DefaultErrorThreshold >= 0 {
		p.ErrorThreshold = c.DefaultErrorThreshold
	}
	p.Monitoring = c.Monitoring
	return p
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

type SystemConfig struct {
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Batch    BatchConfig    `yaml:"batch"`
	System   SystemConfig   `yaml:"system"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		System: SystemConfig{
			Timezone: "UTC",
			Logging:  LoggingConfig{Level: "INFO"},
		},
		Batch: BatchConfig{
			DefaultBatchSize:      core.DefaultBatchSize,
			DefaultErrorThreshold: -1,
		},
	}
}
