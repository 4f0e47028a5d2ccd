package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

const module = "config"

// ConfigLoader loads the application configuration from some source.
type ConfigLoader interface {
	Load() (*Config, error)
}

// BytesConfigLoader loads the configuration from an in-memory byte
// slice, typically embedded into the binary.
type BytesConfigLoader struct {
	data []byte
}

// NewBytesConfigLoader creates a loader over the given bytes.
func NewBytesConfigLoader(data []byte) *BytesConfigLoader {
	return &BytesConfigLoader{data: data}
}

// Load parses the embedded YAML and applies environment overrides.
func (l *BytesConfigLoader) Load() (*Config, error) {
	cfg := NewConfig()

	yamlCfg, err := loadYamlConfig(l.data)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module, "failed to parse YAML configuration", err)
	}

	cfg.Database = yamlCfg.Database
	cfg.Batch = yamlCfg.Batch
	cfg.System = yamlCfg.System

	loadEnvVars(cfg)

	return cfg, nil
}

// FileConfigLoader loads the configuration from a file on disk.
type FileConfigLoader struct {
	path string
}

// NewFileConfigLoader creates a loader for the given path.
func NewFileConfigLoader(path string) *FileConfigLoader {
	return &FileConfigLoader{path: path}
}

// Load reads the file and delegates to the bytes loader.
func (l *FileConfigLoader) Load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, exception.NewBatchErrorf(exception.KindConfiguration, module, "failed to read configuration file %s: %v", l.path, err)
	}
	return NewBytesConfigLoader(data).Load()
}

var (
	_ ConfigLoader = (*BytesConfigLoader)(nil)
	_ ConfigLoader = (*FileConfigLoader)(nil)
)

// LoadDotenv loads variables from a .env file into the process
// environment. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("no %s file found, skipping", path)
			return nil
		}
		return exception.NewBatchErrorf(exception.KindConfiguration, module, "failed to stat %s: %v", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return exception.NewBatchError(exception.KindConfiguration, module, "failed to load "+path, err)
	}
	logger.Debugf("loaded environment from %s", path)
	return nil
}

func loadYamlConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadEnvVars overwrites individual settings from the environment.
func loadEnvVars(cfg *Config) {
	// Database settings
	if dbType := os.Getenv("DATABASE_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPortStr := os.Getenv("DATABASE_PORT"); dbPortStr != "" {
		if dbPort, err := strconv.Atoi(dbPortStr); err == nil {
			cfg.Database.Port = dbPort
		} else {
			logger.Warnf("invalid DATABASE_PORT value '%s', keeping %d", dbPortStr, cfg.Database.Port)
		}
	}
	if dbName := os.Getenv("DATABASE_DATABASE"); dbName != "" {
		cfg.Database.Database = dbName
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DATABASE_PASSWORD"); dbPassword != "" {
		cfg.Database.Password = dbPassword
	}
	if dbSSLMode := os.Getenv("DATABASE_SSLMODE"); dbSSLMode != "" {
		cfg.Database.Sslmode = dbSSLMode
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if account := os.Getenv("DATABASE_ACCOUNT"); account != "" {
		cfg.Database.Account = account
	}
	if schema := os.Getenv("DATABASE_SCHEMA"); schema != "" {
		cfg.Database.Schema = schema
	}
	if warehouse := os.Getenv("DATABASE_WAREHOUSE"); warehouse != "" {
		cfg.Database.Warehouse = warehouse
	}
	if role := os.Getenv("DATABASE_ROLE"); role != "" {
		cfg.Database.Role = role
	}
	if maxOpenConnsStr := os.Getenv("DATABASE_MAX_OPEN_CONNS"); maxOpenConnsStr != "" {
		if maxOpenConns, err := strconv.Atoi(maxOpenConnsStr); err == nil {
			cfg.Database.ConnectionPool.MaxOpenConns = maxOpenConns
		} else {
			logger.Warnf("invalid DATABASE_MAX_OPEN_CONNS value '%s', keeping %d", maxOpenConnsStr, cfg.Database.ConnectionPool.MaxOpenConns)
		}
	}
	if maxIdleConnsStr := os.Getenv("DATABASE_MAX_IDLE_CONNS"); maxIdleConnsStr != "" {
		if maxIdleConns, err := strconv.Atoi(maxIdleConnsStr); err == nil {
			cfg.Database.ConnectionPool.MaxIdleConns = maxIdleConns
		} else {
			logger.Warnf("invalid DATABASE_MAX_IDLE_CONNS value '%s', keeping %d", maxIdleConnsStr, cfg.Database.ConnectionPool.MaxIdleConns)
		}
	}
	if connMaxLifetimeStr := os.Getenv("DATABASE_CONN_MAX_LIFETIME_SECONDS"); connMaxLifetimeStr != "" {
		if connMaxLifetime, err := strconv.Atoi(connMaxLifetimeStr); err == nil {
			cfg.Database.ConnectionPool.ConnMaxLifetimeSeconds = connMaxLifetime
		} else {
			logger.Warnf("invalid DATABASE_CONN_MAX_LIFETIME_SECONDS value '%s', keeping %d", connMaxLifetimeStr, cfg.Database.ConnectionPool.ConnMaxLifetimeSeconds)
		}
	}

	// Batch settings
	if jobName := os.Getenv("BATCH_JOB_NAME"); jobName != "" {
		cfg.Batch.JobName = jobName
	}
	if batchSizeStr := os.Getenv("BATCH_DEFAULT_BATCH_SIZE"); batchSizeStr != "" {
		if batchSize, err := strconv.Atoi(batchSizeStr); err == nil {
			cfg.Batch.DefaultBatchSize = batchSize
		} else {
			logger.Warnf("invalid BATCH_DEFAULT_BATCH_SIZE value '%s', keeping %d", batchSizeStr, cfg.Batch.DefaultBatchSize)
		}
	}
	if thresholdStr := os.Getenv("BATCH_DEFAULT_ERROR_THRESHOLD"); thresholdStr != "" {
		if threshold, err := strconv.ParseInt(thresholdStr, 10, 64); err == nil {
			cfg.Batch.DefaultErrorThreshold = threshold
		} else {
			logger.Warnf("invalid BATCH_DEFAULT_ERROR_THRESHOLD value '%s', keeping %d", thresholdStr, cfg.Batch.DefaultErrorThreshold)
		}
	}
	if monitoringStr := os.Getenv("BATCH_MONITORING"); monitoringStr != "" {
		switch strings.ToLower(monitoringStr) {
		case "true", "1", "yes":
			cfg.Batch.Monitoring = true
		case "false", "0", "no":
			cfg.Batch.Monitoring = false
		default:
			logger.Warnf("invalid BATCH_MONITORING value '%s', keeping %t", monitoringStr, cfg.Batch.Monitoring)
		}
	}

	// System settings
	if timezone := os.Getenv("SYSTEM_TIMEZONE"); timezone != "" {
		cfg.System.Timezone = timezone
	}
	if logLevel := os.Getenv("SYSTEM_LOGGING_LEVEL"); logLevel != "" {
		cfg.System.Logging.Level = logLevel
	}
}
