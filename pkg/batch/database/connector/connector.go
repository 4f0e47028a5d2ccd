package connector

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
)

const module = "database"

// DBConnector establishes a connection to one database type.
type DBConnector interface {
	Connect(cfg config.DatabaseConfig) (*sql.DB, error)
}

// connectors holds the registered DBConnector implementations, keyed by
// lower-case type name.
var connectors = make(map[string]DBConnector)

// RegisterConnector registers a DBConnector under the given type name.
// A later registration for the same name wins.
func RegisterConnector(dbType string, connector DBConnector) {
	connectors[strings.ToLower(dbType)] = connector
}

// SupportedTypes returns the registered type names, sorted.
func SupportedTypes() []string {
	types := make([]string, 0, len(connectors))
	for t := range connectors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GetSQLDB opens a connection for the configured database type using the
// registered connector. The connection is not verified here, callers
// ping it with their own context.
func GetSQLDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	connector, ok := connectors[strings.ToLower(cfg.Type)]
	if !ok {
		return nil, exception.NewBatchErrorf(exception.KindConfiguration, module,
			"unsupported database type '%s' (supported: %s)", cfg.Type, strings.Join(SupportedTypes(), ", "))
	}
	return connector.Connect(cfg)
}

// applyPool applies the connection pool settings to db. Zero values keep
// the database/sql defaults.
func applyPool(db *sql.DB, pool config.ConnectionPoolConfig) {
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		db.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
}
