package database

import (
	"context"
	"database/sql"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	connector "github.com/tigerroll/simplebatch/pkg/batch/database/connector"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

const module = "database"

// Open establishes a connection for the configured database type and
// verifies it with a ping. The caller owns the returned handle.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := connector.GetSQLDB(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, exception.NewBatchError(exception.KindPersistence, module, "failed to ping "+cfg.Type+" database", err)
	}

	logger.Debugf("verified %s database connection", cfg.Type)
	return db, nil
}
