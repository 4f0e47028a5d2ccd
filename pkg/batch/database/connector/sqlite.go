package connector

import (
	"database/sql"

	_ "modernc.org/sqlite" // cgo-free SQLite driver

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// sqliteConnector establishes connections to SQLite databases, either
// file-backed or in-memory.
type sqliteConnector struct{}

func (c *sqliteConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.ConnectionString()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module, "failed to open sqlite database", err)
	}

	applyPool(db, cfg.ConnectionPool)
	if dsn == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	logger.Debugf("opened sqlite database at %s", dsn)
	return db, nil
}

func init() {
	RegisterConnector("sqlite", &sqliteConnector{})
}
