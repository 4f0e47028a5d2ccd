package connector

import (
	"database/sql"

	_ "github.com/lib/pq" // Redshift speaks the PostgreSQL wire protocol

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// redshiftConnector establishes connections to Amazon Redshift clusters
// through the pq driver.
type redshiftConnector struct{}

func (c *redshiftConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module, "failed to open Redshift connection", err)
	}

	applyPool(db, cfg.ConnectionPool)
	logger.Debugf("opened Redshift connection to %s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	return db, nil
}

func init() {
	RegisterConnector("redshift", &redshiftConnector{})
}
