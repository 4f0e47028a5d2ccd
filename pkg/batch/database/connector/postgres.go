package connector

import (
	"database/sql"

	_ "github.com/lib/pq" // PostgreSQL driver

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// postgresConnector establishes connections to PostgreSQL databases.
type postgresConnector struct{}

func (c *postgresConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module, "failed to open PostgreSQL connection", err)
	}

	applyPool(db, cfg.ConnectionPool)
	logger.Debugf("opened PostgreSQL connection to %s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	return db, nil
}

func init() {
	RegisterConnector("postgres", &postgresConnector{})
}
