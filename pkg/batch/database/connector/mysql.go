package connector

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// mysqlConnector establishes connections to MySQL databases.
type mysqlConnector struct{}

func (c *mysqlConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.ConnectionString())
	if err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module, "failed to open MySQL connection", err)
	}

	applyPool(db, cfg.ConnectionPool)
	logger.Debugf("opened MySQL connection to %s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	return db, nil
}

func init() {
	RegisterConnector("mysql", &mysqlConnector{})
}
