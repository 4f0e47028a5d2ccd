package connector

import (
	"database/sql"

	gosnowflake "github.com/snowflakedb/gosnowflake"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// snowflakeConnector establishes connections to Snowflake warehouses.
// The DSN is built by the gosnowflake driver itself rather than by
// DatabaseConfig.ConnectionString.
type snowflakeConnector struct{}

func (c *snowflakeConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	sfCfg := &gosnowflake.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Warehouse,
		Role:      cfg.Role,
	}
	dsn, err := gosnowflake.DSN(sfCfg)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module, "failed to build Snowflake DSN", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module, "failed to open Snowflake connection", err)
	}

	applyPool(db, cfg.ConnectionPool)
	logger.Debugf("opened Snowflake connection to account %s, database %s", cfg.Account, cfg.Database)
	return db, nil
}

func init() {
	RegisterConnector("snowflake", &snowflakeConnector{})
}
