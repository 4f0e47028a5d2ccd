package database

import (
	"database/sql"
	"embed"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/snowflake"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded schema migrations to db. A database
// that is already up to date is not an error.
func RunMigrations(db *sql.DB, dbType string) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return exception.NewBatchError(exception.KindPersistence, "migration", "failed to load embedded migrations", err)
	}

	driver, err := migrationDriver(db, dbType)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, dbType, driver)
	if err != nil {
		return exception.NewBatchError(exception.KindPersistence, "migration", "failed to create migration instance", err)
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			logger.Debugf("database schema is up to date")
			return nil
		}
		return exception.NewBatchError(exception.KindPersistence, "migration", "failed to apply migrations", err)
	}

	logger.Infof("database migrations applied")
	return nil
}

// migrationDriver picks the migrate driver matching the database type.
func migrationDriver(db *sql.DB, dbType string) (migratedb.Driver, error) {
	switch strings.ToLower(dbType) {
	case "mysql":
		driver, err := mysql.WithInstance(db, &mysql.Config{MigrationsTable: "batch_schema_migrations"})
		return driver, wrapDriverErr(err)
	case "postgres", "redshift":
		driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "batch_schema_migrations"})
		return driver, wrapDriverErr(err)
	case "sqlite":
		driver, err := sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: "batch_schema_migrations"})
		return driver, wrapDriverErr(err)
	case "snowflake":
		driver, err := snowflake.WithInstance(db, &snowflake.Config{MigrationsTable: "batch_schema_migrations"})
		return driver, wrapDriverErr(err)
	default:
		return nil, exception.NewBatchErrorf(exception.KindConfiguration, "migration", "no migration driver for database type '%s'", dbType)
	}
}

func wrapDriverErr(err error) error {
	if err == nil {
		return nil
	}
	return exception.NewBatchError(exception.KindPersistence, "migration", "failed to create migration driver", err)
}
