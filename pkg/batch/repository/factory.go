package repository

import (
	"context"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	database "github.com/tigerroll/simplebatch/pkg/batch/database"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// NewReportRepositoryFromConfig builds the repository selected by the
// configuration. An empty database type yields the in-memory
// repository, any other type opens the database and applies the schema
// migrations first.
func NewReportRepositoryFromConfig(ctx context.Context, cfg *config.Config) (ReportRepository, error) {
	if cfg.Database.Type == "" {
		logger.Debugf("no database configured, using in-memory report repository")
		return NewInMemoryReportRepository(), nil
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, cfg.Database.Type); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debugf("using %s report repository", cfg.Database.Type)
	return NewSQLReportRepository(db, cfg.Database.Type), nil
}
