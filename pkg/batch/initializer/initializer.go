package initializer

import (
	"context"
	"errors"
	"fmt"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	factory "github.com/tigerroll/simplebatch/pkg/batch/job/factory"
	repository "github.com/tigerroll/simplebatch/pkg/batch/repository"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

const module = "initializer"

// BatchInitializer wires a batch application together: it loads the
// configuration, applies the log level, opens the report repository,
// registers the built-in components and builds the job factory.
// Applications add their own components to Registry before creating jobs.
type BatchInitializer struct {
	EmbeddedConfig config.EmbeddedConfig

	Config     *config.Config
	Repository repository.ReportRepository
	Registry   *factory.ComponentRegistry
	JobFactory *factory.JobFactory
}

// NewBatchInitializer creates an initializer for the given embedded
// configuration bytes.
func NewBatchInitializer(embedded config.EmbeddedConfig) *BatchInitializer {
	return &BatchInitializer{EmbeddedConfig: embedded}
}

// Initialize prepares the application and returns its job factory. The
// caller must Close the initializer when done with it.
func (bi *BatchInitializer) Initialize(ctx context.Context) (*factory.JobFactory, error) {
	cfg, err := config.NewBytesConfigLoader(bi.EmbeddedConfig).Load()
	if err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module,
			"failed to load configuration", err)
	}
	bi.Config = cfg

	if cfg.System.Logging.Level != "" {
		logger.SetLogLevel(cfg.System.Logging.Level)
		logger.Debugf("log level set to '%s'", cfg.System.Logging.Level)
	}

	repo, err := repository.NewReportRepositoryFromConfig(ctx, cfg)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module,
			"failed to initialize the report repository", err)
	}
	bi.Repository = repo

	registry := factory.NewComponentRegistry()
	if err := RegisterBuiltinComponents(registry, repo); err != nil {
		return nil, err
	}
	bi.Registry = registry

	bi.JobFactory = factory.NewJobFactory(cfg, registry)
	logger.Infof("batch application initialized")
	return bi.JobFactory, nil
}

// Close releases the resources held by the initializer.
func (bi *BatchInitializer) Close() error {
	var errs []error
	if bi.Repository != nil {
		if err := bi.Repository.Close(); err != nil {
			logger.Errorf("failed to close the report repository: %v", err)
			errs = append(errs, fmt.Errorf("close report repository: %w", err))
		} else {
			logger.Debugf("report repository closed")
		}
	}
	return errors.Join(errs...)
}
