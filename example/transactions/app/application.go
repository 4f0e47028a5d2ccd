package app

import (
	"context"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	initializer "github.com/tigerroll/simplebatch/pkg/batch/initializer"
	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	definition "github.com/tigerroll/simplebatch/pkg/batch/job/definition"
	factory "github.com/tigerroll/simplebatch/pkg/batch/job/factory"
	runner "github.com/tigerroll/simplebatch/pkg/batch/job/runner"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"

	apprepo "github.com/tigerroll/simplebatch/example/transactions/repository"
	appprocessor "github.com/tigerroll/simplebatch/example/transactions/step/processor"
	appwriter "github.com/tigerroll/simplebatch/example/transactions/step/writer"
)

// registerApplicationComponents adds the transaction-specific components
// to the registry so the job definition can refer to them by name.
func registerApplicationComponents(registry *factory.ComponentRegistry, repo *apprepo.TransactionRepository) error {
	if err := registry.RegisterProcessor("transactionParser", func(cfg *config.Config, properties map[string]string) (core.RecordProcessor, error) {
		return appprocessor.NewTransactionParser(), nil
	}); err != nil {
		return err
	}
	return registry.RegisterWriter("transactionWriter", func(cfg *config.Config, properties map[string]string) (core.RecordWriter, error) {
		return appwriter.NewTransactionWriter(repo), nil
	})
}

// RunApplication imports the transaction feed described by the embedded
// job definition and returns the process exit code. A non-empty
// inputPath overrides the input file named in the definition.
func RunApplication(ctx context.Context, envFilePath string, embeddedConfig, embeddedJob []byte, inputPath string) int {
	if envFilePath != "" {
		if err := config.LoadDotenv(envFilePath); err != nil {
			logger.Warnf("could not load env file '%s': %v", envFilePath, err)
		}
	}

	bi := initializer.NewBatchInitializer(embeddedConfig)
	jobFactory, err := bi.Initialize(ctx)
	if err != nil {
		logger.Errorf("failed to initialize the batch application: %v", err)
		return 1
	}
	defer func() {
		if closeErr := bi.Close(); closeErr != nil {
			logger.Errorf("failed to release batch resources: %v", closeErr)
		}
	}()

	repo, err := apprepo.NewTransactionRepository(ctx, bi.Config)
	if err != nil {
		logger.Errorf("failed to open the transaction store: %v", err)
		return 1
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Errorf("failed to close the transaction store: %v", closeErr)
		}
	}()

	if err := registerApplicationComponents(bi.Registry, repo); err != nil {
		logger.Errorf("failed to register application components: %v", err)
		return 1
	}

	def, err := definition.Parse(embeddedJob)
	if err != nil {
		logger.Errorf("failed to load the job definition: %v", err)
		return 1
	}
	if inputPath != "" {
		if def.Reader.Properties == nil {
			def.Reader.Properties = make(map[string]string)
		}
		def.Reader.Properties["path"] = inputPath
	}

	job, err := jobFactory.CreateJob(def)
	if err != nil {
		logger.Errorf("failed to assemble job '%s': %v", def.Name, err)
		return 1
	}

	reports := runner.NewJobExecutor(1).Execute(ctx, job)
	report := reports[0]

	if count, countErr := repo.Count(ctx); countErr != nil {
		logger.Warnf("could not count stored transactions: %v", countErr)
	} else {
		logger.Infof("transaction store now holds %d row(s)", count)
	}

	if report.Status != core.JobStatusCompleted {
		return 1
	}
	return 0
}
