package initializer_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	initializer "github.com/tigerroll/simplebatch/pkg/batch/initializer"
	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	definition "github.com/tigerroll/simplebatch/pkg/batch/job/definition"
	repository "github.com/tigerroll/simplebatch/pkg/batch/repository"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const embeddedConfig = `
batch:
  default_batch_size: 10
  default_error_threshold: -1
system:
  timezone: UTC
  logging:
    level: INFO
`

func TestInitializeBuildsWorkingFactory(t *testing.T) {
	bi := initializer.NewBatchInitializer([]byte(embeddedConfig))
	jobFactory, err := bi.Initialize(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bi.Close() })

	require.NotNil(t, bi.Config)
	assert.Equal(t, 10, bi.Config.Batch.DefaultBatchSize)
	require.NotNil(t, bi.Repository)
	require.NotNil(t, bi.Registry)
	assert.Same(t, jobFactory, bi.JobFactory)
}

func TestInitializedFactoryRunsBuiltinPipeline(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	output := filepath.Join(dir, "output.txt")
	require.NoError(t, os.WriteFile(input, []byte("id,amount\n1,100\n2,250\n"), 0o644))

	bi := initializer.NewBatchInitializer([]byte(embeddedConfig))
	jobFactory, err := bi.Initialize(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bi.Close() })

	def, err := definition.Parse([]byte(fmt.Sprintf(`
name: copy-transactions
batch-size: 1
reader:
  ref: csvReader
  properties:
    path: %s
    skip-header: "true"
processor:
  ref: csvMarshaller
writer:
  ref: flatFileWriter
  properties:
    path: %s
listeners:
  - ref: loggingJobListener
  - ref: persistenceListener
`, input, output)))
	require.NoError(t, err)

	job, err := jobFactory.CreateJob(def)
	require.NoError(t, err)

	report := job.Execute(ctx)
	assert.Equal(t, core.JobStatusCompleted, report.Status)
	assert.Equal(t, int64(2), report.Metrics.ReadCount)
	assert.Equal(t, int64(2), report.Metrics.WriteCount)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "1,100\n2,250\n", string(content))

	saved, err := bi.Repository.FindReportByID(ctx, report.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, saved.Status)
	assert.Equal(t, "copy-transactions", saved.JobName)
}

func TestInitializeWithSqliteRepository(t *testing.T) {
	cfgYaml := fmt.Sprintf("database:\n  type: sqlite\n  path: %s\n",
		filepath.Join(t.TempDir(), "reports.db"))

	bi := initializer.NewBatchInitializer([]byte(cfgYaml))
	_, err := bi.Initialize(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bi.Close() })

	_, ok := bi.Repository.(*repository.SQLReportRepository)
	assert.True(t, ok, "a configured database selects the SQL repository")
}

func TestInitializeRejectsMalformedConfig(t *testing.T) {
	bi := initializer.NewBatchInitializer([]byte("batch: [broken"))
	_, err := bi.Initialize(context.Background())
	require.Error(t, err)
	assert.Equal(t, exception.KindConfiguration, exception.KindOf(err))
}

func TestCloseWithoutInitialize(t *testing.T) {
	bi := initializer.NewBatchInitializer([]byte(embeddedConfig))
	assert.NoError(t, bi.Close())
}
