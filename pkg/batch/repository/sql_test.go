package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	database "github.com/tigerroll/simplebatch/pkg/batch/database"
	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	repository "github.com/tigerroll/simplebatch/pkg/batch/repository"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openSQLiteRepository spins up a migrated in-memory SQLite database.
func openSQLiteRepository(t *testing.T) *repository.SQLReportRepository {
	t.Helper()
	ctx := context.Background()
	cfg := config.DatabaseConfig{Type: "sqlite"}

	db, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, "sqlite"))

	repo := repository.NewSQLReportRepository(db, "sqlite")
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLRepositoryRoundTrip(t *testing.T) {
	repo := openSQLiteRepository(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	report := sampleReport("execution-1", "transactions", start)

	require.NoError(t, repo.SaveReport(ctx, report))

	found, err := repo.FindReportByID(ctx, "execution-1")
	require.NoError(t, err)
	assert.Equal(t, "execution-1", found.ExecutionID)
	assert.Equal(t, "transactions", found.JobName)
	assert.Equal(t, core.JobStatusCompleted, found.Status)
	assert.Equal(t, report.Parameters, found.Parameters)
	assert.Equal(t, int64(10), found.Metrics.ReadCount)
	assert.Equal(t, int64(8), found.Metrics.WriteCount)
	assert.Equal(t, int64(1), found.Metrics.FilterCount)
	assert.Equal(t, int64(1), found.Metrics.ErrorCount)
	assert.WithinDuration(t, start, found.Metrics.StartTime, time.Second)
	assert.WithinDuration(t, start.Add(time.Minute), found.Metrics.EndTime, time.Second)
	assert.Equal(t, report.SystemInfo, found.SystemInfo)
	assert.NoError(t, found.LastError)
}

func TestSQLRepositoryRestoresLastError(t *testing.T) {
	repo := openSQLiteRepository(t)
	ctx := context.Background()
	report := sampleReport("execution-1", "transactions", time.Now())
	report.SetStatus(core.JobStatusFailed)
	report.SetLastError(exception.NewBatchError(exception.KindWriteFailure, "writer",
		"unable to write records", errors.New("sink unavailable")))

	require.NoError(t, repo.SaveReport(ctx, report))

	found, err := repo.FindReportByID(ctx, "execution-1")
	require.NoError(t, err)
	require.Error(t, found.LastError)
	assert.Equal(t, exception.KindWriteFailure, exception.KindOf(found.LastError))
	assert.Contains(t, found.LastError.Error(), "unable to write records")
	assert.Contains(t, found.LastError.Error(), "sink unavailable")
}

func TestSQLRepositoryNotFound(t *testing.T) {
	repo := openSQLiteRepository(t)

	_, err := repo.FindReportByID(context.Background(), "unknown")
	assert.ErrorIs(t, err, repository.ErrReportNotFound)
}

func TestSQLRepositoryRejectsDuplicateExecution(t *testing.T) {
	repo := openSQLiteRepository(t)
	ctx := context.Background()
	report := sampleReport("execution-1", "transactions", time.Now())

	require.NoError(t, repo.SaveReport(ctx, report))
	err := repo.SaveReport(ctx, report)
	require.Error(t, err)
	assert.Equal(t, exception.KindPersistence, exception.KindOf(err))
}

func TestSQLRepositoryFindByJobName(t *testing.T) {
	repo := openSQLiteRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveReport(ctx, sampleReport("execution-1", "transactions", base)))
	require.NoError(t, repo.SaveReport(ctx, sampleReport("execution-2", "transactions", base.Add(time.Hour))))
	require.NoError(t, repo.SaveReport(ctx, sampleReport("execution-3", "other", base)))

	reports, err := repo.FindReportsByJobName(ctx, "transactions", 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "execution-2", reports[0].ExecutionID)
	assert.Equal(t, "execution-1", reports[1].ExecutionID)

	latest, err := repo.FindReportsByJobName(ctx, "transactions", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "execution-2", latest[0].ExecutionID)

	none, err := repo.FindReportsByJobName(ctx, "absent", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, config.DatabaseConfig{Type: "sqlite"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, database.RunMigrations(db, "sqlite"))
	// a second run sees no pending change
	require.NoError(t, database.RunMigrations(db, "sqlite"))
}

func TestNewReportRepositoryFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("empty type selects in-memory", func(t *testing.T) {
		repo, err := repository.NewReportRepositoryFromConfig(ctx, config.NewConfig())
		require.NoError(t, err)
		defer repo.Close()

		_, ok := repo.(*repository.InMemoryReportRepository)
		assert.True(t, ok)
	})

	t.Run("sqlite opens and migrates", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Database.Type = "sqlite"

		repo, err := repository.NewReportRepositoryFromConfig(ctx, cfg)
		require.NoError(t, err)
		defer repo.Close()

		report := sampleReport("execution-1", "transactions", time.Now())
		require.NoError(t, repo.SaveReport(ctx, report))
		found, err := repo.FindReportByID(ctx, "execution-1")
		require.NoError(t, err)
		assert.Equal(t, "transactions", found.JobName)
	})

	t.Run("unknown type fails", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Database.Type = "oracle"

		_, err := repository.NewReportRepositoryFromConfig(ctx, cfg)
		require.Error(t, err)
		assert.Equal(t, exception.KindConfiguration, exception.KindOf(err))
	})
}
