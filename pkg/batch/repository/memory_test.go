package repository_test

import (
	"context"
	"testing"
	"time"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	repository "github.com/tigerroll/simplebatch/pkg/batch/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(executionID, jobName string, start time.Time) *core.JobReport {
	parameters := core.NewJobParameters()
	parameters.Name = jobName
	parameters.BatchSize = 10
	parameters.ErrorThreshold = 2

	report := core.NewJobReport(executionID, parameters)
	report.SetStatus(core.JobStatusCompleted)
	report.Metrics.SetStartTime(start)
	report.Metrics.SetEndTime(start.Add(time.Minute))
	report.Metrics.ReadCount = 10
	report.Metrics.WriteCount = 8
	report.Metrics.FilterCount = 1
	report.Metrics.ErrorCount = 1
	return report
}

func TestInMemoryRepositoryRoundTrip(t *testing.T) {
	repo := repository.NewInMemoryReportRepository()
	ctx := context.Background()
	report := sampleReport("execution-1", "transactions", time.Now())

	require.NoError(t, repo.SaveReport(ctx, report))

	found, err := repo.FindReportByID(ctx, "execution-1")
	require.NoError(t, err)
	assert.Equal(t, report.ExecutionID, found.ExecutionID)
	assert.Equal(t, report.JobName, found.JobName)
	assert.Equal(t, report.Status, found.Status)
	assert.Equal(t, report.Parameters, found.Parameters)
	assert.Equal(t, int64(10), found.Metrics.ReadCount)
	assert.Equal(t, int64(8), found.Metrics.WriteCount)
}

func TestInMemoryRepositoryNotFound(t *testing.T) {
	repo := repository.NewInMemoryReportRepository()

	_, err := repo.FindReportByID(context.Background(), "unknown")
	assert.ErrorIs(t, err, repository.ErrReportNotFound)
}

func TestInMemoryRepositoryRejectsDuplicateExecution(t *testing.T) {
	repo := repository.NewInMemoryReportRepository()
	ctx := context.Background()
	report := sampleReport("execution-1", "transactions", time.Now())

	require.NoError(t, repo.SaveReport(ctx, report))
	assert.Error(t, repo.SaveReport(ctx, report))
}

func TestInMemoryRepositoryRejectsNilReport(t *testing.T) {
	repo := repository.NewInMemoryReportRepository()
	assert.Error(t, repo.SaveReport(context.Background(), nil))
}

func TestInMemoryRepositoryFindByJobName(t *testing.T) {
	repo := repository.NewInMemoryReportRepository()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveReport(ctx, sampleReport("execution-1", "transactions", base)))
	require.NoError(t, repo.SaveReport(ctx, sampleReport("execution-2", "transactions", base.Add(time.Hour))))
	require.NoError(t, repo.SaveReport(ctx, sampleReport("execution-3", "other", base)))

	reports, err := repo.FindReportsByJobName(ctx, "transactions", 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	// most recently started first
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

func TestInMemoryRepositoryStoresSnapshots(t *testing.T) {
	repo := repository.NewInMemoryReportRepository()
	ctx := context.Background()
	report := sampleReport("execution-1", "transactions", time.Now())

	require.NoError(t, repo.SaveReport(ctx, report))

	// later mutations of the live report must not leak into the store
	report.SetStatus(core.JobStatusFailed)
	report.Metrics.IncrementReadCount()
	report.SystemInfo["hostname"] = "mutated"

	found, err := repo.FindReportByID(ctx, "execution-1")
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, found.Status)
	assert.Equal(t, int64(10), found.Metrics.ReadCount)
	assert.NotEqual(t, "mutated", found.SystemInfo["hostname"])
}

func TestInMemoryRepositoryClose(t *testing.T) {
	assert.NoError(t, repository.NewInMemoryReportRepository().Close())
}
