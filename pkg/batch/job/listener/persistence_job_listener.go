package listener

import (
	"context"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	repository "github.com/tigerroll/simplebatch/pkg/batch/repository"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// PersistenceJobListener saves the final report of every run to a report
// repository. Persistence failures are logged and never change the run
// outcome: the report the caller gets is authoritative either way.
type PersistenceJobListener struct {
	core.NoopJobListener
	repo repository.ReportRepository
}

// NewPersistenceJobListener creates a listener saving reports to repo.
func NewPersistenceJobListener(repo repository.ReportRepository) *PersistenceJobListener {
	return &PersistenceJobListener{repo: repo}
}

func (l *PersistenceJobListener) AfterJobEnd(ctx context.Context, report *core.JobReport) {
	if err := l.repo.SaveReport(ctx, report); err != nil {
		logger.Errorf("failed to persist report of job '%s' (execution %s): %v",
			report.JobName, report.ExecutionID, err)
		return
	}
	logger.Debugf("persisted report of job '%s' (execution %s)", report.JobName, report.ExecutionID)
}

var _ core.JobListener = (*PersistenceJobListener)(nil)
