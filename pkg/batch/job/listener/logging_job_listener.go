package listener

import (
	"context"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// LoggingJobListener logs the job lifecycle: one line when a run starts
// and one line with the outcome when it ends.
type LoggingJobListener struct{}

// NewLoggingJobListener creates a new LoggingJobListener.
func NewLoggingJobListener() *LoggingJobListener {
	return &LoggingJobListener{}
}

func (l *LoggingJobListener) BeforeJobStart(ctx context.Context, parameters core.JobParameters) {
	logger.Infof("starting job '%s'", parameters.Name)
}

func (l *LoggingJobListener) AfterJobEnd(ctx context.Context, report *core.JobReport) {
	switch report.Status {
	case core.JobStatusFailed:
		logger.Errorf("%s: %v", report, report.LastError)
	case core.JobStatusAborted:
		logger.Warnf("%s", report)
	default:
		logger.Infof("%s in %s", report, report.Metrics.Duration())
	}
}

var _ core.JobListener = (*LoggingJobListener)(nil)
