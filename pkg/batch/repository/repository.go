package repository

import (
	"context"
	"errors"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

const module = "repository"

// ErrReportNotFound is returned when no report matches the lookup key.
var ErrReportNotFound = errors.New("job report not found")

// ReportRepository persists job reports and serves them back for later
// inspection. Implementations must be safe for concurrent use.
type ReportRepository interface {
	// SaveReport stores one finished run. Reports are keyed by their
	// execution ID, saving the same execution twice is an error.
	SaveReport(ctx context.Context, report *core.JobReport) error
	// FindReportByID returns the report of one execution, or
	// ErrReportNotFound when the execution is unknown.
	FindReportByID(ctx context.Context, executionID string) (*core.JobReport, error)
	// FindReportsByJobName returns stored reports of a job, most
	// recently started first. A limit of 0 returns all of them.
	FindReportsByJobName(ctx context.Context, jobName string, limit int) ([]*core.JobReport, error)
	// Close releases the underlying store.
	Close() error
}
