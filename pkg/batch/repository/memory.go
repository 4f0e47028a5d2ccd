package repository

import (
	"context"
	"sort"
	"sync"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// InMemoryReportRepository keeps reports in process memory. It backs
// runs without a configured database and the test suites.
type InMemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[string]*core.JobReport
}

// NewInMemoryReportRepository creates an empty in-memory repository.
func NewInMemoryReportRepository() *InMemoryReportRepository {
	return &InMemoryReportRepository{reports: make(map[string]*core.JobReport)}
}

func (r *InMemoryReportRepository) SaveReport(ctx context.Context, report *core.JobReport) error {
	if report == nil {
		return exception.NewBatchErrorf(exception.KindPersistence, module, "cannot save a nil report")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reports[report.ExecutionID]; exists {
		return exception.NewBatchErrorf(exception.KindPersistence, module, "report for execution %s already saved", report.ExecutionID)
	}
	r.reports[report.ExecutionID] = snapshotReport(report)
	logger.Debugf("saved report for execution %s", report.ExecutionID)
	return nil
}

func (r *InMemoryReportRepository) FindReportByID(ctx context.Context, executionID string) (*core.JobReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[executionID]
	if !ok {
		return nil, ErrReportNotFound
	}
	return snapshotReport(report), nil
}

func (r *InMemoryReportRepository) FindReportsByJobName(ctx context.Context, jobName string, limit int) ([]*core.JobReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reports := make([]*core.JobReport, 0)
	for _, report := range r.reports {
		if report.JobName == jobName {
			reports = append(reports, snapshotReport(report))
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].Metrics.StartTime.Equal(reports[j].Metrics.StartTime) {
			return reports[i].Metrics.StartTime.After(reports[j].Metrics.StartTime)
		}
		return reports[i].ExecutionID < reports[j].ExecutionID
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (r *InMemoryReportRepository) Close() error {
	return nil
}

// snapshotReport copies a report so the stored state stays decoupled
// from the engine's live pointer.
func snapshotReport(report *core.JobReport) *core.JobReport {
	copied := *report
	metrics := *report.Metrics
	copied.Metrics = &metrics
	info := make(map[string]string, len(report.SystemInfo))
	for k, v := range report.SystemInfo {
		info[k] = v
	}
	copied.SystemInfo = info
	return &copied
}

var _ ReportRepository = (*InMemoryReportRepository)(nil)
