package runner

import (
	"context"

	"golang.org/x/sync/errgroup"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// JobExecutor runs independent jobs concurrently with a bounded degree of
// parallelism. Each job stays single-threaded internally; the executor
// only fans out across jobs.
type JobExecutor struct {
	maxConcurrent int
}

// NewJobExecutor creates an executor running at most maxConcurrent jobs at
// a time. Values below 1 are treated as 1.
func NewJobExecutor(maxConcurrent int) *JobExecutor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &JobExecutor{maxConcurrent: maxConcurrent}
}

// Execute runs every job to completion and returns the reports in
// submission order. Jobs never fail the group: a failed job surfaces as a
// FAILED report, and a cancelled context surfaces as ABORTED reports.
func (e *JobExecutor) Execute(ctx context.Context, jobs ...core.Job) []*core.JobReport {
	reports := make([]*core.JobReport, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			logger.Debugf("executor: running job '%s'", job.Name())
			reports[i] = job.Execute(gctx)
			return nil
		})
	}
	_ = g.Wait()
	return reports
}
