package runner

import (
	"context"
	"strconv"
	"strings"
	"time"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// BatchJob drives one read-process-write run: it pulls records from the
// reader, pipes each through the processor, accumulates survivors into
// fixed-size batches and flushes every non-empty batch to the writer.
//
// A BatchJob owns its report, metrics and tracker for exactly one run and
// must not be reused; build a fresh instance per run through JobBuilder.
// Execution is single-threaded on the calling goroutine. Cancellation is
// cooperative: the context is checked once per batch cycle, so an
// in-flight batch is finished and written before the run stops.
type BatchJob struct {
	name      string
	reader    core.RecordReader
	processor core.RecordProcessor
	writer    core.RecordWriter

	jobListener      core.JobListener
	batchListener    core.BatchListener
	readerListener   core.RecordReaderListener
	writerListener   core.RecordWriterListener
	pipelineListener core.PipelineListener

	monitor    core.JobMonitor
	parameters core.JobParameters
	report     *core.JobReport
	metrics    *core.JobMetrics
	tracker    *core.RecordTracker

	executed bool
}

var _ core.Job = (*BatchJob)(nil)

// Name returns the job name.
func (j *BatchJob) Name() string {
	return j.name
}

// Execute runs the job to completion and returns its report. It never
// returns an error: open/read/write failures, threshold escalation and
// cancellation all end up as the report's status and last error.
func (j *BatchJob) Execute(ctx context.Context) *core.JobReport {
	if j.executed {
		logger.Warnf("job '%s': already executed, a fresh instance is required per run", j.name)
		return j.report
	}
	j.executed = true

	j.start(ctx)
	runErr := j.run(ctx)
	if runErr != nil {
		logger.Errorf("job '%s' failed: %v", j.name, runErr)
		j.report.SetLastError(runErr)
	}
	j.closeReader(ctx)
	j.closeWriter(ctx)
	j.finalize(ctx, runErr)
	return j.report
}

func (j *BatchJob) start(ctx context.Context) {
	j.setStatus(ctx, core.JobStatusStarting)
	j.jobListener.BeforeJobStart(ctx, j.parameters)
	j.metrics.SetStartTime(time.Now())
	logger.Infof("job '%s' (execution %s): batch size: %d / error threshold: %s / monitoring: %t",
		j.name, j.report.ExecutionID, j.parameters.BatchSize,
		formatErrorThreshold(j.parameters.ErrorThreshold), j.parameters.Monitoring)
}

// run opens both resources and drives the batch loop. It returns the
// fatal error that ended the run, or nil on a normal exit.
func (j *BatchJob) run(ctx context.Context) error {
	if err := j.openReader(ctx); err != nil {
		return err
	}
	if err := j.openWriter(ctx); err != nil {
		return err
	}
	j.setStatus(ctx, core.JobStatusStarted)
	for j.tracker.MoreRecords() && !interrupted(ctx) {
		batch, err := j.readAndProcessBatch(ctx)
		if err != nil {
			return err
		}
		if err := j.writeBatch(ctx, batch); err != nil {
			return err
		}
	}
	j.setStatus(ctx, core.JobStatusStopping)
	return nil
}

func (j *BatchJob) openReader(ctx context.Context) error {
	if err := j.reader.Open(ctx); err != nil {
		return exception.NewBatchError(exception.KindOpenFailure, "reader", "unable to open record reader", err)
	}
	return nil
}

func (j *BatchJob) openWriter(ctx context.Context) error {
	if err := j.writer.Open(ctx); err != nil {
		return exception.NewBatchError(exception.KindOpenFailure, "writer", "unable to open record writer", err)
	}
	return nil
}

// readAndProcessBatch fills one batch: up to BatchSize reads, each
// surviving record processed into the batch. End-of-source stops the fill
// early and marks the tracker exhausted.
func (j *BatchJob) readAndProcessBatch(ctx context.Context) (*core.Batch, error) {
	batch := core.NewBatch(j.parameters.BatchSize)
	j.batchListener.BeforeBatchReading(ctx)
	for i := 0; i < j.parameters.BatchSize; i++ {
		record, err := j.readRecord(ctx)
		if err != nil {
			return nil, err
		}
		if record == nil {
			logger.Debugf("job '%s': end of record source", j.name)
			j.tracker.NoMoreRecords()
			break
		}
		j.metrics.IncrementReadCount()
		if err := j.processRecord(ctx, record, batch); err != nil {
			return nil, err
		}
	}
	j.batchListener.AfterBatchProcessing(ctx, batch)
	return batch, nil
}

func (j *BatchJob) readRecord(ctx context.Context) (*core.Record, error) {
	j.readerListener.BeforeRecordReading(ctx)
	record, err := j.reader.ReadRecord(ctx)
	if err != nil {
		j.readerListener.OnRecordReadingException(ctx, err)
		return nil, exception.NewBatchError(exception.KindReadFailure, "reader", "unable to read next record", err)
	}
	j.readerListener.AfterRecordReading(ctx, record)
	return record, nil
}

// processRecord runs one record through the pipeline. A veto by the
// pre-processing hook or a nil processor result counts as filtered; a
// processor error counts against the error threshold and escalates only
// when the cumulative count becomes strictly greater than the threshold.
func (j *BatchJob) processRecord(ctx context.Context, record *core.Record, batch *core.Batch) error {
	j.notifyJobUpdate()
	var output *core.Record
	input := j.pipelineListener.BeforeRecordProcessing(ctx, record)
	if input == nil {
		logger.Debugf("job '%s': %s has been filtered", j.name, record.Header)
		j.metrics.IncrementFilterCount()
	} else {
		var err error
		output, err = j.processor.ProcessRecord(ctx, input)
		if err != nil {
			logger.Errorf("job '%s': unable to process %s: %v", j.name, record.Header, err)
			j.pipelineListener.OnRecordProcessingException(ctx, record, err)
			j.metrics.IncrementErrorCount()
			procErr := exception.NewBatchError(exception.KindProcessFailure, "processor", "unable to process record", err).
				WithRecordNumber(record.Header.Number)
			j.report.SetLastError(procErr)
			if j.metrics.ErrorCount > j.parameters.ErrorThreshold {
				return exception.NewBatchError(exception.KindThresholdExceeded, "job", "error threshold exceeded, aborting execution", procErr)
			}
			return nil
		}
		if output == nil {
			logger.Debugf("job '%s': %s has been filtered", j.name, record.Header)
			j.metrics.IncrementFilterCount()
		} else {
			batch.Add(output)
		}
	}
	j.pipelineListener.AfterRecordProcessing(ctx, record, output)
	return nil
}

// writeBatch flushes a non-empty batch to the writer. Empty batches are
// skipped entirely and fire no notifications.
func (j *BatchJob) writeBatch(ctx context.Context, batch *core.Batch) error {
	if batch.IsEmpty() {
		return nil
	}
	logger.Debugf("job '%s': writing batch of %d records", j.name, batch.Size())
	j.writerListener.BeforeRecordWriting(ctx, batch)
	if err := j.writer.WriteRecords(ctx, batch); err != nil {
		j.writerListener.OnRecordWritingException(ctx, batch, err)
		j.batchListener.OnBatchWritingException(ctx, batch, err)
		return exception.NewBatchError(exception.KindWriteFailure, "writer", "unable to write records", err).
			WithBatchSize(batch.Size())
	}
	j.writerListener.AfterRecordWriting(ctx, batch)
	j.batchListener.AfterBatchWriting(ctx, batch)
	j.metrics.IncrementWriteCount(batch.Size())
	return nil
}

func (j *BatchJob) closeReader(ctx context.Context) {
	if err := j.reader.Close(ctx); err != nil {
		logger.Warnf("job '%s': unable to close record reader: %v", j.name, err)
		j.report.SetLastError(exception.NewBatchError(exception.KindCloseFailure, "reader", "unable to close record reader", err))
	}
}

func (j *BatchJob) closeWriter(ctx context.Context) {
	if err := j.writer.Close(ctx); err != nil {
		logger.Warnf("job '%s': unable to close record writer: %v", j.name, err)
		j.report.SetLastError(exception.NewBatchError(exception.KindCloseFailure, "writer", "unable to close record writer", err))
	}
}

// finalize decides the terminal status, stamps the end time and notifies
// the monitor and the job listener. Close failures recorded before this
// point never change the decided status.
func (j *BatchJob) finalize(ctx context.Context, runErr error) {
	status := core.JobStatusCompleted
	switch {
	case runErr != nil:
		status = core.JobStatusFailed
	case interrupted(ctx):
		status = core.JobStatusAborted
	}
	j.report.SetStatus(status)
	j.metrics.SetEndTime(time.Now())
	logger.Infof("job '%s' finished with status %s in %s", j.name, status, j.metrics.Duration())
	j.notifyJobUpdate()
	j.jobListener.AfterJobEnd(ctx, j.report)
}

func (j *BatchJob) setStatus(ctx context.Context, status core.JobStatus) {
	if interrupted(ctx) {
		logger.Infof("job '%s' has been interrupted, aborting execution", j.name)
	}
	j.report.SetStatus(status)
	logger.Infof("job '%s' %s", j.name, strings.ToLower(string(status)))
	j.notifyJobUpdate()
}

func (j *BatchJob) notifyJobUpdate() {
	if j.parameters.Monitoring {
		j.monitor.NotifyJobReportUpdate(j.report)
	}
}

// interrupted performs a non-blocking check of the cancellation signal.
func interrupted(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func formatErrorThreshold(threshold int64) string {
	if threshold == core.UnlimitedErrorThreshold {
		return "unlimited"
	}
	return strconv.FormatInt(threshold, 10)
}
