package core

import "context"

// Job is a unit of work that runs to completion and reports its outcome.
// Execute never returns an error: every failure is encoded in the report's
// status and last-error field.
type Job interface {
	Name() string
	Execute(ctx context.Context) *JobReport
}

// RecordReader pulls records one at a time from a source.
//
// ReadRecord returns (nil, nil) when the source is exhausted; any error is
// fatal to the run. Implementations must tolerate Close without a prior
// successful Open.
type RecordReader interface {
	Open(ctx context.Context) error
	ReadRecord(ctx context.Context) (*Record, error)
	Close(ctx context.Context) error
}

// RecordWriter pushes whole batches to a sink. WriteRecords receives only
// non-empty batches; any error is fatal to the run. Implementations must
// tolerate Close without a prior successful Open.
type RecordWriter interface {
	Open(ctx context.Context) error
	WriteRecords(ctx context.Context, batch *Batch) error
	Close(ctx context.Context) error
}

// RecordProcessor transforms or filters one record. Returning (nil, nil)
// filters the record out. An error is a per-record failure counted against
// the job's error threshold.
type RecordProcessor interface {
	ProcessRecord(ctx context.Context, record *Record) (*Record, error)
}

// JobMonitor receives report pushes while a run is ongoing. Calls are
// synchronous on the engine's goroutine; the report is borrowed and must
// not be retained or mutated.
type JobMonitor interface {
	NotifyJobReportUpdate(report *JobReport)
}
