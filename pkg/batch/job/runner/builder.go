package runner

import (
	"context"

	"github.com/google/uuid"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
)

// JobBuilder assembles a BatchJob. Every call returns the builder so the
// configuration reads as one chain; Build validates the result and returns
// a fresh job with its own report, metrics and tracker.
type JobBuilder struct {
	name           string
	reader         core.RecordReader
	processor      core.RecordProcessor
	writer         core.RecordWriter
	batchSize      int
	errorThreshold int64
	monitoring     bool
	monitor        core.JobMonitor

	jobListeners      []core.JobListener
	batchListeners    []core.BatchListener
	readerListeners   []core.RecordReaderListener
	writerListeners   []core.RecordWriterListener
	pipelineListeners []core.PipelineListener
}

// NewJobBuilder creates a builder with the default parameter set.
func NewJobBuilder() *JobBuilder {
	return &JobBuilder{
		name:           core.DefaultJobName,
		batchSize:      core.DefaultBatchSize,
		errorThreshold: core.UnlimitedErrorThreshold,
	}
}

// Named sets the job name.
func (b *JobBuilder) Named(name string) *JobBuilder {
	b.name = name
	return b
}

// Reader sets the record source. Required.
func (b *JobBuilder) Reader(reader core.RecordReader) *JobBuilder {
	b.reader = reader
	return b
}

// Processor sets the record processor. Defaults to a passthrough.
func (b *JobBuilder) Processor(processor core.RecordProcessor) *JobBuilder {
	b.processor = processor
	return b
}

// Writer sets the record sink. Required.
func (b *JobBuilder) Writer(writer core.RecordWriter) *JobBuilder {
	b.writer = writer
	return b
}

// BatchSize sets the maximum number of records per batch.
func (b *JobBuilder) BatchSize(size int) *JobBuilder {
	b.batchSize = size
	return b
}

// ErrorThreshold sets the number of tolerated per-record failures. Use
// core.UnlimitedErrorThreshold to disable escalation.
func (b *JobBuilder) ErrorThreshold(threshold int64) *JobBuilder {
	b.errorThreshold = threshold
	return b
}

// EnableMonitoring turns on report pushes to the given monitor.
func (b *JobBuilder) EnableMonitoring(monitor core.JobMonitor) *JobBuilder {
	b.monitoring = true
	b.monitor = monitor
	return b
}

// JobListener registers a job-level listener. Repeatable; listeners fire
// in registration order.
func (b *JobBuilder) JobListener(listener core.JobListener) *JobBuilder {
	b.jobListeners = append(b.jobListeners, listener)
	return b
}

// BatchListener registers a batch-level listener. Repeatable.
func (b *JobBuilder) BatchListener(listener core.BatchListener) *JobBuilder {
	b.batchListeners = append(b.batchListeners, listener)
	return b
}

// ReaderListener registers a reader-level listener. Repeatable.
func (b *JobBuilder) ReaderListener(listener core.RecordReaderListener) *JobBuilder {
	b.readerListeners = append(b.readerListeners, listener)
	return b
}

// WriterListener registers a writer-level listener. Repeatable.
func (b *JobBuilder) WriterListener(listener core.RecordWriterListener) *JobBuilder {
	b.writerListeners = append(b.writerListeners, listener)
	return b
}

// PipelineListener registers a per-record pipeline listener. Repeatable.
func (b *JobBuilder) PipelineListener(listener core.PipelineListener) *JobBuilder {
	b.pipelineListeners = append(b.pipelineListeners, listener)
	return b
}

// Build validates the configuration and returns a fresh BatchJob.
func (b *JobBuilder) Build() (*BatchJob, error) {
	if b.reader == nil {
		return nil, exception.NewBatchErrorf(exception.KindConfiguration, "job", "job '%s' has no record reader", b.name)
	}
	if b.writer == nil {
		return nil, exception.NewBatchErrorf(exception.KindConfiguration, "job", "job '%s' has no record writer", b.name)
	}
	if b.monitoring && b.monitor == nil {
		return nil, exception.NewBatchErrorf(exception.KindConfiguration, "job", "job '%s' enables monitoring without a monitor", b.name)
	}

	parameters := core.JobParameters{
		Name:           b.name,
		BatchSize:      b.batchSize,
		ErrorThreshold: b.errorThreshold,
		Monitoring:     b.monitoring,
	}
	if err := parameters.Validate(); err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, "job", "invalid job parameters", err)
	}

	processor := b.processor
	if processor == nil {
		processor = passthroughProcessor{}
	}
	monitor := b.monitor
	if monitor == nil {
		monitor = NoopJobMonitor{}
	}

	report := core.NewJobReport(uuid.NewString(), parameters)
	return &BatchJob{
		name:             parameters.Name,
		reader:           b.reader,
		processor:        processor,
		writer:           b.writer,
		jobListener:      composeJobListeners(b.jobListeners),
		batchListener:    composeBatchListeners(b.batchListeners),
		readerListener:   composeReaderListeners(b.readerListeners),
		writerListener:   composeWriterListeners(b.writerListeners),
		pipelineListener: composePipelineListeners(b.pipelineListeners),
		monitor:          monitor,
		parameters:       parameters,
		report:           report,
		metrics:          report.Metrics,
		tracker:          core.NewRecordTracker(),
	}, nil
}

type passthroughProcessor struct{}

func (passthroughProcessor) ProcessRecord(ctx context.Context, record *core.Record) (*core.Record, error) {
	return record, nil
}

func composeJobListeners(listeners []core.JobListener) core.JobListener {
	switch len(listeners) {
	case 0:
		return core.NoopJobListener{}
	case 1:
		return listeners[0]
	default:
		return core.NewCompositeJobListener(listeners...)
	}
}

func composeBatchListeners(listeners []core.BatchListener) core.BatchListener {
	switch len(listeners) {
	case 0:
		return core.NoopBatchListener{}
	case 1:
		return listeners[0]
	default:
		return core.NewCompositeBatchListener(listeners...)
	}
}

func composeReaderListeners(listeners []core.RecordReaderListener) core.RecordReaderListener {
	switch len(listeners) {
	case 0:
		return core.NoopRecordReaderListener{}
	case 1:
		return listeners[0]
	default:
		return core.NewCompositeRecordReaderListener(listeners...)
	}
}

func composeWriterListeners(listeners []core.RecordWriterListener) core.RecordWriterListener {
	switch len(listeners) {
	case 0:
		return core.NoopRecordWriterListener{}
	case 1:
		return listeners[0]
	default:
		return core.NewCompositeRecordWriterListener(listeners...)
	}
}

func composePipelineListeners(listeners []core.PipelineListener) core.PipelineListener {
	switch len(listeners) {
	case 0:
		return core.NoopPipelineListener{}
	case 1:
		return listeners[0]
	default:
		return core.NewCompositePipelineListener(listeners...)
	}
}
