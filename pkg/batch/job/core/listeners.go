package core

import "context"

// Listener interfaces surround every phase of a job run. Each category is
// a capability interface with a no-op default and a composite, so the
// engine always holds exactly one instance per category and the hot loop
// carries no nil checks.
//
// Callbacks run synchronously on the engine's goroutine, in registration
// order. The designated on-error callbacks let observers react to failures
// without influencing the error-threshold count.

// JobListener is notified around the whole run.
type JobListener interface {
	BeforeJobStart(ctx context.Context, parameters JobParameters)
	AfterJobEnd(ctx context.Context, report *JobReport)
}

// BatchListener is notified around each batch cycle.
type BatchListener interface {
	BeforeBatchReading(ctx context.Context)
	AfterBatchProcessing(ctx context.Context, batch *Batch)
	AfterBatchWriting(ctx context.Context, batch *Batch)
	OnBatchWritingException(ctx context.Context, batch *Batch, err error)
}

// RecordReaderListener is notified around each read. AfterRecordReading
// receives nil when the read signalled end-of-source.
type RecordReaderListener interface {
	BeforeRecordReading(ctx context.Context)
	AfterRecordReading(ctx context.Context, record *Record)
	OnRecordReadingException(ctx context.Context, err error)
}

// RecordWriterListener is notified around each batch write.
type RecordWriterListener interface {
	BeforeRecordWriting(ctx context.Context, batch *Batch)
	AfterRecordWriting(ctx context.Context, batch *Batch)
	OnRecordWritingException(ctx context.Context, batch *Batch, err error)
}

// PipelineListener is notified around each record's processing.
// BeforeRecordProcessing may veto the record by returning nil, which
// counts it as filtered before it reaches the processor.
type PipelineListener interface {
	BeforeRecordProcessing(ctx context.Context, record *Record) *Record
	AfterRecordProcessing(ctx context.Context, input *Record, output *Record)
	OnRecordProcessingException(ctx context.Context, record *Record, err error)
}

// --- no-op defaults ---

// NoopJobListener implements JobListener doing nothing. Embed it to
// implement a subset of the callbacks.
type NoopJobListener struct{}

func (l NoopJobListener) BeforeJobStart(ctx context.Context, parameters JobParameters) {}
func (l NoopJobListener) AfterJobEnd(ctx context.Context, report *JobReport)           {}

// NoopBatchListener implements BatchListener doing nothing.
type NoopBatchListener struct{}

func (l NoopBatchListener) BeforeBatchReading(ctx context.Context)                                {}
func (l NoopBatchListener) AfterBatchProcessing(ctx context.Context, batch *Batch)                {}
func (l NoopBatchListener) AfterBatchWriting(ctx context.Context, batch *Batch)                   {}
func (l NoopBatchListener) OnBatchWritingException(ctx context.Context, batch *Batch, err error)  {}

// NoopRecordReaderListener implements RecordReaderListener doing nothing.
type NoopRecordReaderListener struct{}

func (l NoopRecordReaderListener) BeforeRecordReading(ctx context.Context)                 {}
func (l NoopRecordReaderListener) AfterRecordReading(ctx context.Context, record *Record)  {}
func (l NoopRecordReaderListener) OnRecordReadingException(ctx context.Context, err error) {}

// NoopRecordWriterListener implements RecordWriterListener doing nothing.
type NoopRecordWriterListener struct{}

func (l NoopRecordWriterListener) BeforeRecordWriting(ctx context.Context, batch *Batch) {}
func (l NoopRecordWriterListener) AfterRecordWriting(ctx context.Context, batch *Batch)  {}
func (l NoopRecordWriterListener) OnRecordWritingException(ctx context.Context, batch *Batch, err error) {
}

// NoopPipelineListener implements PipelineListener doing nothing. Its
// BeforeRecordProcessing passes the record through unchanged.
type NoopPipelineListener struct{}

func (l NoopPipelineListener) BeforeRecordProcessing(ctx context.Context, record *Record) *Record {
	return record
}
func (l NoopPipelineListener) AfterRecordProcessing(ctx context.Context, input *Record, output *Record) {
}
func (l NoopPipelineListener) OnRecordProcessingException(ctx context.Context, record *Record, err error) {
}

var (
	_ JobListener          = (*NoopJobListener)(nil)
	_ BatchListener        = (*NoopBatchListener)(nil)
	_ RecordReaderListener = (*NoopRecordReaderListener)(nil)
	_ RecordWriterListener = (*NoopRecordWriterListener)(nil)
	_ PipelineListener     = (*NoopPipelineListener)(nil)
)

// --- composites ---

// CompositeJobListener fans out to its delegates in registration order.
type CompositeJobListener struct {
	listeners []JobListener
}

// NewCompositeJobListener creates a composite over the given listeners.
func NewCompositeJobListener(listeners ...JobListener) *CompositeJobListener {
	return &CompositeJobListener{listeners: listeners}
}

func (c *CompositeJobListener) BeforeJobStart(ctx context.Context, parameters JobParameters) {
	for _, l := range c.listeners {
		l.BeforeJobStart(ctx, parameters)
	}
}

func (c *CompositeJobListener) AfterJobEnd(ctx context.Context, report *JobReport) {
	for _, l := range c.listeners {
		l.AfterJobEnd(ctx, report)
	}
}

// CompositeBatchListener fans out to its delegates in registration order.
type CompositeBatchListener struct {
	listeners []BatchListener
}

// NewCompositeBatchListener creates a composite over the given listeners.
func NewCompositeBatchListener(listeners ...BatchListener) *CompositeBatchListener {
	return &CompositeBatchListener{listeners: listeners}
}

func (c *CompositeBatchListener) BeforeBatchReading(ctx context.Context) {
	for _, l := range c.listeners {
		l.BeforeBatchReading(ctx)
	}
}

func (c *CompositeBatchListener) AfterBatchProcessing(ctx context.Context, batch *Batch) {
	for _, l := range c.listeners {
		l.AfterBatchProcessing(ctx, batch)
	}
}

func (c *CompositeBatchListener) AfterBatchWriting(ctx context.Context, batch *Batch) {
	for _, l := range c.listeners {
		l.AfterBatchWriting(ctx, batch)
	}
}

func (c *CompositeBatchListener) OnBatchWritingException(ctx context.Context, batch *Batch, err error) {
	for _, l := range c.listeners {
		l.OnBatchWritingException(ctx, batch, err)
	}
}

// CompositeRecordReaderListener fans out to its delegates in registration order.
type CompositeRecordReaderListener struct {
	listeners []RecordReaderListener
}

// NewCompositeRecordReaderListener creates a composite over the given listeners.
func NewCompositeRecordReaderListener(listeners ...RecordReaderListener) *CompositeRecordReaderListener {
	return &CompositeRecordReaderListener{listeners: listeners}
}

func (c *CompositeRecordReaderListener) BeforeRecordReading(ctx context.Context) {
	for _, l := range c.listeners {
		l.BeforeRecordReading(ctx)
	}
}

func (c *CompositeRecordReaderListener) AfterRecordReading(ctx context.Context, record *Record) {
	for _, l := range c.listeners {
		l.AfterRecordReading(ctx, record)
	}
}

func (c *CompositeRecordReaderListener) OnRecordReadingException(ctx context.Context, err error) {
	for _, l := range c.listeners {
		l.OnRecordReadingException(ctx, err)
	}
}

// CompositeRecordWriterListener fans out to its delegates in registration order.
type CompositeRecordWriterListener struct {
	listeners []RecordWriterListener
}

// NewCompositeRecordWriterListener creates a composite over the given listeners.
func NewCompositeRecordWriterListener(listeners ...RecordWriterListener) *CompositeRecordWriterListener {
	return &CompositeRecordWriterListener{listeners: listeners}
}

func (c *CompositeRecordWriterListener) BeforeRecordWriting(ctx context.Context, batch *Batch) {
	for _, l := range c.listeners {
		l.BeforeRecordWriting(ctx, batch)
	}
}

func (c *CompositeRecordWriterListener) AfterRecordWriting(ctx context.Context, batch *Batch) {
	for _, l := range c.listeners {
		l.AfterRecordWriting(ctx, batch)
	}
}

func (c *CompositeRecordWriterListener) OnRecordWritingException(ctx context.Context, batch *Batch, err error) {
	for _, l := range c.listeners {
		l.OnRecordWritingException(ctx, batch, err)
	}
}

// CompositePipelineListener fans out to its delegates in registration
// order. BeforeRecordProcessing chains the record through each delegate
// and short-circuits on the first veto.
type CompositePipelineListener struct {
	listeners []PipelineListener
}

// NewCompositePipelineListener creates a composite over the given listeners.
func NewCompositePipelineListener(listeners ...PipelineListener) *CompositePipelineListener {
	return &CompositePipelineListener{listeners: listeners}
}

func (c *CompositePipelineListener) BeforeRecordProcessing(ctx context.Context, record *Record) *Record {
	current := record
	for _, l := range c.listeners {
		current = l.BeforeRecordProcessing(ctx, current)
		if current == nil {
			return nil
		}
	}
	return current
}

func (c *CompositePipelineListener) AfterRecordProcessing(ctx context.Context, input *Record, output *Record) {
	for _, l := range c.listeners {
		l.AfterRecordProcessing(ctx, input, output)
	}
}

func (c *CompositePipelineListener) OnRecordProcessingException(ctx context.Context, record *Record, err error) {
	for _, l := range c.listeners {
		l.OnRecordProcessingException(ctx, record, err)
	}
}

var (
	_ JobListener          = (*CompositeJobListener)(nil)
	_ BatchListener        = (*CompositeBatchListener)(nil)
	_ RecordReaderListener = (*CompositeRecordReaderListener)(nil)
	_ RecordWriterListener = (*CompositeRecordWriterListener)(nil)
	_ PipelineListener     = (*CompositePipelineListener)(nil)
)
