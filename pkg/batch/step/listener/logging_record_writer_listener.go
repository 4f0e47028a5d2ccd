package listener

import (
	"context"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// LoggingRecordWriterListener logs record writing events.
type LoggingRecordWriterListener struct{}

// NewLoggingRecordWriterListener creates a new LoggingRecordWriterListener.
func NewLoggingRecordWriterListener() *LoggingRecordWriterListener {
	return &LoggingRecordWriterListener{}
}

func (l *LoggingRecordWriterListener) BeforeRecordWriting(ctx context.Context, batch *core.Batch) {
	logger.Debugf("writing batch of %d record(s)", batch.Size())
}

func (l *LoggingRecordWriterListener) AfterRecordWriting(ctx context.Context, batch *core.Batch) {}

func (l *LoggingRecordWriterListener) OnRecordWritingException(ctx context.Context, batch *core.Batch, err error) {
	logger.Errorf("failed while writing batch of %d record(s): %v", batch.Size(), err)
}

var _ core.RecordWriterListener = (*LoggingRecordWriterListener)(nil)
