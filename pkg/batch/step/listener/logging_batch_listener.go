package listener

import (
	"context"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// LoggingBatchListener logs batch lifecycle events. Per-cycle events log
// at debug so a large run stays quiet at the default level; write
// failures log as errors.
type LoggingBatchListener struct{}

// NewLoggingBatchListener creates a new LoggingBatchListener.
func NewLoggingBatchListener() *LoggingBatchListener {
	return &LoggingBatchListener{}
}

func (l *LoggingBatchListener) BeforeBatchReading(ctx context.Context) {
	logger.Debugf("reading next batch")
}

func (l *LoggingBatchListener) AfterBatchProcessing(ctx context.Context, batch *core.Batch) {
	logger.Debugf("batch processed: %d record(s)", batch.Size())
}

func (l *LoggingBatchListener) AfterBatchWriting(ctx context.Context, batch *core.Batch) {
	logger.Debugf("batch written: %d record(s)", batch.Size())
}

func (l *LoggingBatchListener) OnBatchWritingException(ctx context.Context, batch *core.Batch, err error) {
	logger.Errorf("failed to write batch of %d record(s): %v", batch.Size(), err)
}

var _ core.BatchListener = (*LoggingBatchListener)(nil)
