package listener

import (
	"context"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// LoggingPipelineListener logs record processing events. It never vetoes:
// BeforeRecordProcessing passes every record through.
type LoggingPipelineListener struct{}

// NewLoggingPipelineListener creates a new LoggingPipelineListener.
func NewLoggingPipelineListener() *LoggingPipelineListener {
	return &LoggingPipelineListener{}
}

func (l *LoggingPipelineListener) BeforeRecordProcessing(ctx context.Context, record *core.Record) *core.Record {
	return record
}

func (l *LoggingPipelineListener) AfterRecordProcessing(ctx context.Context, input *core.Record, output *core.Record) {
	if output == nil {
		logger.Debugf("filtered %s", input.Header)
	}
}

func (l *LoggingPipelineListener) OnRecordProcessingException(ctx context.Context, record *core.Record, err error) {
	logger.Errorf("failed to process %s: %v", record.Header, err)
}

var _ core.PipelineListener = (*LoggingPipelineListener)(nil)
