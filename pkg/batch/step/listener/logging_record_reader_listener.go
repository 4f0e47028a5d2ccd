package listener

import (
	"context"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// LoggingRecordReaderListener logs record reading events.
type LoggingRecordReaderListener struct{}

// NewLoggingRecordReaderListener creates a new LoggingRecordReaderListener.
func NewLoggingRecordReaderListener() *LoggingRecordReaderListener {
	return &LoggingRecordReaderListener{}
}

func (l *LoggingRecordReaderListener) BeforeRecordReading(ctx context.Context) {}

func (l *LoggingRecordReaderListener) AfterRecordReading(ctx context.Context, record *core.Record) {
	if record == nil {
		logger.Debugf("record source exhausted")
		return
	}
	logger.Debugf("read %s", record.Header)
}

func (l *LoggingRecordReaderListener) OnRecordReadingException(ctx context.Context, err error) {
	logger.Errorf("failed to read record: %v", err)
}

var _ core.RecordReaderListener = (*LoggingRecordReaderListener)(nil)
