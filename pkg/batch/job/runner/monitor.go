package runner

import (
	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// NoopJobMonitor discards every report push.
type NoopJobMonitor struct{}

func (NoopJobMonitor) NotifyJobReportUpdate(report *core.JobReport) {}

// LoggingJobMonitor logs every report push at debug level.
type LoggingJobMonitor struct{}

// NewLoggingJobMonitor creates a monitor that logs report updates.
func NewLoggingJobMonitor() *LoggingJobMonitor {
	return &LoggingJobMonitor{}
}

func (m *LoggingJobMonitor) NotifyJobReportUpdate(report *core.JobReport) {
	logger.Debugf("monitor: %s", report)
}

// CompositeJobMonitor fans out report pushes to its delegates in order.
type CompositeJobMonitor struct {
	monitors []core.JobMonitor
}

// NewCompositeJobMonitor creates a composite over the given monitors.
func NewCompositeJobMonitor(monitors ...core.JobMonitor) *CompositeJobMonitor {
	return &CompositeJobMonitor{monitors: monitors}
}

func (m *CompositeJobMonitor) NotifyJobReportUpdate(report *core.JobReport) {
	for _, monitor := range m.monitors {
		monitor.NotifyJobReportUpdate(report)
	}
}

var (
	_ core.JobMonitor = (*NoopJobMonitor)(nil)
	_ core.JobMonitor = (*LoggingJobMonitor)(nil)
	_ core.JobMonitor = (*CompositeJobMonitor)(nil)
)
