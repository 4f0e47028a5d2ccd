package core

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"
)

// JobStatus represents the state of a job run.
type JobStatus string

const (
	JobStatusStarting  JobStatus = "STARTING"
	JobStatusStarted   JobStatus = "STARTED"
	JobStatusStopping  JobStatus = "STOPPING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusAborted   JobStatus = "ABORTED"
)

// IsTerminal reports whether the status is final. No transition happens
// after a terminal status.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusAborted:
		return true
	default:
		return false
	}
}

const (
	// DefaultJobName is used when no job name is configured.
	DefaultJobName = "job"
	// DefaultBatchSize is used when no batch size is configured.
	DefaultBatchSize = 100
	// UnlimitedErrorThreshold disables error-threshold escalation.
	UnlimitedErrorThreshold int64 = math.MaxInt64
)

// JobParameters is the immutable configuration of one job run.
type JobParameters struct {
	Name string `json:"name"`
	// BatchSize is the maximum number of records per batch.
	BatchSize int `json:"batch_size"`
	// ErrorThreshold is the number of per-record processing failures
	// tolerated before the run fails. The run fails only when the
	// cumulative error count becomes strictly greater than this value.
	ErrorThreshold int64 `json:"error_threshold"`
	// Monitoring enables report pushes to the job monitor.
	Monitoring bool `json:"monitoring"`
}

// NewJobParameters returns the default parameter set.
func NewJobParameters() JobParameters {
	return JobParameters{
		Name:           DefaultJobName,
		BatchSize:      DefaultBatchSize,
		ErrorThreshold: UnlimitedErrorThreshold,
		Monitoring:     false,
	}
}

// Validate checks the parameter set for values the engine cannot run with.
func (p JobParameters) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("job name must not be empty")
	}
	if p.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", p.BatchSize)
	}
	if p.ErrorThreshold < 0 {
		return fmt.Errorf("error threshold must not be negative, got %d", p.ErrorThreshold)
	}
	return nil
}

// JobMetrics holds the counters and timestamps of one job run. Counters
// are monotonic and mutated only by the engine.
type JobMetrics struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	ReadCount   int64     `json:"read_count"`
	WriteCount  int64     `json:"write_count"`
	FilterCount int64     `json:"filter_count"`
	ErrorCount  int64     `json:"error_count"`
}

// NewJobMetrics creates a zeroed metrics holder.
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{}
}

// IncrementReadCount adds one successfully read record.
func (m *JobMetrics) IncrementReadCount() {
	m.ReadCount++
}

// IncrementWriteCount adds the size of a successfully written batch.
func (m *JobMetrics) IncrementWriteCount(count int) {
	m.WriteCount += int64(count)
}

// IncrementFilterCount adds one filtered record.
func (m *JobMetrics) IncrementFilterCount() {
	m.FilterCount++
}

// IncrementErrorCount adds one per-record processing failure.
func (m *JobMetrics) IncrementErrorCount() {
	m.ErrorCount++
}

// SetStartTime records the run start.
func (m *JobMetrics) SetStartTime(t time.Time) {
	m.StartTime = t
}

// SetEndTime records the run end.
func (m *JobMetrics) SetEndTime(t time.Time) {
	m.EndTime = t
}

// Duration returns the elapsed run time, zero while the run is ongoing.
func (m *JobMetrics) Duration() time.Duration {
	if m.StartTime.IsZero() || m.EndTime.IsZero() {
		return 0
	}
	return m.EndTime.Sub(m.StartTime)
}

// JobReport aggregates everything known about one job run. It is the sole
// result of a run: mutable while the run is ongoing, read-only once the
// status is terminal.
type JobReport struct {
	ExecutionID string
	JobName     string
	Parameters  JobParameters
	Metrics     *JobMetrics
	Status      JobStatus
	LastError   error
	SystemInfo  map[string]string
}

// NewJobReport creates a report for one run with zeroed metrics and a
// system info snapshot taken now.
func NewJobReport(executionID string, parameters JobParameters) *JobReport {
	return &JobReport{
		ExecutionID: executionID,
		JobName:     parameters.Name,
		Parameters:  parameters,
		Metrics:     NewJobMetrics(),
		Status:      JobStatusStarting,
		SystemInfo:  CaptureSystemInfo(),
	}
}

// SetStatus records a status change.
func (r *JobReport) SetStatus(status JobStatus) {
	r.Status = status
}

// SetLastError records the most recent error observed during the run.
func (r *JobReport) SetLastError(err error) {
	r.LastError = err
}

// LastErrorMessage returns the last error's message, empty when none.
func (r *JobReport) LastErrorMessage() string {
	if r.LastError == nil {
		return ""
	}
	return r.LastError.Error()
}

func (r *JobReport) String() string {
	return fmt.Sprintf("job '%s' execution %s: status=%s read=%d write=%d filter=%d error=%d",
		r.JobName, r.ExecutionID, r.Status,
		r.Metrics.ReadCount, r.Metrics.WriteCount, r.Metrics.FilterCount, r.Metrics.ErrorCount)
}

// CaptureSystemInfo snapshots the runtime environment for diagnostics.
func CaptureSystemInfo() map[string]string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return map[string]string{
		"hostname":   hostname,
		"pid":        strconv.Itoa(os.Getpid()),
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       strconv.Itoa(runtime.NumCPU()),
	}
}
