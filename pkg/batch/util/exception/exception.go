package exception

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorKind classifies a BatchError so that callers can branch on the
// failure category without inspecting message strings.
type ErrorKind string

const (
	// KindOpenFailure marks a reader or writer that could not be opened.
	KindOpenFailure ErrorKind = "open_failure"
	// KindReadFailure marks a record source error other than end-of-source.
	KindReadFailure ErrorKind = "read_failure"
	// KindProcessFailure marks a per-record processing error.
	KindProcessFailure ErrorKind = "process_failure"
	// KindWriteFailure marks a batch write error.
	KindWriteFailure ErrorKind = "write_failure"
	// KindCloseFailure marks a reader or writer that could not be closed.
	KindCloseFailure ErrorKind = "close_failure"
	// KindThresholdExceeded marks the cumulative error count passing the
	// configured threshold. It wraps the processing error that tipped it.
	KindThresholdExceeded ErrorKind = "threshold_exceeded"
	// KindConfiguration marks invalid configuration, job definitions or
	// component wiring.
	KindConfiguration ErrorKind = "configuration"
	// KindPersistence marks repository and database errors.
	KindPersistence ErrorKind = "persistence"
)

// BatchError is the error type used throughout the engine. It carries the
// failure kind, the module that raised it, a short message and the wrapped
// cause, plus optional record/batch context.
type BatchError struct {
	Kind    ErrorKind
	Module  string // originating module, e.g. "reader", "processor", "writer", "job"
	Message string
	Err     error

	// RecordNumber is the header number of the offending record, 0 when
	// the error is not tied to a single record.
	RecordNumber int64
	// BatchSize is the size of the offending batch, 0 when the error is
	// not tied to a batch.
	BatchSize int

	// StackTrace is captured at construction time for diagnostics.
	StackTrace string
}

// NewBatchError creates a BatchError wrapping err. err may be nil.
func NewBatchError(kind ErrorKind, module, message string, err error) *BatchError {
	buf := make([]byte, 2048)
	n := runtime.Stack(buf, false)

	return &BatchError{
		Kind:       kind,
		Module:     module,
		Message:    message,
		Err:        err,
		StackTrace: string(buf[:n]),
	}
}

// NewBatchErrorf creates a BatchError with a formatted message and no cause.
func NewBatchErrorf(kind ErrorKind, module, format string, a ...interface{}) *BatchError {
	return NewBatchError(kind, module, fmt.Sprintf(format, a...), nil)
}

// WithRecordNumber attaches the offending record number and returns e.
func (e *BatchError) WithRecordNumber(number int64) *BatchError {
	e.RecordNumber = number
	return e
}

// WithBatchSize attaches the offending batch size and returns e.
func (e *BatchError) WithBatchSize(size int) *BatchError {
	e.BatchSize = size
	return e
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Module, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Module, e.Kind, e.Message)
}

// Unwrap returns the wrapped cause for errors.Is / errors.As.
func (e *BatchError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of the outermost BatchError in err's chain,
// or the empty kind when the chain contains none.
func KindOf(err error) ErrorKind {
	var be *BatchError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains a BatchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if be, ok := e.(*BatchError); ok && be.Kind == kind {
			return true
		}
	}
	return false
}
