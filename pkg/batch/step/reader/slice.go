package reader

import (
	"context"
	"time"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// SliceRecordReader serves records from an in-memory slice. Open rewinds
// to the first payload, so the same reader instance can back repeated
// builder calls in tests and small fixed data sets.
type SliceRecordReader struct {
	source   string
	payloads []interface{}
	pos      int
}

// NewSliceRecordReader creates a reader over payloads. The source label
// ends up in every record header.
func NewSliceRecordReader(source string, payloads []interface{}) *SliceRecordReader {
	return &SliceRecordReader{source: source, payloads: payloads}
}

// FromSlice wraps a typed slice without forcing callers to build the
// []interface{} form by hand.
func FromSlice[T any](source string, values []T) *SliceRecordReader {
	payloads := make([]interface{}, len(values))
	for i, v := range values {
		payloads[i] = v
	}
	return NewSliceRecordReader(source, payloads)
}

func (r *SliceRecordReader) Open(ctx context.Context) error {
	r.pos = 0
	return nil
}

// ReadRecord returns the next payload wrapped in a record, or (nil, nil)
// once the slice is exhausted.
func (r *SliceRecordReader) ReadRecord(ctx context.Context) (*core.Record, error) {
	if r.pos >= len(r.payloads) {
		return nil, nil
	}
	payload := r.payloads[r.pos]
	r.pos++
	header := &core.Header{
		Number:       int64(r.pos),
		Source:       r.source,
		CreationTime: time.Now(),
	}
	return core.NewRecord(header, payload), nil
}

func (r *SliceRecordReader) Close(ctx context.Context) error {
	return nil
}

var _ core.RecordReader = (*SliceRecordReader)(nil)
