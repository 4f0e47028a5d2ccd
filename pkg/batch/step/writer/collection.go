package writer

import (
	"context"
	"sync"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// CollectionRecordWriter accumulates written payloads in memory. It keeps
// batch boundaries out of the picture on purpose: Payloads returns one
// flat slice in write order, which is what assertions in tests want.
type CollectionRecordWriter struct {
	mu       sync.Mutex
	payloads []interface{}
}

// NewCollectionRecordWriter creates an empty in-memory writer.
func NewCollectionRecordWriter() *CollectionRecordWriter {
	return &CollectionRecordWriter{}
}

func (w *CollectionRecordWriter) Open(ctx context.Context) error {
	return nil
}

func (w *CollectionRecordWriter) WriteRecords(ctx context.Context, batch *core.Batch) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, record := range batch.Records() {
		w.payloads = append(w.payloads, record.Payload)
	}
	return nil
}

func (w *CollectionRecordWriter) Close(ctx context.Context) error {
	return nil
}

// Payloads returns a copy of everything written so far.
func (w *CollectionRecordWriter) Payloads() []interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]interface{}, len(w.payloads))
	copy(out, w.payloads)
	return out
}

var _ core.RecordWriter = (*CollectionRecordWriter)(nil)
