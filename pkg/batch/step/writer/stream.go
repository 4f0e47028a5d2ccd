package writer

import (
	"context"
	"fmt"
	"io"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// StreamRecordWriter writes one line per record to an io.Writer. It never
// closes the underlying stream; the caller who handed it over keeps
// ownership.
type StreamRecordWriter struct {
	out io.Writer
}

// NewStreamRecordWriter creates a writer targeting out.
func NewStreamRecordWriter(out io.Writer) *StreamRecordWriter {
	return &StreamRecordWriter{out: out}
}

func (w *StreamRecordWriter) Open(ctx context.Context) error {
	return nil
}

func (w *StreamRecordWriter) WriteRecords(ctx context.Context, batch *core.Batch) error {
	for _, record := range batch.Records() {
		if _, err := fmt.Fprintln(w.out, payloadString(record.Payload)); err != nil {
			return fmt.Errorf("write %s: %w", record.Header, err)
		}
	}
	return nil
}

func (w *StreamRecordWriter) Close(ctx context.Context) error {
	return nil
}

func payloadString(payload interface{}) string {
	switch v := payload.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

var _ core.RecordWriter = (*StreamRecordWriter)(nil)
