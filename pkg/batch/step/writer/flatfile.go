package writer

import (
	"bufio"
	"context"
	"fmt"
	"os"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// FlatFileRecordWriter writes one line per record to a file it creates in
// Open. The buffer is flushed after every batch, so batches already
// written stay on disk even when a later batch fails the run.
type FlatFileRecordWriter struct {
	path string
	file *os.File
	buf  *bufio.Writer
}

// NewFlatFileRecordWriter creates a writer for the file at path. An
// existing file is truncated in Open.
func NewFlatFileRecordWriter(path string) *FlatFileRecordWriter {
	return &FlatFileRecordWriter{path: path}
}

func (w *FlatFileRecordWriter) Open(ctx context.Context) error {
	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create flat file %s: %w", w.path, err)
	}
	w.file = file
	w.buf = bufio.NewWriter(file)
	return nil
}

func (w *FlatFileRecordWriter) WriteRecords(ctx context.Context, batch *core.Batch) error {
	if w.buf == nil {
		return fmt.Errorf("flat file %s is not open", w.path)
	}
	for _, record := range batch.Records() {
		if _, err := fmt.Fprintln(w.buf, payloadString(record.Payload)); err != nil {
			return fmt.Errorf("write %s: %w", record.Header, err)
		}
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush flat file %s: %w", w.path, err)
	}
	return nil
}

// Close flushes pending output and releases the file. It tolerates a
// writer that never opened.
func (w *FlatFileRecordWriter) Close(ctx context.Context) error {
	if w.file == nil {
		return nil
	}
	var firstErr error
	if err := w.buf.Flush(); err != nil {
		firstErr = fmt.Errorf("flush flat file %s: %w", w.path, err)
	}
	if err := w.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close flat file %s: %w", w.path, err)
	}
	w.file = nil
	w.buf = nil
	return firstErr
}

var _ core.RecordWriter = (*FlatFileRecordWriter)(nil)
