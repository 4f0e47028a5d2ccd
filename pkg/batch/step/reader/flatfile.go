package reader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// FlatFileRecordReader reads a text file line by line, one record per
// line. Payloads are plain strings without the trailing newline.
type FlatFileRecordReader struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	number  int64
}

// NewFlatFileRecordReader creates a reader for the file at path. The file
// is opened lazily in Open.
func NewFlatFileRecordReader(path string) *FlatFileRecordReader {
	return &FlatFileRecordReader{path: path}
}

func (r *FlatFileRecordReader) Open(ctx context.Context) error {
	file, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open flat file %s: %w", r.path, err)
	}
	r.file = file
	r.scanner = bufio.NewScanner(file)
	r.number = 0
	return nil
}

func (r *FlatFileRecordReader) ReadRecord(ctx context.Context) (*core.Record, error) {
	if r.scanner == nil {
		return nil, fmt.Errorf("flat file %s is not open", r.path)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, fmt.Errorf("read flat file %s: %w", r.path, err)
		}
		return nil, nil
	}
	r.number++
	header := &core.Header{
		Number:       r.number,
		Source:       r.path,
		CreationTime: time.Now(),
	}
	return core.NewRecord(header, r.scanner.Text()), nil
}

// Close releases the underlying file. It tolerates a reader that never
// opened, so the engine can always pair Open and Close.
func (r *FlatFileRecordReader) Close(ctx context.Context) error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.scanner = nil
	if err != nil {
		return fmt.Errorf("close flat file %s: %w", r.path, err)
	}
	return nil
}

var _ core.RecordReader = (*FlatFileRecordReader)(nil)
