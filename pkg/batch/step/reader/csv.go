package reader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// CSVOption tweaks a CSVRecordReader before it opens.
type CSVOption func(*CSVRecordReader)

// WithSkipHeader makes the reader discard the first row. Data records are
// still numbered from 1.
func WithSkipHeader() CSVOption {
	return func(r *CSVRecordReader) { r.skipHeader = true }
}

// WithComma sets the field delimiter. The default is ','.
func WithComma(comma rune) CSVOption {
	return func(r *CSVRecordReader) { r.comma = comma }
}

// CSVRecordReader reads a CSV file row by row. Payloads are []string
// field slices. Rows may have varying field counts; validating shape is
// the processor's job.
type CSVRecordReader struct {
	path       string
	skipHeader bool
	comma      rune

	file   *os.File
	csv    *csv.Reader
	number int64
}

// NewCSVRecordReader creates a reader for the CSV file at path.
func NewCSVRecordReader(path string, opts ...CSVOption) *CSVRecordReader {
	r := &CSVRecordReader{path: path, comma: ','}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *CSVRecordReader) Open(ctx context.Context) error {
	file, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open csv file %s: %w", r.path, err)
	}
	r.file = file
	r.csv = csv.NewReader(file)
	r.csv.Comma = r.comma
	r.csv.FieldsPerRecord = -1
	r.number = 0

	if r.skipHeader {
		if _, err := r.csv.Read(); err != nil && err != io.EOF {
			_ = file.Close()
			r.file = nil
			r.csv = nil
			return fmt.Errorf("read csv header of %s: %w", r.path, err)
		}
	}
	return nil
}

func (r *CSVRecordReader) ReadRecord(ctx context.Context) (*core.Record, error) {
	if r.csv == nil {
		return nil, fmt.Errorf("csv file %s is not open", r.path)
	}
	fields, err := r.csv.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv file %s: %w", r.path, err)
	}
	r.number++
	header := &core.Header{
		Number:       r.number,
		Source:       r.path,
		CreationTime: time.Now(),
	}
	return core.NewRecord(header, fields), nil
}

func (r *CSVRecordReader) Close(ctx context.Context) error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.csv = nil
	if err != nil {
		return fmt.Errorf("close csv file %s: %w", r.path, err)
	}
	return nil
}

var _ core.RecordReader = (*CSVRecordReader)(nil)
