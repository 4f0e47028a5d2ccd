package processor

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// CSVMarshalOption tunes a CSVMarshallingProcessor.
type CSVMarshalOption func(*CSVMarshallingProcessor)

// WithMarshalComma sets the field separator of the emitted lines.
func WithMarshalComma(comma rune) CSVMarshalOption {
	return func(p *CSVMarshallingProcessor) {
		p.comma = comma
	}
}

// WithFieldExtractor marshals arbitrary payloads by extracting their
// fields through extract. Without one, payloads must already be
// []string.
func WithFieldExtractor(extract func(payload interface{}) ([]string, error)) CSVMarshalOption {
	return func(p *CSVMarshallingProcessor) {
		p.extract = extract
	}
}

// CSVMarshallingProcessor turns record payloads into single CSV lines,
// ready for a flat-file writer. Quoting and escaping follow encoding/csv.
type CSVMarshallingProcessor struct {
	comma   rune
	extract func(payload interface{}) ([]string, error)
}

// NewCSVMarshallingProcessor creates a processor emitting comma-separated
// lines.
func NewCSVMarshallingProcessor(opts ...CSVMarshalOption) *CSVMarshallingProcessor {
	p := &CSVMarshallingProcessor{comma: ','}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *CSVMarshallingProcessor) ProcessRecord(ctx context.Context, record *core.Record) (*core.Record, error) {
	fields, err := p.fields(record)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Comma = p.comma
	if err := w.Write(fields); err != nil {
		return nil, fmt.Errorf("marshal %s: %w", record.Header, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("marshal %s: %w", record.Header, err)
	}
	line := strings.TrimRight(sb.String(), "\n")
	return core.NewRecord(record.Header, line), nil
}

func (p *CSVMarshallingProcessor) fields(record *core.Record) ([]string, error) {
	if p.extract != nil {
		fields, err := p.extract(record.Payload)
		if err != nil {
			return nil, fmt.Errorf("extract fields of %s: %w", record.Header, err)
		}
		return fields, nil
	}
	fields, ok := record.Payload.([]string)
	if !ok {
		return nil, fmt.Errorf("csv marshalling expects a []string payload, got %T", record.Payload)
	}
	return fields, nil
}

var _ core.RecordProcessor = (*CSVMarshallingProcessor)(nil)
