package processor

import (
	"context"
	"fmt"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// ProcessorFunc adapts a plain function to the record processor
// interface.
type ProcessorFunc func(ctx context.Context, record *core.Record) (*core.Record, error)

func (f ProcessorFunc) ProcessRecord(ctx context.Context, record *core.Record) (*core.Record, error) {
	return f(ctx, record)
}

var _ core.RecordProcessor = (ProcessorFunc)(nil)

// NewFilteringProcessor builds a processor that drops every record the
// keep predicate rejects. Dropped records count as filtered, not failed.
func NewFilteringProcessor(keep func(record *core.Record) bool) core.RecordProcessor {
	return ProcessorFunc(func(ctx context.Context, record *core.Record) (*core.Record, error) {
		if !keep(record) {
			return nil, nil
		}
		return record, nil
	})
}

// NewValidatingProcessor builds a processor that passes records through
// untouched and fails the ones validate rejects. Each failure counts
// against the job's error threshold.
func NewValidatingProcessor(validate func(record *core.Record) error) core.RecordProcessor {
	return ProcessorFunc(func(ctx context.Context, record *core.Record) (*core.Record, error) {
		if err := validate(record); err != nil {
			return nil, fmt.Errorf("validate %s: %w", record.Header, err)
		}
		return record, nil
	})
}

// NewMappingProcessor builds a processor that replaces each record's
// payload with transform's result. The header is carried over unchanged.
func NewMappingProcessor(transform func(payload interface{}) (interface{}, error)) core.RecordProcessor {
	return ProcessorFunc(func(ctx context.Context, record *core.Record) (*core.Record, error) {
		payload, err := transform(record.Payload)
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", record.Header, err)
		}
		return core.NewRecord(record.Header, payload), nil
	})
}

// CompositeProcessor runs delegates in order, feeding each one's output
// to the next. A nil output stops the chain and filters the record; an
// error stops the chain and fails it.
type CompositeProcessor struct {
	delegates []core.RecordProcessor
}

// NewCompositeProcessor creates a processor chaining delegates in the
// given order.
func NewCompositeProcessor(delegates ...core.RecordProcessor) *CompositeProcessor {
	return &CompositeProcessor{delegates: delegates}
}

func (p *CompositeProcessor) ProcessRecord(ctx context.Context, record *core.Record) (*core.Record, error) {
	current := record
	for _, delegate := range p.delegates {
		next, err := delegate.ProcessRecord(ctx, current)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		current = next
	}
	return current, nil
}

var _ core.RecordProcessor = (*CompositeProcessor)(nil)
