package processor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	processor "github.com/tigerroll/simplebatch/pkg/batch/step/processor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecord(number int64, payload interface{}) *core.Record {
	return core.NewRecord(&core.Header{Number: number, Source: "test"}, payload)
}

func TestProcessorFuncAdaptsFunction(t *testing.T) {
	p := processor.ProcessorFunc(func(ctx context.Context, record *core.Record) (*core.Record, error) {
		return core.NewRecord(record.Header, "seen"), nil
	})

	out, err := p.ProcessRecord(context.Background(), makeRecord(1, "raw"))
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "seen", out.Payload)
}

func TestFilteringProcessor(t *testing.T) {
	p := processor.NewFilteringProcessor(func(record *core.Record) bool {
		return record.Payload != "drop"
	})
	ctx := context.Background()

	kept, err := p.ProcessRecord(ctx, makeRecord(1, "keep"))
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, "keep", kept.Payload)

	dropped, err := p.ProcessRecord(ctx, makeRecord(2, "drop"))
	require.NoError(t, err)
	assert.Nil(t, dropped)
}

func TestValidatingProcessor(t *testing.T) {
	invalid := errors.New("amount must be positive")
	p := processor.NewValidatingProcessor(func(record *core.Record) error {
		if record.Payload == "bad" {
			return invalid
		}
		return nil
	})
	ctx := context.Background()

	good, err := p.ProcessRecord(ctx, makeRecord(1, "good"))
	require.NoError(t, err)
	require.NotNil(t, good)
	assert.Equal(t, "good", good.Payload)

	out, err := p.ProcessRecord(ctx, makeRecord(2, "bad"))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, invalid)
	assert.ErrorContains(t, err, "record #2")
}

func TestMappingProcessorKeepsHeader(t *testing.T) {
	p := processor.NewMappingProcessor(func(payload interface{}) (interface{}, error) {
		return strings.ToUpper(payload.(string)), nil
	})

	in := makeRecord(7, "quiet")
	out, err := p.ProcessRecord(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "QUIET", out.Payload)
	assert.Same(t, in.Header, out.Header)
	assert.Equal(t, "quiet", in.Payload)
}

func TestMappingProcessorWrapsError(t *testing.T) {
	boom := errors.New("no such currency")
	p := processor.NewMappingProcessor(func(payload interface{}) (interface{}, error) {
		return nil, boom
	})

	out, err := p.ProcessRecord(context.Background(), makeRecord(3, "xyz"))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, boom)
}

func TestCompositeProcessorChainsInOrder(t *testing.T) {
	upper := processor.NewMappingProcessor(func(payload interface{}) (interface{}, error) {
		return strings.ToUpper(payload.(string)), nil
	})
	suffix := processor.NewMappingProcessor(func(payload interface{}) (interface{}, error) {
		return payload.(string) + "!", nil
	})

	p := processor.NewCompositeProcessor(upper, suffix)
	out, err := p.ProcessRecord(context.Background(), makeRecord(1, "go"))
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "GO!", out.Payload)
}

func TestCompositeProcessorShortCircuitsOnFilter(t *testing.T) {
	dropAll := processor.NewFilteringProcessor(func(record *core.Record) bool { return false })
	var reached bool
	spy := processor.ProcessorFunc(func(ctx context.Context, record *core.Record) (*core.Record, error) {
		reached = true
		return record, nil
	})

	p := processor.NewCompositeProcessor(dropAll, spy)
	out, err := p.ProcessRecord(context.Background(), makeRecord(1, "x"))
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.False(t, reached)
}

func TestCompositeProcessorStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	failing := processor.ProcessorFunc(func(ctx context.Context, record *core.Record) (*core.Record, error) {
		return nil, boom
	})
	var reached bool
	spy := processor.ProcessorFunc(func(ctx context.Context, record *core.Record) (*core.Record, error) {
		reached = true
		return record, nil
	})

	p := processor.NewCompositeProcessor(failing, spy)
	out, err := p.ProcessRecord(context.Background(), makeRecord(1, "x"))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, boom)
	assert.False(t, reached)
}

func TestCompositeProcessorEmptyPassesThrough(t *testing.T) {
	p := processor.NewCompositeProcessor()
	in := makeRecord(1, "unchanged")
	out, err := p.ProcessRecord(context.Background(), in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}
