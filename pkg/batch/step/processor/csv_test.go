package processor_test

import (
	"context"
	"errors"
	"testing"

	processor "github.com/tigerroll/simplebatch/pkg/batch/step/processor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVMarshallingProcessor(t *testing.T) {
	p := processor.NewCSVMarshallingProcessor()
	ctx := context.Background()

	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{name: "plain fields", fields: []string{"1", "deposit", "100"}, want: "1,deposit,100"},
		{name: "field with comma is quoted", fields: []string{"1", "a,b"}, want: `1,"a,b"`},
		{name: "single field", fields: []string{"only"}, want: "only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.ProcessRecord(ctx, makeRecord(1, tt.fields))
			require.NoError(t, err)
			require.NotNil(t, out)
			assert.Equal(t, tt.want, out.Payload)
		})
	}
}

func TestCSVMarshallingProcessorRejectsOtherPayloads(t *testing.T) {
	p := processor.NewCSVMarshallingProcessor()

	out, err := p.ProcessRecord(context.Background(), makeRecord(1, 42))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorContains(t, err, "[]string")
}

func TestCSVMarshallingProcessorCustomComma(t *testing.T) {
	p := processor.NewCSVMarshallingProcessor(processor.WithMarshalComma(';'))

	out, err := p.ProcessRecord(context.Background(), makeRecord(1, []string{"a", "b"}))
	require.NoError(t, err)
	assert.Equal(t, "a;b", out.Payload)
}

type ledgerEntry struct {
	account string
	amount  string
}

func TestCSVMarshallingProcessorFieldExtractor(t *testing.T) {
	p := processor.NewCSVMarshallingProcessor(processor.WithFieldExtractor(func(payload interface{}) ([]string, error) {
		entry, ok := payload.(ledgerEntry)
		if !ok {
			return nil, errors.New("not a ledger entry")
		}
		return []string{entry.account, entry.amount}, nil
	}))
	ctx := context.Background()

	out, err := p.ProcessRecord(ctx, makeRecord(1, ledgerEntry{account: "acc-1", amount: "12.50"}))
	require.NoError(t, err)
	assert.Equal(t, "acc-1,12.50", out.Payload)

	_, err = p.ProcessRecord(ctx, makeRecord(2, "something else"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "record #2")
}
