package writer_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	writer "github.com/tigerroll/simplebatch/pkg/batch/step/writer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBatch(payloads ...interface{}) *core.Batch {
	batch := core.NewBatch(len(payloads))
	for i, payload := range payloads {
		header := &core.Header{Number: int64(i + 1), Source: "test"}
		batch.Add(core.NewRecord(header, payload))
	}
	return batch
}

func TestCollectionRecordWriterAccumulatesAcrossBatches(t *testing.T) {
	ctx := context.Background()
	w := writer.NewCollectionRecordWriter()
	require.NoError(t, w.Open(ctx))

	require.NoError(t, w.WriteRecords(ctx, makeBatch("a", "b")))
	require.NoError(t, w.WriteRecords(ctx, makeBatch("c")))
	require.NoError(t, w.Close(ctx))

	assert.Equal(t, []interface{}{"a", "b", "c"}, w.Payloads())
}

func TestCollectionRecordWriterPayloadsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	w := writer.NewCollectionRecordWriter()
	require.NoError(t, w.WriteRecords(ctx, makeBatch("a")))

	got := w.Payloads()
	got[0] = "mutated"
	assert.Equal(t, []interface{}{"a"}, w.Payloads())
}

type stringerPayload struct{ value string }

func (s stringerPayload) String() string { return "stringer:" + s.value }

func TestStreamRecordWriterFormatsPayloads(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	w := writer.NewStreamRecordWriter(&buf)
	require.NoError(t, w.Open(ctx))

	batch := makeBatch("plain", stringerPayload{value: "x"}, 42)
	require.NoError(t, w.WriteRecords(ctx, batch))
	require.NoError(t, w.Close(ctx))

	assert.Equal(t, "plain\nstringer:x\n42\n", buf.String())
}

func TestFlatFileRecordWriterFlushesPerBatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.txt")
	w := writer.NewFlatFileRecordWriter(path)
	require.NoError(t, w.Open(ctx))

	require.NoError(t, w.WriteRecords(ctx, makeBatch("one", "two")))

	// The batch must be on disk before Close: committed batches survive a
	// run that fails later.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(content))

	require.NoError(t, w.WriteRecords(ctx, makeBatch("three")))
	require.NoError(t, w.Close(ctx))

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(content))
}

func TestFlatFileRecordWriterTruncatesExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	w := writer.NewFlatFileRecordWriter(path)
	require.NoError(t, w.Open(ctx))
	require.NoError(t, w.WriteRecords(ctx, makeBatch("fresh")))
	require.NoError(t, w.Close(ctx))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(content))
}

func TestFlatFileRecordWriterCloseWithoutOpen(t *testing.T) {
	w := writer.NewFlatFileRecordWriter("never-opened.txt")
	assert.NoError(t, w.Close(context.Background()))
}

func TestFlatFileRecordWriterWriteWithoutOpen(t *testing.T) {
	w := writer.NewFlatFileRecordWriter("never-opened.txt")
	err := w.WriteRecords(context.Background(), makeBatch("x"))
	require.Error(t, err)
}

func TestFlatFileRecordWriterOpenFailsOnBadPath(t *testing.T) {
	w := writer.NewFlatFileRecordWriter(filepath.Join(t.TempDir(), "missing-dir", "out.txt"))
	err := w.Open(context.Background())
	require.Error(t, err)
	assert.NoError(t, w.Close(context.Background()))
}
