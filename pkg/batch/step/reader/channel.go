package reader

import (
	"context"
	"time"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// ChannelRecordReader turns a payload channel into a record source, which
// lets a producer goroutine feed a job while it runs. The stream ends when
// the producer closes the channel.
type ChannelRecordReader struct {
	source   string
	payloads <-chan interface{}
	number   int64
}

// NewChannelRecordReader creates a reader draining payloads. The caller
// owns the channel and must close it to end the stream.
func NewChannelRecordReader(source string, payloads <-chan interface{}) *ChannelRecordReader {
	return &ChannelRecordReader{source: source, payloads: payloads}
}

func (r *ChannelRecordReader) Open(ctx context.Context) error {
	return nil
}

// ReadRecord blocks until a payload arrives, the channel closes or the
// context is cancelled. Cancellation ends the stream rather than failing
// the read: the engine notices the cancelled context on its own and
// reports the run as aborted.
func (r *ChannelRecordReader) ReadRecord(ctx context.Context) (*core.Record, error) {
	select {
	case <-ctx.Done():
		return nil, nil
	case payload, ok := <-r.payloads:
		if !ok {
			return nil, nil
		}
		r.number++
		header := &core.Header{
			Number:       r.number,
			Source:       r.source,
			CreationTime: time.Now(),
		}
		return core.NewRecord(header, payload), nil
	}
}

func (r *ChannelRecordReader) Close(ctx context.Context) error {
	return nil
}

var _ core.RecordReader = (*ChannelRecordReader)(nil)
