package core

import (
	"fmt"
	"time"
)

// Header carries diagnostic metadata for a record. It never influences
// processing decisions.
type Header struct {
	// Number is the 1-based ordinal assigned by the reader.
	Number int64
	// Source describes where the record came from.
	Source string
	// CreationTime is the moment the record was read.
	CreationTime time.Time
}

func (h *Header) String() string {
	return fmt.Sprintf("record #%d from %s", h.Number, h.Source)
}

// Record is one unit of data flowing through the pipeline. The payload is
// opaque to the engine. Records are not mutated after creation.
type Record struct {
	Header  *Header
	Payload interface{}
}

// NewRecord creates a Record with the given header and payload.
func NewRecord(header *Header, payload interface{}) *Record {
	return &Record{Header: header, Payload: payload}
}

// Batch is an ordered group of records accumulated during one read cycle
// and written together.
type Batch struct {
	records []*Record
}

// NewBatch creates an empty batch with the given capacity hint.
func NewBatch(capacity int) *Batch {
	if capacity < 0 {
		capacity = 0
	}
	return &Batch{records: make([]*Record, 0, capacity)}
}

// Add appends a record to the batch.
func (b *Batch) Add(record *Record) {
	b.records = append(b.records, record)
}

// Records returns the records in insertion order. The returned slice is
// backed by the batch and must not be modified.
func (b *Batch) Records() []*Record {
	return b.records
}

// Size returns the number of records in the batch.
func (b *Batch) Size() int {
	return len(b.records)
}

// IsEmpty reports whether the batch holds no records.
func (b *Batch) IsEmpty() bool {
	return len(b.records) == 0
}

// RecordTracker tracks whether the record source still has records. The
// flag starts true and flips to false exactly once, on the first
// end-of-source signal. It never flips back.
type RecordTracker struct {
	moreRecords bool
}

// NewRecordTracker creates a tracker reporting more records available.
func NewRecordTracker() *RecordTracker {
	return &RecordTracker{moreRecords: true}
}

// MoreRecords reports whether the source may still yield records.
func (t *RecordTracker) MoreRecords() bool {
	return t.moreRecords
}

// NoMoreRecords marks the source exhausted.
func (t *RecordTracker) NoMoreRecords() {
	t.moreRecords = false
}
