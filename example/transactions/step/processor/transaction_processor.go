package processor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"

	entity "github.com/tigerroll/simplebatch/example/transactions/domain/entity"
)

// transactionFields is the column count of the input feed:
// id, account, amount, currency, occurred_at, category.
const transactionFields = 6

// TransactionParser turns raw CSV rows into Transaction entities.
// Rows that do not parse fail the record, not the run, as long as the
// job's error threshold tolerates them.
type TransactionParser struct{}

// NewTransactionParser creates a parser for the transaction feed.
func NewTransactionParser() *TransactionParser {
	return &TransactionParser{}
}

func (p *TransactionParser) ProcessRecord(ctx context.Context, record *core.Record) (*core.Record, error) {
	row, ok := record.Payload.([]string)
	if !ok {
		return nil, fmt.Errorf("transaction parser expects a []string payload, got %T", record.Payload)
	}
	if len(row) != transactionFields {
		return nil, fmt.Errorf("%s has %d field(s), want %d", record.Header, len(row), transactionFields)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("%s has an invalid amount %q: %w", record.Header, row[2], err)
	}
	occurredAt, err := time.Parse("2006-01-02", strings.TrimSpace(row[4]))
	if err != nil {
		return nil, fmt.Errorf("%s has an invalid date %q: %w", record.Header, row[4], err)
	}

	item := &entity.Transaction{
		ID:         strings.TrimSpace(row[0]),
		Account:    strings.TrimSpace(row[1]),
		Amount:     amount,
		Currency:   strings.ToUpper(strings.TrimSpace(row[3])),
		OccurredAt: occurredAt,
		Category:   strings.TrimSpace(row[5]),
	}
	if item.ID == "" {
		return nil, fmt.Errorf("%s has no transaction id", record.Header)
	}
	return core.NewRecord(record.Header, item), nil
}

var _ core.RecordProcessor = (*TransactionParser)(nil)
