package writer

import (
	"context"
	"fmt"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"

	entity "github.com/tigerroll/simplebatch/example/transactions/domain/entity"
	apprepo "github.com/tigerroll/simplebatch/example/transactions/repository"
)

// TransactionWriter stores parsed transactions through the application
// repository, one database transaction per batch.
type TransactionWriter struct {
	repo *apprepo.TransactionRepository
}

// NewTransactionWriter creates a writer over the given repository.
func NewTransactionWriter(repo *apprepo.TransactionRepository) *TransactionWriter {
	return &TransactionWriter{repo: repo}
}

// Open makes sure the target table exists before the first batch.
func (w *TransactionWriter) Open(ctx context.Context) error {
	return w.repo.EnsureSchema(ctx)
}

func (w *TransactionWriter) WriteRecords(ctx context.Context, batch *core.Batch) error {
	items := make([]*entity.Transaction, 0, batch.Size())
	for _, record := range batch.Records() {
		item, ok := record.Payload.(*entity.Transaction)
		if !ok {
			return fmt.Errorf("transaction writer expects *entity.Transaction payloads, got %T", record.Payload)
		}
		items = append(items, item)
	}
	return w.repo.SaveAll(ctx, items)
}

// Close is a no-op. The application owns the repository and closes it
// after the run.
func (w *TransactionWriter) Close(ctx context.Context) error {
	return nil
}

var _ core.RecordWriter = (*TransactionWriter)(nil)
