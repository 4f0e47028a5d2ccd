package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	database "github.com/tigerroll/simplebatch/pkg/batch/database"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"

	entity "github.com/tigerroll/simplebatch/example/transactions/domain/entity"
)

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
    id          VARCHAR(64) PRIMARY KEY,
    account     VARCHAR(64) NOT NULL,
    amount      DOUBLE PRECISION NOT NULL,
    currency    VARCHAR(8) NOT NULL,
    occurred_at TIMESTAMP NOT NULL,
    category    VARCHAR(64) NOT NULL
)`

// TransactionRepository stores imported transactions in the application
// database. It owns its connection, separate from the report store.
type TransactionRepository struct {
	db     *sql.DB
	dbType string
}

// NewTransactionRepository opens a connection for the configured
// database and returns a repository over it.
func NewTransactionRepository(ctx context.Context, cfg *config.Config) (*TransactionRepository, error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &TransactionRepository{db: db, dbType: strings.ToLower(cfg.Database.Type)}, nil
}

// EnsureSchema creates the transactions table when it does not exist.
func (r *TransactionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTransactionsTable); err != nil {
		return fmt.Errorf("create transactions table: %w", err)
	}
	return nil
}

// SaveAll inserts the given transactions in a single database
// transaction. Either all of them are stored or none.
func (r *TransactionRepository) SaveAll(ctx context.Context, items []*entity.Transaction) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, database.Rebind(
		"INSERT INTO transactions (id, account, amount, currency, occurred_at, category) "+
			"VALUES (?, ?, ?, ?, ?, ?)", r.dbType))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		select {
		case <-ctx.Done():
			tx.Rollback()
			return ctx.Err()
		default:
		}
		if _, err := stmt.ExecContext(ctx,
			item.ID, item.Account, item.Amount, item.Currency, item.OccurredAt, item.Category); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert transaction %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction batch: %w", err)
	}
	logger.Debugf("stored %d transaction(s)", len(items))
	return nil
}

// Count returns the number of stored transactions.
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

// FindByAccount returns the stored transactions of one account, oldest
// first.
func (r *TransactionRepository) FindByAccount(ctx context.Context, account string) ([]*entity.Transaction, error) {
	query := database.Rebind(
		"SELECT id, account, amount, currency, occurred_at, category "+
			"FROM transactions WHERE account = ? ORDER BY occurred_at", r.dbType)
	rows, err := r.db.QueryContext(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("query transactions of account %s: %w", account, err)
	}
	defer rows.Close()

	var items []*entity.Transaction
	for rows.Next() {
		item := &entity.Transaction{}
		if err := rows.Scan(&item.ID, &item.Account, &item.Amount, &item.Currency, &item.OccurredAt, &item.Category); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return items, nil
}

// Close releases the database connection.
func (r *TransactionRepository) Close() error {
	return r.db.Close()
}
