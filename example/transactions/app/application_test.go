package app_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	app "github.com/tigerroll/simplebatch/example/transactions/app"
	repository "github.com/tigerroll/simplebatch/example/transactions/repository"
	config "github.com/tigerroll/simplebatch/pkg/batch/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `id,account,amount,currency,occurred_at,category
tx-1,acc-9,12.50,eur,2026-01-05,groceries
tx-2,acc-9,twelve,eur,2026-01-06,groceries
tx-3,acc-8,7.00,usd,2026-01-07,transport
`

const jobTemplate = `name: transaction-import-test
batch-size: 2
error-threshold: %d
reader:
  ref: csvReader
  properties:
    skip-header: "true"
processor:
  ref: transactionParser
writer:
  ref: transactionWriter
`

func writeFeed(t *testing.T, dir string) string {
	t.Helper()
	input := filepath.Join(dir, "transactions.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleFeed), 0o644))
	return input
}

func configFor(t *testing.T, dir string) (string, []byte) {
	t.Helper()
	dbPath := filepath.Join(dir, "transactions.db")
	cfg := fmt.Sprintf("database:\n  type: sqlite\n  path: %s\nsystem:\n  logging:\n    level: ERROR\n", dbPath)
	return dbPath, []byte(cfg)
}

func openStore(t *testing.T, dbPath string) *repository.TransactionRepository {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = dbPath

	repo, err := repository.NewTransactionRepository(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repo.Close()) })
	return repo
}

func TestRunApplicationImportsFeed(t *testing.T) {
	dir := t.TempDir()
	input := writeFeed(t, dir)
	dbPath, cfg := configFor(t, dir)

	// One malformed row is within the threshold.
	jobDef := []byte(fmt.Sprintf(jobTemplate, 1))

	exitCode := app.RunApplication(context.Background(), "", cfg, jobDef, input)
	assert.Equal(t, 0, exitCode)

	repo := openStore(t, dbPath)
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	items, err := repo.FindByAccount(context.Background(), "acc-9")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "tx-1", items[0].ID)
}

func TestRunApplicationFailsBeyondThreshold(t *testing.T) {
	dir := t.TempDir()
	input := writeFeed(t, dir)
	_, cfg := configFor(t, dir)

	// Threshold zero makes the malformed row fatal.
	jobDef := []byte(fmt.Sprintf(jobTemplate, 0))

	exitCode := app.RunApplication(context.Background(), "", cfg, jobDef, input)
	assert.Equal(t, 1, exitCode)
}

func TestRunApplicationRejectsBrokenDefinition(t *testing.T) {
	dir := t.TempDir()
	input := writeFeed(t, dir)
	_, cfg := configFor(t, dir)

	exitCode := app.RunApplication(context.Background(), "", cfg, []byte("name: [broken"), input)
	assert.Equal(t, 1, exitCode)
}
