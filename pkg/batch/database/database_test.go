package database_test

import (
	"context"
	"path/filepath"
	"testing"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	database "github.com/tigerroll/simplebatch/pkg/batch/database"
	connector "github.com/tigerroll/simplebatch/pkg/batch/database/connector"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedTypesAreRegistered(t *testing.T) {
	types := connector.SupportedTypes()
	for _, want := range []string{"mysql", "postgres", "redshift", "snowflake", "sqlite"} {
		assert.Contains(t, types, want)
	}
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := database.Open(context.Background(), config.DatabaseConfig{Type: "oracle"})
	require.Error(t, err)
	assert.Equal(t, exception.KindConfiguration, exception.KindOf(err))
	assert.Contains(t, err.Error(), "unsupported database type 'oracle'")
	assert.Contains(t, err.Error(), "sqlite")
}

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := database.Open(context.Background(), config.DatabaseConfig{Type: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	var one int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpenSQLiteFile(t *testing.T) {
	cfg := config.DatabaseConfig{
		Type: "sqlite",
		Path: filepath.Join(t.TempDir(), "batch.db"),
	}

	db, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	_, err = db.ExecContext(context.Background(), "CREATE TABLE probe (id INTEGER)")
	assert.NoError(t, err)
}

func TestRunMigrationsCreatesReportTable(t *testing.T) {
	db, err := database.Open(context.Background(), config.DatabaseConfig{Type: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	require.NoError(t, database.RunMigrations(db, "sqlite"))

	var count int
	err = db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM batch_job_reports").Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunMigrationsRejectsUnknownDialect(t *testing.T) {
	db, err := database.Open(context.Background(), config.DatabaseConfig{Type: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	err = database.RunMigrations(db, "oracle")
	require.Error(t, err)
	assert.Equal(t, exception.KindConfiguration, exception.KindOf(err))
	assert.Contains(t, err.Error(), "no migration driver")
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		dbType string
		want   string
	}{
		{
			name:   "postgres numbered",
			query:  "INSERT INTO t (a, b) VALUES (?, ?)",
			dbType: "postgres",
			want:   "INSERT INTO t (a, b) VALUES ($1, $2)",
		},
		{
			name:   "redshift numbered",
			query:  "SELECT * FROM t WHERE a = ?",
			dbType: "redshift",
			want:   "SELECT * FROM t WHERE a = $1",
		},
		{
			name:   "mysql untouched",
			query:  "SELECT * FROM t WHERE a = ?",
			dbType: "mysql",
			want:   "SELECT * FROM t WHERE a = ?",
		},
		{
			name:   "sqlite untouched",
			query:  "SELECT * FROM t WHERE a = ? AND b = ?",
			dbType: "sqlite",
			want:   "SELECT * FROM t WHERE a = ? AND b = ?",
		},
		{
			name:   "no placeholders",
			query:  "SELECT COUNT(*) FROM t",
			dbType: "postgres",
			want:   "SELECT COUNT(*) FROM t",
		},
		{
			name:   "case insensitive type",
			query:  "DELETE FROM t WHERE a = ?",
			dbType: "Postgres",
			want:   "DELETE FROM t WHERE a = $1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, database.Rebind(tt.query, tt.dbType))
		})
	}
}
