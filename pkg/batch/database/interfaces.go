package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// DBConnection is the narrow database surface the repositories depend
// on. *sql.DB satisfies it directly, tests substitute fakes.
type DBConnection interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	PingContext(ctx context.Context) error
	Close() error
}

var _ DBConnection = (*sql.DB)(nil)

// Rebind rewrites ? placeholders into the $N form for databases that
// expect it. Queries are written with ? throughout the module.
func Rebind(query, dbType string) string {
	switch strings.ToLower(dbType) {
	case "postgres", "redshift":
	default:
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
