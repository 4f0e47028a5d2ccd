package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	database "github.com/tigerroll/simplebatch/pkg/batch/database"
	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
	serialization "github.com/tigerroll/simplebatch/pkg/batch/util/serialization"
)

// reportColumns is the canonical column list of batch_job_reports.
const reportColumns = "execution_id, job_name, status, start_time, end_time, " +
	"read_count, write_count, filter_count, error_count, " +
	"last_error_kind, last_error, parameters, system_info"

// SQLReportRepository is the ReportRepository implementation over a SQL
// database prepared by database.Open and database.RunMigrations.
type SQLReportRepository struct {
	conn   database.DBConnection
	dbType string
}

// NewSQLReportRepository creates a repository over conn. dbType selects
// the placeholder dialect.
func NewSQLReportRepository(conn database.DBConnection, dbType string) *SQLReportRepository {
	return &SQLReportRepository{conn: conn, dbType: strings.ToLower(dbType)}
}

func (r *SQLReportRepository) SaveReport(ctx context.Context, report *core.JobReport) error {
	if report == nil {
		return exception.NewBatchErrorf(exception.KindPersistence, module, "cannot save a nil report")
	}

	paramsJSON, err := serialization.MarshalJobParameters(report.Parameters)
	if err != nil {
		return err
	}
	infoJSON, err := serialization.MarshalSystemInfo(report.SystemInfo)
	if err != nil {
		return err
	}

	query := r.rebind("INSERT INTO batch_job_reports (" + reportColumns + ") " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	_, err = r.conn.ExecContext(ctx, query,
		report.ExecutionID,
		report.JobName,
		string(report.Status),
		sql.NullTime{Time: report.Metrics.StartTime, Valid: !report.Metrics.StartTime.IsZero()},
		sql.NullTime{Time: report.Metrics.EndTime, Valid: !report.Metrics.EndTime.IsZero()},
		report.Metrics.ReadCount,
		report.Metrics.WriteCount,
		report.Metrics.FilterCount,
		report.Metrics.ErrorCount,
		string(exception.KindOf(report.LastError)),
		report.LastErrorMessage(),
		string(paramsJSON),
		string(infoJSON),
	)
	if err != nil {
		return exception.NewBatchError(exception.KindPersistence, module,
			fmt.Sprintf("failed to save report for execution %s", report.ExecutionID), err)
	}

	logger.Debugf("saved report for execution %s", report.ExecutionID)
	return nil
}

func (r *SQLReportRepository) FindReportByID(ctx context.Context, executionID string) (*core.JobReport, error) {
	query := r.rebind("SELECT " + reportColumns + " FROM batch_job_reports WHERE execution_id = ?")
	report, err := scanReport(r.conn.QueryRowContext(ctx, query, executionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, exception.NewBatchError(exception.KindPersistence, module,
			fmt.Sprintf("failed to load report for execution %s", executionID), err)
	}
	return report, nil
}

func (r *SQLReportRepository) FindReportsByJobName(ctx context.Context, jobName string, limit int) ([]*core.JobReport, error) {
	query := "SELECT " + reportColumns + " FROM batch_job_reports " +
		"WHERE job_name = ? ORDER BY start_time DESC, execution_id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := r.conn.QueryContext(ctx, r.rebind(query), jobName)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module,
			fmt.Sprintf("failed to query reports for job '%s'", jobName), err)
	}
	defer rows.Close()

	reports := make([]*core.JobReport, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, exception.NewBatchError(exception.KindPersistence, module,
				fmt.Sprintf("failed to scan report row for job '%s'", jobName), err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module,
			fmt.Sprintf("failed to iterate report rows for job '%s'", jobName), err)
	}
	return reports, nil
}

func (r *SQLReportRepository) Close() error {
	if err := r.conn.Close(); err != nil {
		return exception.NewBatchError(exception.KindPersistence, module, "failed to close database connection", err)
	}
	logger.Debugf("closed report repository database connection")
	return nil
}

func (r *SQLReportRepository) rebind(query string) string {
	return database.Rebind(query, r.dbType)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*core.JobReport, error) {
	var (
		executionID, jobName, status string
		startTime, endTime           sql.NullTime
		readCount, writeCount        int64
		filterCount, errorCount      int64
		lastErrorKind, lastError     sql.NullString
		paramsJSON, infoJSON         []byte
	)
	if err := row.Scan(&executionID, &jobName, &status, &startTime, &endTime,
		&readCount, &writeCount, &filterCount, &errorCount,
		&lastErrorKind, &lastError, &paramsJSON, &infoJSON); err != nil {
		return nil, err
	}

	parameters, err := serialization.UnmarshalJobParameters(paramsJSON)
	if err != nil {
		return nil, err
	}
	systemInfo, err := serialization.UnmarshalSystemInfo(infoJSON)
	if err != nil {
		return nil, err
	}

	metrics := core.NewJobMetrics()
	if startTime.Valid {
		metrics.StartTime = startTime.Time
	}
	if endTime.Valid {
		metrics.EndTime = endTime.Time
	}
	metrics.ReadCount = readCount
	metrics.WriteCount = writeCount
	metrics.FilterCount = filterCount
	metrics.ErrorCount = errorCount

	return &core.JobReport{
		ExecutionID: executionID,
		JobName:     jobName,
		Parameters:  parameters,
		Metrics:     metrics,
		Status:      core.JobStatus(status),
		LastError:   restoreLastError(lastErrorKind.String, lastError.String),
		SystemInfo:  systemInfo,
	}, nil
}

// restoreLastError rebuilds the persisted failure. Only the kind and the
// message survive the round trip.
func restoreLastError(kind, message string) error {
	if message == "" {
		return nil
	}
	if kind == "" {
		return errors.New(message)
	}
	return &exception.BatchError{
		Kind:    exception.ErrorKind(kind),
		Module:  "restored",
		Message: message,
	}
}

var _ ReportRepository = (*SQLReportRepository)(nil)
