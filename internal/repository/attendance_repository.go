package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// ExportFilter selects attendance rows for export. At least one field must be
// set; that guarantee lives in the report service so every caller gets it.
type ExportFilter struct {
	ClassID      *string
	DepartmentID *string
	From         *time.Time
	To           *time.Time
}

// Empty reports whether no filter field is set.
func (f ExportFilter) Empty() bool {
	return f.ClassID == nil && f.DepartmentID == nil && f.From == nil && f.To == nil
}

// AttendanceRepository is the append-only attendance record log.
type AttendanceRepository interface {
	// RecordSubmission inserts the record and increments the owning token's
	// usage count as one atomic unit. A second record for the same
	// (token, student) pair fails with DUPLICATE_SUBMISSION.
	RecordSubmission(ctx context.Context, record *domain.AttendanceRecord) error
	Exists(ctx context.Context, tokenID, studentID string) (bool, error)
	CountAll(ctx context.Context) (int64, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	// CountByDay groups records by calendar day in the given timezone. Keys
	// use the 2006-01-02 layout; absent days are simply absent.
	CountByDay(ctx context.Context, from, to time.Time, timezone string) (map[string]int64, error)
	ListFiltered(ctx context.Context, filter ExportFilter) ([]domain.ExportRow, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository instantiates repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

func (r *attendanceRepository) RecordSubmission(ctx context.Context, record *domain.AttendanceRecord) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertQuery = `
        INSERT INTO attendance_records (id, token_id, student_id, submitted_at, timeliness)
        VALUES ($1,$2,$3,$4,$5)`
	if _, err := tx.Exec(ctx, insertQuery,
		record.ID,
		record.TokenID,
		record.StudentID,
		record.SubmittedAt,
		record.Timeliness,
	); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictCode(apperrors.CodeDuplicateSubmission, "attendance already submitted for this token")
		}
		return err
	}

	const usageQuery = `UPDATE tokens SET usage_count = usage_count + 1 WHERE id=$1`
	if _, err := tx.Exec(ctx, usageQuery, record.TokenID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *attendanceRepository) Exists(ctx context.Context, tokenID, studentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM attendance_records WHERE token_id=$1 AND student_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, tokenID, studentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *attendanceRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *attendanceRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	const query = `SELECT COUNT(*) FROM attendance_records WHERE submitted_at >= $1 AND submitted_at < $2`
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *attendanceRepository) CountByDay(ctx context.Context, from, to time.Time, timezone string) (map[string]int64, error) {
	const query = `
        SELECT to_char(submitted_at AT TIME ZONE $3, 'YYYY-MM-DD') AS day, COUNT(*)
        FROM attendance_records
        WHERE submitted_at >= $1 AND submitted_at < $2
        GROUP BY day`
	rows, err := r.pool.Query(ctx, query, from, to, timezone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var day string
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day] = count
	}
	return counts, rows.Err()
}

func (r *attendanceRepository) ListFiltered(ctx context.Context, filter ExportFilter) ([]domain.ExportRow, error) {
	base := `SELECT ar.id, s.id, s.name, s.nisn, c.id, c.name, d.id, d.name,
                    t.id, t.code, ar.submitted_at, ar.timeliness
             FROM attendance_records ar
             JOIN students s ON s.id = ar.student_id
             JOIN classes c ON c.id = s.class_id
             JOIN departments d ON d.id = c.department_id
             JOIN tokens t ON t.id = ar.token_id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClassID != nil {
		args = append(args, *filter.ClassID)
		clauses = append(clauses, fmt.Sprintf("c.id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("d.id=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("ar.submitted_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("ar.submitted_at < $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY ar.submitted_at ASC`, base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ExportRow
	for rows.Next() {
		var row domain.ExportRow
		if err := rows.Scan(
			&row.RecordID,
			&row.StudentID,
			&row.StudentName,
			&row.NISN,
			&row.ClassID,
			&row.ClassName,
			&row.DepartmentID,
			&row.DepartmentName,
			&row.TokenID,
			&row.TokenCode,
			&row.SubmittedAt,
			&row.Timeliness,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
