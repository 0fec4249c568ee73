package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/bonafide-backend/internal/model"
)

// PostgresLedgerRepository is the PostgreSQL-backed request ledger.
type PostgresLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLedgerRepository creates a new PostgresLedgerRepository.
func NewPostgresLedgerRepository(pool *pgxpool.Pool) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{pool: pool}
}

const requestColumns = `id, student_id, college_id, purpose, academic_year, year, contact_info,
	status, certificate_path, request_date, processed_date, processed_by`

// Insert stores a new request. Ordering uses the serial seq column.
func (l *PostgresLedgerRepository) Insert(ctx context.Context, r *model.BonafideRequest) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO bonafide_requests (id, student_id, college_id, purpose, academic_year, year, contact_info, status, request_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.StudentID, r.CollegeID, r.Purpose, r.AcademicYear, r.Year, r.ContactInfo, string(r.Status), r.RequestDate,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// Get retrieves a request by ID.
func (l *PostgresLedgerRepository) Get(ctx context.Context, id string) (*model.BonafideRequest, error) {
	r, err := scanRequest(l.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM bonafide_requests WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

// SetStatus records a decision on a request; unknown IDs are a no-op.
func (l *PostgresLedgerRepository) SetStatus(ctx context.Context, id string, status model.RequestStatus, actor string, at time.Time) (*model.BonafideRequest, error) {
	r, err := scanRequest(l.pool.QueryRow(ctx,
		`UPDATE bonafide_requests
		 SET status = $2, processed_date = $3, processed_by = $4, certificate_path = $5
		 WHERE id = $1
		 RETURNING `+requestColumns,
		id, string(status), at, actor, certificatePath(id, status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update request status: %w", err)
	}
	return r, nil
}

// Decide records a decision only while the request is still pending. The
// status condition is part of the UPDATE, so concurrent decisions on one
// request cannot both succeed.
func (l *PostgresLedgerRepository) Decide(ctx context.Context, id string, status model.RequestStatus, actor string, at time.Time) (*model.BonafideRequest, error) {
	r, err := scanRequest(l.pool.QueryRow(ctx,
		`UPDATE bonafide_requests
		 SET status = $2, processed_date = $3, processed_by = $4, certificate_path = $5
		 WHERE id = $1 AND status = $6
		 RETURNING `+requestColumns,
		id, string(status), at, actor, certificatePath(id, status), string(model.StatusPending)))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decide request: %w", err)
	}

	var exists bool
	if err := l.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bonafide_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check request: %w", err)
	}
	if exists {
		return nil, ErrNotPending
	}
	return nil, nil
}

// ListAll returns every request, newest first.
func (l *PostgresLedgerRepository) ListAll(ctx context.Context) ([]model.BonafideRequest, error) {
	return l.list(ctx, `SELECT `+requestColumns+` FROM bonafide_requests ORDER BY seq DESC`)
}

// ListByStudent returns the requests of one student, newest first.
func (l *PostgresLedgerRepository) ListByStudent(ctx context.Context, studentID string) ([]model.BonafideRequest, error) {
	return l.list(ctx, `SELECT `+requestColumns+` FROM bonafide_requests WHERE student_id = $1 ORDER BY seq DESC`, studentID)
}

// ListByCollege returns the requests of students of one college, newest first.
func (l *PostgresLedgerRepository) ListByCollege(ctx context.Context, collegeID string) ([]model.BonafideRequest, error) {
	return l.list(ctx, `SELECT `+requestColumns+` FROM bonafide_requests WHERE college_id = $1 ORDER BY seq DESC`, collegeID)
}

func (l *PostgresLedgerRepository) list(ctx context.Context, query string, args ...any) ([]model.BonafideRequest, error) {
	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []model.BonafideRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

func certificatePath(id string, status model.RequestStatus) *string {
	if status != model.StatusApproved {
		return nil
	}
	p := model.CertificatePathFor(id)
	return &p
}

func scanRequest(row pgx.Row) (*model.BonafideRequest, error) {
	r := &model.BonafideRequest{}
	var status string
	err := row.Scan(&r.ID, &r.StudentID, &r.CollegeID, &r.Purpose, &r.AcademicYear, &r.Year, &r.ContactInfo,
		&status, &r.CertificatePath, &r.RequestDate, &r.ProcessedDate, &r.ProcessedBy)
	if err != nil {
		return nil, err
	}
	r.Status = model.RequestStatus(status)
	return r, nil
}
