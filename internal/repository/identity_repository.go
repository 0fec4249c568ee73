package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/bonafide-backend/internal/model"
)

// PostgresIdentityRepository is the PostgreSQL-backed IdentityRepository.
// Student and admin queries live in student_repository.go and admin_repository.go.
type PostgresIdentityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresIdentityRepository creates a new PostgresIdentityRepository.
func NewPostgresIdentityRepository(pool *pgxpool.Pool) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func insertUser(ctx context.Context, tx pgx.Tx, u *model.User, passwordHash string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO users (id, full_name, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.FullName, u.Email, passwordHash, string(u.Role), u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetCredentials looks an account up by email.
func (r *PostgresIdentityRepository) GetCredentials(ctx context.Context, email string) (*Credentials, error) {
	c := &Credentials{}
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT id, full_name, email, role, created_at, password_hash
		 FROM users WHERE lower(email) = lower($1)`, email,
	).Scan(&c.User.ID, &c.User.FullName, &c.User.Email, &role, &c.User.CreatedAt, &c.PasswordHash)
	if err != nil {
		return nil, notFound(err)
	}
	c.User.Role = model.Role(role)
	return c, nil
}

// GetUser retrieves an account by ID.
func (r *PostgresIdentityRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT id, full_name, email, role, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.FullName, &u.Email, &role, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	u.Role = model.Role(role)
	return u, nil
}

// GetCollege retrieves a college by ID.
func (r *PostgresIdentityRepository) GetCollege(ctx context.Context, id string) (*model.College, error) {
	c := &model.College{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, logo, address, admin_id, created_at FROM colleges WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Logo, &c.Address, &c.AdminID, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// ListColleges returns all colleges in registration order.
func (r *PostgresIdentityRepository) ListColleges(ctx context.Context) ([]model.College, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, logo, address, admin_id, created_at FROM colleges ORDER BY created_at, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colleges := []model.College{}
	for rows.Next() {
		var c model.College
		if err := rows.Scan(&c.ID, &c.Name, &c.Logo, &c.Address, &c.AdminID, &c.CreatedAt); err != nil {
			return nil, err
		}
		colleges = append(colleges, c)
	}
	return colleges, rows.Err()
}

// CountUsers returns the size of the identity table.
func (r *PostgresIdentityRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
