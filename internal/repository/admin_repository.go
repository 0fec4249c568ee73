package repository

import (
	"context"
	"fmt"

	"github.com/stemsi/bonafide-backend/internal/model"
)

// RegisterAdmin inserts the account, the college it owns and the admin profile
// in one transaction.
func (r *PostgresIdentityRepository) RegisterAdmin(ctx context.Context, u *model.User, passwordHash string, c *model.College, a *model.Admin) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertUser(ctx, tx, u, passwordHash); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO colleges (id, name, logo, address, admin_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Logo, c.Address, c.AdminID, c.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert college: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO admins (id, user_id, college_id) VALUES ($1, $2, $3)`,
		a.ID, a.UserID, a.CollegeID,
	); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}

	return tx.Commit(ctx)
}

// GetAdminByUserID retrieves the admin profile of an account.
func (r *PostgresIdentityRepository) GetAdminByUserID(ctx context.Context, userID string) (*model.Admin, error) {
	a := &model.Admin{User: &model.User{}}
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT a.id, a.user_id, a.college_id, u.full_name, u.email, u.role, u.created_at
		 FROM admins a JOIN users u ON a.user_id = u.id
		 WHERE a.user_id = $1`, userID,
	).Scan(&a.ID, &a.UserID, &a.CollegeID, &a.User.FullName, &a.User.Email, &role, &a.User.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	a.User.ID = a.UserID
	a.User.Role = model.Role(role)
	return a, nil
}
