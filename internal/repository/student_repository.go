package repository

import (
	"context"
	"fmt"

	"github.com/stemsi/bonafide-backend/internal/model"
)

// RegisterStudent inserts the account and its student profile in one transaction.
func (r *PostgresIdentityRepository) RegisterStudent(ctx context.Context, u *model.User, passwordHash string, s *model.Student) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertUser(ctx, tx, u, passwordHash); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO students (id, user_id, roll_no, department, course, college_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, s.RollNo, s.Department, s.Course, s.CollegeID,
	); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}

	return tx.Commit(ctx)
}

const studentSelect = `SELECT s.id, s.user_id, s.roll_no, s.department, s.course, s.college_id,
	        u.full_name, u.email, u.role, u.created_at
	 FROM students s JOIN users u ON s.user_id = u.id`

// GetStudent retrieves a student by ID with its account attached.
func (r *PostgresIdentityRepository) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	return r.scanStudent(ctx, studentSelect+` WHERE s.id = $1`, id)
}

// GetStudentByUserID retrieves the student profile of an account.
func (r *PostgresIdentityRepository) GetStudentByUserID(ctx context.Context, userID string) (*model.Student, error) {
	return r.scanStudent(ctx, studentSelect+` WHERE s.user_id = $1`, userID)
}

func (r *PostgresIdentityRepository) scanStudent(ctx context.Context, query, arg string) (*model.Student, error) {
	s := &model.Student{User: &model.User{}}
	var role string
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.UserID, &s.RollNo, &s.Department, &s.Course, &s.CollegeID,
		&s.User.FullName, &s.User.Email, &role, &s.User.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	s.User.ID = s.UserID
	s.User.Role = model.Role(role)
	return s, nil
}
