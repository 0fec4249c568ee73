package repository

import (
	"context"
	"errors"
	"time"

	"github.com/stemsi/bonafide-backend/internal/model"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
	ErrNotPending     = errors.New("request is no longer pending")
)

// Credentials pairs an account with its stored password hash.
type Credentials struct {
	User         model.User
	PasswordHash string
}

// IdentityRepository stores accounts, colleges and the admin/student profiles.
type IdentityRepository interface {
	// RegisterAdmin stores an admin account together with the college it owns.
	RegisterAdmin(ctx context.Context, u *model.User, passwordHash string, c *model.College, a *model.Admin) error
	// RegisterStudent stores a student account and its profile.
	RegisterStudent(ctx context.Context, u *model.User, passwordHash string, s *model.Student) error
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetCollege(ctx context.Context, id string) (*model.College, error)
	ListColleges(ctx context.Context) ([]model.College, error)
	// GetStudent and GetStudentByUserID return the profile with its User attached.
	GetStudent(ctx context.Context, id string) (*model.Student, error)
	GetStudentByUserID(ctx context.Context, userID string) (*model.Student, error)
	GetAdminByUserID(ctx context.Context, userID string) (*model.Admin, error)
	CountUsers(ctx context.Context) (int, error)
}

// LedgerRepository stores bonafide requests, newest first.
type LedgerRepository interface {
	Insert(ctx context.Context, r *model.BonafideRequest) error
	Get(ctx context.Context, id string) (*model.BonafideRequest, error)
	// SetStatus records a decision. It returns (nil, nil) when id is unknown.
	// certificate_path is set for approvals and cleared otherwise.
	SetStatus(ctx context.Context, id string, status model.RequestStatus, actor string, at time.Time) (*model.BonafideRequest, error)
	// Decide is SetStatus restricted to pending requests, checked and written
	// atomically. It returns ErrNotPending when the request was already decided
	// and (nil, nil) when id is unknown.
	Decide(ctx context.Context, id string, status model.RequestStatus, actor string, at time.Time) (*model.BonafideRequest, error)
	ListAll(ctx context.Context) ([]model.BonafideRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.BonafideRequest, error)
	ListByCollege(ctx context.Context, collegeID string) ([]model.BonafideRequest, error)
}

// applyDecision mutates r the same way for every backend.
func applyDecision(r *model.BonafideRequest, status model.RequestStatus, actor string, at time.Time) {
	r.Status = status
	processed := at
	by := actor
	r.ProcessedDate = &processed
	r.ProcessedBy = &by
	if status == model.StatusApproved {
		path := model.CertificatePathFor(r.ID)
		r.CertificatePath = &path
	} else {
		r.CertificatePath = nil
	}
}

var (
	_ IdentityRepository = (*MemoryIdentityRepository)(nil)
	_ IdentityRepository = (*PostgresIdentityRepository)(nil)
	_ LedgerRepository   = (*MemoryLedgerRepository)(nil)
	_ LedgerRepository   = (*PostgresLedgerRepository)(nil)
)
