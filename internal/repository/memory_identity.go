package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/stemsi/bonafide-backend/internal/model"
)

type userRecord struct {
	user         model.User
	passwordHash string
}

// MemoryIdentityRepository keeps the identity tables in process memory.
// Construct one per process; tests construct their own.
type MemoryIdentityRepository struct {
	mu       sync.RWMutex
	users    []userRecord
	colleges []model.College
	students []model.Student
	admins   []model.Admin
}

// NewMemoryIdentityRepository creates an empty MemoryIdentityRepository.
func NewMemoryIdentityRepository() *MemoryIdentityRepository {
	return &MemoryIdentityRepository{}
}

func (r *MemoryIdentityRepository) emailTaken(email string) bool {
	for _, rec := range r.users {
		if strings.EqualFold(rec.user.Email, email) {
			return true
		}
	}
	return false
}

// RegisterAdmin stores the admin account, its college and its profile.
func (r *MemoryIdentityRepository) RegisterAdmin(_ context.Context, u *model.User, passwordHash string, c *model.College, a *model.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(u.Email) {
		return ErrDuplicateEmail
	}

	r.users = append(r.users, userRecord{user: *u, passwordHash: passwordHash})
	r.colleges = append(r.colleges, *c)
	stored := *a
	stored.User, stored.College = nil, nil
	r.admins = append(r.admins, stored)
	return nil
}

// RegisterStudent stores the student account and its profile.
func (r *MemoryIdentityRepository) RegisterStudent(_ context.Context, u *model.User, passwordHash string, s *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(u.Email) {
		return ErrDuplicateEmail
	}

	r.users = append(r.users, userRecord{user: *u, passwordHash: passwordHash})
	stored := *s
	stored.User, stored.College = nil, nil
	r.students = append(r.students, stored)
	return nil
}

// GetCredentials looks an account up by email.
func (r *MemoryIdentityRepository) GetCredentials(_ context.Context, email string) (*Credentials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.users {
		if strings.EqualFold(rec.user.Email, email) {
			return &Credentials{User: rec.user, PasswordHash: rec.passwordHash}, nil
		}
	}
	return nil, ErrNotFound
}

// GetUser retrieves an account by ID.
func (r *MemoryIdentityRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u := r.findUser(id); u != nil {
		return u, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryIdentityRepository) findUser(id string) *model.User {
	for _, rec := range r.users {
		if rec.user.ID == id {
			u := rec.user
			return &u
		}
	}
	return nil
}

// GetCollege retrieves a college by ID.
func (r *MemoryIdentityRepository) GetCollege(_ context.Context, id string) (*model.College, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.colleges {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// ListColleges returns all colleges in registration order.
func (r *MemoryIdentityRepository) ListColleges(_ context.Context) ([]model.College, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.College, len(r.colleges))
	copy(out, r.colleges)
	return out, nil
}

// GetStudent retrieves a student profile by ID with its user attached.
func (r *MemoryIdentityRepository) GetStudent(_ context.Context, id string) (*model.Student, error) {
	return r.findStudent(func(s *model.Student) bool { return s.ID == id })
}

// GetStudentByUserID retrieves the student profile of an account.
func (r *MemoryIdentityRepository) GetStudentByUserID(_ context.Context, userID string) (*model.Student, error) {
	return r.findStudent(func(s *model.Student) bool { return s.UserID == userID })
}

func (r *MemoryIdentityRepository) findStudent(match func(*model.Student) bool) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.students {
		if match(&r.students[i]) {
			s := r.students[i]
			s.User = r.findUser(s.UserID)
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

// GetAdminByUserID retrieves the admin profile of an account.
func (r *MemoryIdentityRepository) GetAdminByUserID(_ context.Context, userID string) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.admins {
		if a.UserID == userID {
			found := a
			found.User = r.findUser(a.UserID)
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// CountUsers returns the size of the identity table.
func (r *MemoryIdentityRepository) CountUsers(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}
