package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/repository"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

// Identity errors.
var (
	ErrDuplicateEmail   = errors.New("user with this email already exists")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrProfileNotFound  = errors.New("profile not found")
)

// ValidationError carries per-field messages for input the binding layer
// cannot check on its own.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Profile is the role-specific view of the current account.
type Profile struct {
	User    model.User     `json:"user"`
	Student *model.Student `json:"student,omitempty"`
	Admin   *model.Admin   `json:"admin,omitempty"`
}

// IdentityService registers and authenticates accounts.
type IdentityService struct {
	repo repository.IdentityRepository
	auth *AuthService
	log  zerolog.Logger
	now  func() time.Time
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(repo repository.IdentityRepository, auth *AuthService, log zerolog.Logger) *IdentityService {
	return &IdentityService{
		repo: repo,
		auth: auth,
		log:  log.With().Str("component", "identity_service").Logger(),
		now:  time.Now,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Admins create their college in the same step;
// students are linked to req.CollegeID as given.
func (s *IdentityService) Register(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if req.Role == model.RoleStudent {
		fields := map[string]string{}
		if !model.IsOption(model.Departments, req.Department) {
			fields["department"] = "department must be one of [" + strings.Join(model.Departments, " ") + "]"
		}
		if !model.IsOption(model.Courses, req.Course) {
			fields["course"] = "course must be one of [" + strings.Join(model.Courses, " ") + "]"
		}
		if len(fields) > 0 {
			return nil, &ValidationError{Fields: fields}
		}
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		ID:        uuid.New().String(),
		FullName:  strings.TrimSpace(req.FullName),
		Email:     NormalizeEmail(req.Email),
		Role:      req.Role,
		CreatedAt: now,
	}

	switch req.Role {
	case model.RoleAdmin:
		college := &model.College{
			ID:        uuid.New().String(),
			Name:      strings.TrimSpace(req.CollegeName),
			Logo:      strings.TrimSpace(req.CollegeLogo),
			Address:   strings.TrimSpace(req.CollegeAddress),
			AdminID:   user.ID,
			CreatedAt: now,
		}
		admin := &model.Admin{ID: uuid.New().String(), UserID: user.ID, CollegeID: college.ID}
		err = s.repo.RegisterAdmin(ctx, user, hash, college, admin)
	case model.RoleStudent:
		student := &model.Student{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			RollNo:     strings.TrimSpace(req.RollNo),
			Department: req.Department,
			Course:     req.Course,
			CollegeID:  strings.TrimSpace(req.CollegeID),
		}
		err = s.repo.RegisterStudent(ctx, user, hash, student)
	default:
		return nil, &ValidationError{Fields: map[string]string{"role": "role must be one of [admin student]"}}
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register %s: %w", req.Role, err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("Account registered")
	return user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords both
// return ErrInvalidCredentials.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	creds, err := s.repo.GetCredentials(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.auth.RejectPassword(password)
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	if err := s.auth.CheckPassword(creds.PasswordHash, password); err != nil {
		return nil, err
	}
	user := creds.User
	return &user, nil
}

// Profile returns the student or admin profile of user with its college attached.
func (s *IdentityService) Profile(ctx context.Context, user *model.User) (*Profile, error) {
	p := &Profile{User: *user}
	switch user.Role {
	case model.RoleStudent:
		st, err := s.StudentForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		p.Student = st
	case model.RoleAdmin:
		a, err := s.AdminForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		p.Admin = a
	default:
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// StudentForUser returns the student profile of an account. The college is
// attached when it exists.
func (s *IdentityService) StudentForUser(ctx context.Context, userID string) (*model.Student, error) {
	st, err := s.repo.GetStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	st.College, err = s.college(ctx, st.CollegeID)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// AdminForUser returns the admin profile of an account with its college attached.
func (s *IdentityService) AdminForUser(ctx context.Context, userID string) (*model.Admin, error) {
	a, err := s.repo.GetAdminByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	a.College, err = s.college(ctx, a.CollegeID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Student returns a student profile by id with its user attached.
func (s *IdentityService) Student(ctx context.Context, id string) (*model.Student, error) {
	st, err := s.repo.GetStudent(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return st, nil
}

// College returns a college or nil when id is unknown.
func (s *IdentityService) College(ctx context.Context, id string) (*model.College, error) {
	return s.college(ctx, id)
}

// ListColleges returns every registered college.
func (s *IdentityService) ListColleges(ctx context.Context) ([]model.College, error) {
	colleges, err := s.repo.ListColleges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list colleges: %w", err)
	}
	if colleges == nil {
		colleges = []model.College{}
	}
	return colleges, nil
}

// Demo account created on an empty identity store.
const (
	DemoAdminEmail    = "admin@greenwood.edu"
	DemoAdminPassword = "password123"
)

// SeedDemo registers the demo admin and college when no account exists yet.
func (s *IdentityService) SeedDemo(ctx context.Context) error {
	n, err := s.repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	_, err = s.Register(ctx, &model.SignupRequest{
		FullName:        "Dr. Evelyn Reed",
		Email:           DemoAdminEmail,
		Password:        DemoAdminPassword,
		ConfirmPassword: DemoAdminPassword,
		Role:            model.RoleAdmin,
		CollegeName:     "Greenwood University",
		CollegeAddress:  "123 University Avenue, Knowledge City, 12345",
	})
	if err != nil && !errors.Is(err, ErrDuplicateEmail) {
		return fmt.Errorf("seed demo admin: %w", err)
	}
	return nil
}

func (s *IdentityService) college(ctx context.Context, id string) (*model.College, error) {
	if id == "" {
		return nil, nil
	}
	c, err := s.repo.GetCollege(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get college: %w", err)
	}
	return c, nil
}
