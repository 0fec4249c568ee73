package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stemsi/bonafide-backend/internal/certificate"
	"github.com/stemsi/bonafide-backend/internal/config"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/notify"
	"github.com/stemsi/bonafide-backend/internal/repository"
	"github.com/stemsi/bonafide-backend/internal/session"
)

// recordingQueue and recordingPublisher capture side effects of Process.
type recordingQueue struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (q *recordingQueue) Push(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type fixture struct {
	cfg         *config.Config
	identityRep *repository.MemoryIdentityRepository
	ledgerRep   *repository.MemoryLedgerRepository
	sessions    *session.MemoryStore
	auth        *AuthService
	identity    *IdentityService
	ledger      *LedgerService
	certs       *CertificateService
	queue       *recordingQueue
	events      *recordingPublisher
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:      "test-secret",
		JWTExpiry:      time.Hour,
		BcryptCost:     bcrypt.MinCost,
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1024,
		CertificateDir: t.TempDir(),
		LedgerScope:    config.ScopeGlobal,
	}
}

func newFixture(t *testing.T, policy LedgerPolicy) *fixture {
	t.Helper()
	log := zerolog.New(io.Discard)

	f := &fixture{
		cfg:         testConfig(t),
		identityRep: repository.NewMemoryIdentityRepository(),
		ledgerRep:   repository.NewMemoryLedgerRepository(),
		sessions:    session.NewMemoryStore(),
		queue:       &recordingQueue{},
		events:      &recordingPublisher{},
	}
	f.auth = NewAuthService(f.cfg, f.sessions)
	f.identity = NewIdentityService(f.identityRep, f.auth, log)
	f.ledger = NewLedgerService(f.ledgerRep, f.identity, f.queue, f.events, policy, log)
	logos := NewLogoService(f.cfg)
	f.certs = NewCertificateService(f.ledger, f.identity, certificate.NewRenderer(logos.Load), f.cfg.CertificateDir, log)
	return f
}

func (f *fixture) registerAdmin(t *testing.T, email, name, college string) *model.Admin {
	t.Helper()
	ctx := context.Background()
	u, err := f.identity.Register(ctx, &model.SignupRequest{
		FullName: name, Email: email, Password: "secret1", ConfirmPassword: "secret1",
		Role: model.RoleAdmin, CollegeName: college, CollegeAddress: "1 Main Street",
	})
	require.NoError(t, err)
	a, err := f.identity.AdminForUser(ctx, u.ID)
	require.NoError(t, err)
	return a
}

func (f *fixture) registerStudent(t *testing.T, email, name, collegeID string) *model.Student {
	t.Helper()
	ctx := context.Background()
	u, err := f.identity.Register(ctx, &model.SignupRequest{
		FullName: name, Email: email, Password: "secret1", ConfirmPassword: "secret1",
		Role: model.RoleStudent, RollNo: "R-" + name, Department: "computer-science", Course: "btech",
		CollegeID: collegeID,
	})
	require.NoError(t, err)
	s, err := f.identity.StudentForUser(ctx, u.ID)
	require.NoError(t, err)
	return s
}

func (f *fixture) submit(t *testing.T, s *model.Student, purpose string) *model.BonafideRequest {
	t.Helper()
	r, err := f.ledger.Submit(context.Background(), s, &model.SubmitRequestRequest{
		Purpose: purpose, AcademicYear: "2024-2025", Year: "2nd", ContactInfo: "555-0100",
	})
	require.NoError(t, err)
	return r
}
