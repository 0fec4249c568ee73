package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/certificate"
	"github.com/stemsi/bonafide-backend/internal/model"
)

// Certificate errors.
var (
	ErrNotApproved        = errors.New("certificate is only available for approved requests")
	ErrMissingCollegeInfo = errors.New("college information is missing")
)

// Certificate is a rendered certificate ready for download.
type Certificate struct {
	Filename string
	Data     []byte
}

// CertificateService renders certificates for approved requests and caches
// the PDFs on disk.
type CertificateService struct {
	ledger   *LedgerService
	identity *IdentityService
	renderer *certificate.Renderer
	dir      string
	log      zerolog.Logger
	now      func() time.Time
}

// NewCertificateService creates a new CertificateService storing PDFs in dir.
func NewCertificateService(ledger *LedgerService, identity *IdentityService, renderer *certificate.Renderer, dir string, log zerolog.Logger) *CertificateService {
	return &CertificateService{
		ledger:   ledger,
		identity: identity,
		renderer: renderer,
		dir:      dir,
		log:      log.With().Str("component", "certificate_service").Logger(),
		now:      time.Now,
	}
}

// Generate returns the certificate of request id for admin. A pre-rendered
// file is served when present; otherwise the certificate is rendered now
// and stored.
func (s *CertificateService) Generate(ctx context.Context, admin *model.Admin, id string) (*Certificate, error) {
	req, err := s.ledger.GetForAdmin(ctx, admin, id)
	if err != nil {
		return nil, err
	}
	if req.Status != model.StatusApproved {
		return nil, ErrNotApproved
	}

	cert := &Certificate{Filename: certificate.Filename(req)}

	if data, err := os.ReadFile(s.path(req.ID)); err == nil {
		cert.Data = data
		return cert, nil
	}

	college, err := s.resolveCollege(ctx, req, admin)
	if err != nil {
		return nil, err
	}
	cert.Data, err = s.produce(ctx, req, college)
	if err != nil {
		return nil, err
	}
	if err := s.store(req.ID, cert.Data); err != nil {
		s.log.Warn().Err(err).Str("request_id", req.ID).Msg("Cache certificate failed")
	}
	return cert, nil
}

// RenderToFile renders the certificate of an approved request into the
// certificate directory.
func (s *CertificateService) RenderToFile(ctx context.Context, id string) error {
	req, err := s.ledger.Get(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != model.StatusApproved {
		return ErrNotApproved
	}

	college, err := s.resolveCollege(ctx, req, nil)
	if err != nil {
		return err
	}
	data, err := s.produce(ctx, req, college)
	if err != nil {
		return err
	}
	return s.store(req.ID, data)
}

// produce runs render then export in a goroutine and returns when the
// pipeline reports completion or ctx ends.
func (s *CertificateService) produce(ctx context.Context, req *model.BonafideRequest, college *model.College) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	issued := s.now()

	go func() {
		doc := s.renderer.Render(req, college, issued)
		data, err := s.renderer.Export(doc)
		done <- result{data: data, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("export certificate: %w", r.err)
		}
		return r.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolveCollege picks the student's college, falling back to the admin's.
func (s *CertificateService) resolveCollege(ctx context.Context, req *model.BonafideRequest, admin *model.Admin) (*model.College, error) {
	ids := []string{req.CollegeID}
	if req.Student != nil {
		ids = append(ids, req.Student.CollegeID)
	}
	for _, id := range ids {
		c, err := s.identity.College(ctx, id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}

	if admin != nil {
		if admin.College != nil {
			return admin.College, nil
		}
		c, err := s.identity.College(ctx, admin.CollegeID)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	return nil, ErrMissingCollegeInfo
}

func (s *CertificateService) path(id string) string {
	return filepath.Join(s.dir, filepath.Base(id)+".pdf")
}

// store writes data atomically so readers never see a partial file.
func (s *CertificateService) store(id string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create certificate dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".render-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write certificate: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close certificate: %w", err)
	}
	return os.Rename(tmp.Name(), s.path(id))
}
