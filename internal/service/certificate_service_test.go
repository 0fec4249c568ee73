package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/bonafide-backend/internal/model"
)

func TestCertificateService_GenerateApproved(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	ctx := context.Background()
	admin := f.registerAdmin(t, "dean@example.com", "Dr. Evelyn Reed", "Greenwood University")
	s := f.registerStudent(t, "asha@example.com", "Asha Rao", admin.CollegeID)
	r := f.submit(t, s, "higher-education")
	_, err := f.ledger.Process(ctx, admin, r.ID, model.StatusApproved)
	require.NoError(t, err)

	cert, err := f.certs.Generate(ctx, admin, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "bonafide-certificate-Asha_Rao.pdf", cert.Filename)
	assert.True(t, bytes.HasPrefix(cert.Data, []byte("%PDF-")))

	stored, err := os.ReadFile(filepath.Join(f.cfg.CertificateDir, r.ID+".pdf"))
	require.NoError(t, err)
	assert.Equal(t, cert.Data, stored)
}

func TestCertificateService_RequiresApproval(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	ctx := context.Background()
	admin := f.registerAdmin(t, "dean@example.com", "Dr. Evelyn Reed", "Greenwood University")
	s := f.registerStudent(t, "asha@example.com", "Asha Rao", admin.CollegeID)
	r := f.submit(t, s, "visa")

	_, err := f.certs.Generate(ctx, admin, r.ID)
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = f.ledger.Process(ctx, admin, r.ID, model.StatusRejected)
	require.NoError(t, err)
	_, err = f.certs.Generate(ctx, admin, r.ID)
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = f.certs.Generate(ctx, admin, "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestCertificateService_FallsBackToAdminCollege(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	ctx := context.Background()
	admin := f.registerAdmin(t, "dean@example.com", "Dr. Evelyn Reed", "Greenwood University")
	s := f.registerStudent(t, "asha@example.com", "Asha Rao", "no-such-college")
	r := f.submit(t, s, "visa")
	_, err := f.ledger.Process(ctx, admin, r.ID, model.StatusApproved)
	require.NoError(t, err)

	cert, err := f.certs.Generate(ctx, admin, r.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Data)

	// The worker has no admin to fall back to.
	assert.ErrorIs(t, f.certs.RenderToFile(ctx, r.ID), ErrMissingCollegeInfo)
}

func TestCertificateService_MissingCollegeInfo(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	ctx := context.Background()
	s := f.registerStudent(t, "asha@example.com", "Asha Rao", "no-such-college")
	r := f.submit(t, s, "visa")
	_, err := f.ledger.SetStatus(ctx, r.ID, model.StatusApproved, "Admin")
	require.NoError(t, err)

	orphan := &model.Admin{ID: "a-x", CollegeID: "also-missing"}
	_, err = f.certs.Generate(ctx, orphan, r.ID)
	assert.ErrorIs(t, err, ErrMissingCollegeInfo)
}

func TestCertificateService_RenderToFile(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	ctx := context.Background()
	admin := f.registerAdmin(t, "dean@example.com", "Dr. Evelyn Reed", "Greenwood University")
	s := f.registerStudent(t, "asha@example.com", "Asha Rao", admin.CollegeID)
	r := f.submit(t, s, "visa")
	_, err := f.ledger.Process(ctx, admin, r.ID, model.StatusApproved)
	require.NoError(t, err)

	require.NoError(t, f.certs.RenderToFile(ctx, r.ID))

	data, err := os.ReadFile(filepath.Join(f.cfg.CertificateDir, r.ID+".pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	entries, err := os.ReadDir(f.cfg.CertificateDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCertificateService_HonoursCancellation(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	admin := f.registerAdmin(t, "dean@example.com", "Dr. Evelyn Reed", "Greenwood University")
	s := f.registerStudent(t, "asha@example.com", "Asha Rao", admin.CollegeID)
	r := f.submit(t, s, "visa")
	_, err := f.ledger.Process(context.Background(), admin, r.ID, model.StatusApproved)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := f.ledger.Get(context.Background(), r.ID)
	require.NoError(t, err)
	_, err = f.certs.produce(ctx, req, admin.College)
	// Either the pipeline finished first or the cancellation won the race.
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
