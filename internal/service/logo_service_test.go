package service

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartFile builds a parsed multipart upload the way net/http hands it over.
func multipartFile(t *testing.T, contentType string, body []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="logo"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	header := form.File["file"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestLogoService_SaveAndLoad(t *testing.T) {
	cfg := testConfig(t)
	svc := NewLogoService(cfg)

	file, header := multipartFile(t, "image/png", []byte("png-bytes"))
	url, err := svc.SaveUpload(file, header)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := svc.Load(url)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestLogoService_Rejects(t *testing.T) {
	cfg := testConfig(t)
	svc := NewLogoService(cfg)

	file, header := multipartFile(t, "application/pdf", []byte("%PDF"))
	_, err := svc.SaveUpload(file, header)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	file, header = multipartFile(t, "image/jpeg", bytes.Repeat([]byte("x"), int(cfg.MaxUploadBytes)+1))
	_, err = svc.SaveUpload(file, header)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLogoService_LoadOnlyResolvesUploads(t *testing.T) {
	cfg := testConfig(t)
	svc := NewLogoService(cfg)
	require.NoError(t, os.WriteFile(filepath.Join(t.TempDir(), "secret.png"), []byte("x"), 0o600))

	_, err := svc.Load("https://placehold.co/200x200.png")
	assert.ErrorIs(t, err, ErrLogoNotFound)
	_, err = svc.Load("/uploads/../secret.png")
	assert.ErrorIs(t, err, ErrLogoNotFound)
	_, err = svc.Load("/uploads/missing.png")
	assert.ErrorIs(t, err, ErrLogoNotFound)
}
