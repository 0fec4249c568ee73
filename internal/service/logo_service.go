package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/stemsi/bonafide-backend/internal/config"
)

// Sentinel errors for logo uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrLogoNotFound        = errors.New("logo not found")
)

// uploadURLPrefix is the public path uploaded files are served under.
const uploadURLPrefix = "/uploads/"

// Allowed image MIME types.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LogoService stores college logos on local disk.
type LogoService struct {
	cfg *config.Config
}

// NewLogoService creates a new LogoService.
func NewLogoService(cfg *config.Config) *LogoService {
	return &LogoService{cfg: cfg}
}

// SaveUpload saves an uploaded logo with a UUID filename and returns its
// public URL path.
func (s *LogoService) SaveUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	// Copy at most one byte past the limit so a lying header is still caught.
	n, err := io.Copy(dst, io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if n > s.cfg.MaxUploadBytes {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}

	return uploadURLPrefix + filename, nil
}

// Load reads a logo previously returned by SaveUpload. Other references,
// such as external URLs, are not resolved.
func (s *LogoService) Load(ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, uploadURLPrefix) {
		return nil, fmt.Errorf("%w: %s", ErrLogoNotFound, ref)
	}
	name := filepath.Base(strings.TrimPrefix(ref, uploadURLPrefix))
	data, err := os.ReadFile(filepath.Join(s.cfg.UploadDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLogoNotFound, ref)
		}
		return nil, fmt.Errorf("read logo: %w", err)
	}
	return data, nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
