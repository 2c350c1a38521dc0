package services

import (
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"folio-cms/models"

	"github.com/google/uuid"
)

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// UploadService stores user supplied images under a random name and returns
// the public URL path.
type UploadService interface {
	SaveImage(file *multipart.FileHeader) (string, error)
}

type uploadService struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	create    func(name string) (io.WriteCloser, error)
}

func NewUploadService(dir, urlPrefix string, maxMB int64) UploadService {
	return &uploadService{
		dir:       dir,
		urlPrefix: urlPrefix,
		maxBytes:  maxMB << 20,
		create:    func(name string) (io.WriteCloser, error) { return os.Create(name) },
	}
}

func (s *uploadService) SaveImage(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", models.NewValidation("file type %q is not allowed; use png, jpg, gif or webp", ext)
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return "", models.NewValidation("file %q is larger than %d MB", file.Filename, s.maxBytes>>20)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", models.NewStorage("create upload directory", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", models.NewStorage("open upload", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	target := filepath.Join(s.dir, name)
	dst, err := s.create(target)
	if err != nil {
		return "", models.NewStorage("create upload file", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return "", models.NewStorage("write upload file", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(target)
		return "", models.NewStorage("close upload file", err)
	}
	return path.Join(s.urlPrefix, name), nil
}
