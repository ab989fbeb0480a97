// Package files stores uploaded evidence artifacts on local disk. Stored
// names are server-generated; the client-supplied name is only used for the
// extension allow-list, never for the path.
package files

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge = errors.New("evidence file exceeds the size limit")
	ErrFileType     = errors.New("only image files (JPEG, PNG, GIF) and PDFs are allowed")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".pdf":  {},
}

type EvidenceStore struct {
	dir     string
	maxSize int64
}

func NewEvidenceStore(dir string, maxSize int64) (*EvidenceStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &EvidenceStore{dir: dir, maxSize: maxSize}, nil
}

// Save validates and persists the upload, returning the stored reference
// path. The generated name prevents collisions and path traversal.
func (s *EvidenceStore) Save(header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrFileType
	}
	if s.maxSize > 0 && header.Size > s.maxSize {
		return "", ErrFileTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := "evidence-" + uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

// Remove deletes a stored artifact, used to clean up when the appeal insert
// fails after the upload was already written.
func (s *EvidenceStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	if filepath.Dir(ref) != filepath.Clean(s.dir) {
		return errors.New("reference outside store")
	}
	return os.Remove(ref)
}
