// Package resumes stores uploaded resume files on local disk under a base
// directory, one file per application, named by a generated id so client
// filenames never touch the filesystem.
package resumes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExts = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

var ErrUnsupportedType = errors.New("unsupported file format: only pdf, doc and docx are allowed")

type Store struct {
	baseDir string
}

func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save writes the file and returns its storage path (relative to baseDir).
func (s *Store) Save(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExts[ext] {
		return "", ErrUnsupportedType
	}
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.baseDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("store resume: %w", err)
	}
	return name, nil
}

func (s *Store) Remove(ctx context.Context, path string) error {
	full, err := s.Resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// Resolve maps a stored path to a filesystem path, refusing anything that
// escapes the base directory.
func (s *Store) Resolve(path string) (string, error) {
	if path == "" || path != filepath.Base(path) {
		return "", fmt.Errorf("invalid resume path %q", path)
	}
	return filepath.Join(s.baseDir, path), nil
}
