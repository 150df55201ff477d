// ABOUTME: File service storing animal images under a configured root
// ABOUTME: Deletion refuses any path that resolves outside the root

// Package files copies animal images into the application's storage root
// and deletes them again. The interactive file picker lives in the UI
// shell; the backend only ever sees a concrete source path, so nothing
// here blocks on user interaction.
package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrOutsideRoot is returned when a delete targets a path that resolves
// outside the configured root directory.
var ErrOutsideRoot = errors.New("path outside files root")

// Service stores and deletes files within one root directory.
type Service struct {
	root   string
	logger *slog.Logger
}

// NewService creates a file service rooted at the given directory,
// creating it if needed.
func NewService(root string) (*Service, error) {
	logger := slog.Default().With("component", "files")

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating files root %s: %w", root, err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving files root %s: %w", root, err)
	}

	return &Service{root: abs, logger: logger}, nil
}

// Root returns the absolute storage root.
func (s *Service) Root() string {
	return s.root
}

// Store copies the file at sourcePath into the root under a unique
// millisecond-timestamp name, preserving the extension, and returns the
// destination path.
func (s *Service) Store(sourcePath string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d", time.Now().UTC().UnixMilli())
	if ext := filepath.Ext(sourcePath); ext != "" {
		name += ext
	}
	destPath := filepath.Join(s.root, name)

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating destination file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("copying %s to %s: %w", sourcePath, destPath, err)
	}

	s.logger.Info("stored file", "source", sourcePath, "dest", destPath)
	return destPath, nil
}

// Delete removes a file previously stored under the root. The path is
// resolved through symlinks before the containment check, so a link
// pointing outside the root cannot be used to delete foreign files.
func (s *Service) Delete(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file does not exist: %s: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("resolving file path %s: %w", path, err)
	}
	resolvedRoot, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		return fmt.Errorf("resolving files root %s: %w", s.root, err)
	}

	rel, err := filepath.Rel(resolvedRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to delete %s: %w", path, ErrOutsideRoot)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting file %s: %w", path, err)
	}

	s.logger.Info("deleted file", "path", path)
	return nil
}
