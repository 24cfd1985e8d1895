package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joelyk/maison-du-parfum/pkg/logger"
)

// LocalStorage writes files below a root directory served as static content.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Save(_ context.Context, folder, filename string, body io.Reader, _ string) error {
	if filename == "" || filename != filepath.Base(filename) {
		return fmt.Errorf("invalid filename %q", filename)
	}

	dir := filepath.Join(s.root, filepath.Clean("/" + folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload folder: %w", err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	logger.Debug("File stored on disk", logger.Fields{
		"folder":   folder,
		"filename": filename,
	})
	return nil
}
