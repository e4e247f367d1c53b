package storage

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"studentrecords/internal/model"
)

// FileStore keeps the table in a single CSV file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the CSV file location.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(ctx context.Context) ([]model.Student, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := f.Save(ctx, nil); err != nil {
			return nil, err
		}
		return []model.Student{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrUnavailable, f.path, err)
	}
	return ReadCSV(bytes.NewReader(data))
}

// Save writes the table to a temp file next to the target and renames it
// into place.
func (f *FileStore) Save(ctx context.Context, students []model.Student) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".students-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := bufio.NewWriter(tmp)
	if err := WriteCSV(w, students); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrUnavailable, f.path, err)
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrUnavailable, f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrUnavailable, f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrUnavailable, f.path, err)
	}
	return nil
}
