// Package photo stores uploaded photo files on disk under fresh
// unguessable names and handles replacement cleanup.
package photo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MaxUploadSize caps uploads at 2 MB.
const MaxUploadSize = 2 * 1000 * 1000

// ErrTooLarge is returned for uploads above MaxUploadSize.
var ErrTooLarge = errors.New("photo exceeds the 2 MB limit")

// Store writes photos into a single directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save copies the uploaded file into the store under a uuid name that
// keeps the original extension, and returns that name.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxUploadSize {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored photo. A missing file is not an error: the
// record may reference a file that was already cleaned up.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove photo file: %w", err)
	}
	return nil
}
