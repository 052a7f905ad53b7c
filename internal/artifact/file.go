package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-docstudio/internal/fileutil"
)

// File permissions for stored artifacts.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileStore keeps artifacts as files in a directory.
type FileStore struct {
	dir string
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: directory is required", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrStore, dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (f *FileStore) Dir() string {
	return f.dir
}

// Path returns the file path of key.
func (f *FileStore) Path(key string) string {
	return filepath.Join(f.dir, key)
}

// Put writes data atomically under key.
func (f *FileStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validatePut(key, data); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(f.Path(key), data, filePerm); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

// Get reads the artifact stored under key.
func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path(key)) // #nosec G304 -- key validated above
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return data, nil
}
