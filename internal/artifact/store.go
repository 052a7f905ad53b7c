package artifact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-docstudio/internal/fileutil"
)

// ContentType is the media type of every stored artifact.
const ContentType = "application/pdf"

// MaxKeyLength bounds artifact keys.
const MaxKeyLength = 200

// Store keeps exported artifacts by key.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// NewKey returns a key unique within one process for an artifact produced at
// t. seq disambiguates artifacts produced within the same second.
func NewKey(t time.Time, seq uint64) string {
	return fmt.Sprintf("document-%s-%d.pdf", t.UTC().Format("20060102-150405"), seq)
}

// ValidateKey rejects keys that could escape a directory or bucket prefix.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case len(key) > MaxKeyLength:
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidKey, MaxKeyLength)
	case fileutil.IsFilePath(key), strings.Contains(key, ".."), strings.ContainsRune(key, 0):
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// validatePut checks the arguments shared by every Put implementation.
func validatePut(key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptyArtifact
	}
	return nil
}
