package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that a name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path
// separators or dots.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
