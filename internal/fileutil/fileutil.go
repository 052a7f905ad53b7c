// Package fileutil holds the small file helpers shared by the paginator,
// the artifact stores and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// tempPrefix marks every temporary file docstudio creates.
const tempPrefix = "docstudio-"

// WriteTempFile stores content in a new file of the system temp directory.
// The rod paginator navigates to it with a file:// URL; callers remove it
// with cleanup once the page is printed.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}
	path, err = spill("", tempPrefix+"*."+extension, []byte(content))
	if err != nil {
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// WriteFileAtomic replaces path with data through a sibling temp file and
// a rename. Readers see the old file or the new one, never a mix.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := spill(filepath.Dir(path), "."+tempPrefix+"*", data)
	if err != nil {
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// spill writes data to a fresh temp file in dir and returns its name.
// Nothing is left behind on failure.
func spill(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	switch {
	case werr != nil:
		_ = os.Remove(name)
		return "", fmt.Errorf("writing temp file: %w", werr)
	case cerr != nil:
		_ = os.Remove(name)
		return "", fmt.Errorf("closing temp file: %w", cerr)
	}
	return name, nil
}

// ValidateExtension rejects extensions that could move a temp file out of
// the temp directory.
func ValidateExtension(extension string) error {
	switch {
	case extension == "":
		return ErrExtensionEmpty
	case strings.ContainsAny(extension, "/\\\x00"):
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists reports whether path names something other than a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath reports whether s holds a path separator, which tells a
// config path or storage key apart from a bare name ("docstudio" versus
// "./docstudio.yaml" or `C:\cfg\docstudio.yaml`).
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL reports whether s starts with an http or https scheme.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
