package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed documents/*.html
var documents embed.FS

// EmbeddedLoader loads documents compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadDocument loads an embedded document by name.
func (e *EmbeddedLoader) LoadDocument(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := documents.ReadFile("documents/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrDocumentNotFound, name)
	}

	return string(content), nil
}

// Names lists the embedded document names, sorted.
func (e *EmbeddedLoader) Names() []string {
	entries, err := fs.ReadDir(documents, "documents")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".html"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ DocumentLoader = (*EmbeddedLoader)(nil)
