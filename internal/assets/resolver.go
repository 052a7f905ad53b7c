package assets

import "errors"

// Resolver tries a custom loader first and falls back to the embedded
// documents when the custom one has no such document.
type Resolver struct {
	custom   DocumentLoader // nil without a custom path
	embedded DocumentLoader
}

// NewResolver creates a Resolver. An empty customBasePath uses only the
// embedded documents.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}

	return r, nil
}

// LoadDocument loads name, custom first.
func (r *Resolver) LoadDocument(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadDocument(name)
	}

	content, err := r.custom.LoadDocument(name)
	if err == nil {
		return content, nil
	}

	// Validation and I/O errors are not masked by the fallback.
	if !errors.Is(err, ErrDocumentNotFound) {
		return "", err
	}

	return r.embedded.LoadDocument(name)
}

// HasCustomLoader returns true if a custom document directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ DocumentLoader = (*Resolver)(nil)
