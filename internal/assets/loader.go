package assets

// DocumentLoader loads HTML documents by name (without .html extension).
// Implementations return ErrDocumentNotFound for unknown names and
// ErrInvalidAssetName for unsafe ones.
type DocumentLoader interface {
	LoadDocument(name string) (string, error)
}
