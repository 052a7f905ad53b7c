package assets

// Embedded document names.
const (
	StarterDocument     = "starter"
	PlaceholderDocument = "placeholder"
)

var defaultLoader = NewEmbeddedLoader()

// LoadDocument loads an embedded document by name.
func LoadDocument(name string) (string, error) {
	return defaultLoader.LoadDocument(name)
}

// Names lists the embedded document names.
func Names() []string {
	return defaultLoader.Names()
}

// Starter returns the document a new session opens with.
func Starter() string {
	return mustLoad(StarterDocument)
}

// Placeholder returns the document previewed while the content is blank.
func Placeholder() string {
	return mustLoad(PlaceholderDocument)
}

func mustLoad(name string) string {
	content, err := defaultLoader.LoadDocument(name)
	if err != nil {
		panic("assets: embedded document missing: " + name)
	}
	return content
}
