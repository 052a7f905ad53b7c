// Package assets provides the HTML documents a session starts from.
//
// # Loader Architecture
//
//	DocumentLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - documents compiled into the binary
//	    ├── FilesystemLoader  - documents from a directory on disk
//	    └── Resolver          - custom first, embedded fallback
//
// Embedded documents are "starter" (the initial session content),
// "placeholder" (shown by previews while the document is blank) and
// "letter".
//
// # Directory Structure
//
//	{basePath}/
//	└── documents/
//	    └── {name}.html
//
// # Security
//
// Document names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
