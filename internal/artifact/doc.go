// Package artifact stores exported PDF documents and inspects them.
//
// A Store keeps artifacts by key. Three implementations exist:
//   - MemoryStore keeps the most recent artifacts in process memory
//   - FileStore writes them to a directory
//   - MinioStore uploads them to an S3-compatible bucket
//
// Keys are plain file names such as "document-20260102-150405-1.pdf".
package artifact
