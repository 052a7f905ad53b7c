package artifact

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

func TestNewKey(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.FixedZone("CET", 3600))
	got := NewKey(at, 7)
	if got != "document-20260102-140405-7.pdf" {
		t.Errorf("NewKey() = %q", got)
	}
	if err := ValidateKey(got); err != nil {
		t.Errorf("generated key rejected: %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		wantErr bool
	}{
		{"document-1.pdf", false},
		{"", true},
		{"../secret.pdf", true},
		{"a/b.pdf", true},
		{`a\b.pdf`, true},
		{"..", true},
		{"x\x00.pdf", true},
		{strings.Repeat("a", MaxKeyLength+1), true},
	}

	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) error = %v, want ErrInvalidKey", tt.key, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Store contract, run against every local implementation
// ---------------------------------------------------------------------------

func localStores(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(0),
		"file":   fs,
	}
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	for name, store := range localStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			data := buildPDF(1)

			if err := store.Put(ctx, "document-1.pdf", data); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			got, err := store.Get(ctx, "document-1.pdf")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Error("Get() returned different bytes")
			}

			// Overwrite
			if err := store.Put(ctx, "document-1.pdf", []byte("%PDF-2")); err != nil {
				t.Fatalf("Put() overwrite error = %v", err)
			}
			got, _ = store.Get(ctx, "document-1.pdf")
			if string(got) != "%PDF-2" {
				t.Errorf("Get() after overwrite = %q", got)
			}
		})
	}
}

func TestStore_Errors(t *testing.T) {
	t.Parallel()

	for name, store := range localStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			if _, err := store.Get(ctx, "missing.pdf"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
			}
			if err := store.Put(ctx, "../escape.pdf", []byte("x")); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Put(traversal) error = %v, want ErrInvalidKey", err)
			}
			if err := store.Put(ctx, "empty.pdf", nil); !errors.Is(err, ErrEmptyArtifact) {
				t.Errorf("Put(empty) error = %v, want ErrEmptyArtifact", err)
			}
			if _, err := store.Get(ctx, "sub/x.pdf"); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Get(path) error = %v, want ErrInvalidKey", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// MemoryStore specifics
// ---------------------------------------------------------------------------

func TestMemoryStore_EvictsOldest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore(2)

	for _, key := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if err := store.Put(ctx, key, []byte(key)); err != nil {
			t.Fatalf("Put(%s) error = %v", key, err)
		}
	}

	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	if _, err := store.Get(ctx, "a.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("oldest artifact should be evicted, got %v", err)
	}
	if _, err := store.Get(ctx, "c.pdf"); err != nil {
		t.Errorf("newest artifact missing: %v", err)
	}
}

func TestMemoryStore_ReplaceRefreshesOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore(2)

	_ = store.Put(ctx, "a.pdf", []byte("1"))
	_ = store.Put(ctx, "b.pdf", []byte("2"))
	_ = store.Put(ctx, "a.pdf", []byte("3"))
	_ = store.Put(ctx, "c.pdf", []byte("4"))

	if _, err := store.Get(ctx, "b.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("b.pdf should be evicted, got %v", err)
	}
	if got, _ := store.Get(ctx, "a.pdf"); string(got) != "3" {
		t.Errorf("a.pdf = %q, want %q", got, "3")
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore(1)
	data := []byte("%PDF-x")
	_ = store.Put(ctx, "a.pdf", data)
	data[0] = 'X'

	got, _ := store.Get(ctx, "a.pdf")
	got[1] = 'Y'
	again, _ := store.Get(ctx, "a.pdf")
	if string(again) != "%PDF-x" {
		t.Errorf("stored bytes were mutated: %q", again)
	}
}

// ---------------------------------------------------------------------------
// FileStore specifics
// ---------------------------------------------------------------------------

func TestFileStore_WritesFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if err := store.Put(context.Background(), "doc.pdf", []byte("%PDF-1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "doc.pdf"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "%PDF-1" {
		t.Errorf("file content = %q", data)
	}
	if store.Path("doc.pdf") != filepath.Join(dir, "doc.pdf") || store.Dir() != dir {
		t.Errorf("Path/Dir mismatch: %s %s", store.Path("doc.pdf"), store.Dir())
	}
}

func TestFileStore_CanceledContext(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Put(ctx, "a.pdf", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	t.Parallel()

	if _, err := NewFileStore(""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

// ---------------------------------------------------------------------------
// MinioStore configuration (no network)
// ---------------------------------------------------------------------------

func TestMinioConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     MinioConfig
		wantErr bool
	}{
		{"complete", MinioConfig{Endpoint: "localhost:9000", Bucket: "exports"}, false},
		{"no endpoint", MinioConfig{Bucket: "exports"}, true},
		{"no bucket", MinioConfig{Endpoint: "localhost:9000"}, true},
	}

	for _, tt := range tests {
		err := tt.cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: error = %v, want ErrInvalidConfig", tt.name, err)
		}
	}
}

func TestNewMinioStore_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := NewMinioStore(context.Background(), MinioConfig{Endpoint: "localhost:9000"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}
