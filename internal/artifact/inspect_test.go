package artifact

import (
	"errors"
	"testing"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pages int
	}{
		{"single page", 1},
		{"three pages", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := buildPDF(tt.pages)
			info, err := Inspect(data)
			if err != nil {
				t.Fatalf("Inspect() error = %v", err)
			}
			if info.Pages != tt.pages {
				t.Errorf("Pages = %d, want %d", info.Pages, tt.pages)
			}
			if info.Bytes != len(data) {
				t.Errorf("Bytes = %d, want %d", info.Bytes, len(data))
			}
		})
	}
}

func TestInspect_NotPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"html", []byte("<!DOCTYPE html><html></html>")},
		{"truncated pdf", []byte("%PDF-1.4\n1 0 obj\n<< >>\nendobj\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Inspect(tt.data); !errors.Is(err, ErrNotPDF) {
				t.Errorf("Inspect() error = %v, want ErrNotPDF", err)
			}
		})
	}
}
