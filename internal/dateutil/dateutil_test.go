package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "YYYY", format: "YYYY", want: "2006"},
		{name: "YY", format: "YY", want: "06"},
		{name: "MMMM", format: "MMMM", want: "January"},
		{name: "MMM", format: "MMM", want: "Jan"},
		{name: "MM", format: "MM", want: "01"},
		{name: "M", format: "M", want: "1"},
		{name: "DD", format: "DD", want: "02"},
		{name: "D", format: "D", want: "2"},
		{name: "locale style", format: "M/D/YYYY", want: "1/2/2006"},
		{name: "iso", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "long", format: "MMMM D, YYYY", want: "January 2, 2006"},
		{name: "bracket literal", format: "[Date:] DD.MM.YYYY", want: "Date: 02.01.2006"},
		{name: "literal characters kept", format: "YYYY_MM", want: "2006_01"},
		{name: "empty", format: "", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: strings.Repeat("Y", MaxDateFormatLength+1), wantErr: ErrInvalidDateFormat},
		{name: "unclosed bracket", format: "[Date YYYY", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	// Fixed time for deterministic tests: 2026-03-05
	fixed := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr bool
	}{
		{name: "default mimics en-US locale", format: "", want: "3/5/2026"},
		{name: "locale preset", format: "locale", want: "3/5/2026"},
		{name: "preset is case-insensitive", format: "ISO", want: "2026-03-05"},
		{name: "european preset", format: "european", want: "05/03/2026"},
		{name: "us preset", format: "us", want: "03/05/2026"},
		{name: "long preset", format: "long", want: "March 5, 2026"},
		{name: "custom tokens", format: "D MMM YY", want: "5 Mar 26"},
		{name: "invalid", format: "[oops", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Format(tt.format, fixed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Format(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatter(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	f, err := NewFormatter("long")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	if got := f.Format(fixed); got != "December 31, 2026" {
		t.Errorf("Format() = %q", got)
	}

	var zero Formatter
	if got := zero.Format(fixed); got != "12/31/2026" {
		t.Errorf("zero Formatter Format() = %q, want default", got)
	}

	if _, err := NewFormatter("[bad"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("NewFormatter() error = %v, want ErrInvalidDateFormat", err)
	}
}
