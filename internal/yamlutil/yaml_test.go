package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-docstudio/internal/yamlutil"
)

type studioSettings struct {
	Backend string  `yaml:"backend"`
	Margin  float64 `yaml:"margin"`
	Redis   bool    `yaml:"redis"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		dest    any
		wantErr error
		want    studioSettings
	}{
		{
			name: "valid YAML",
			data: "backend: rod\nmargin: 12.5\nredis: true",
			dest: &studioSettings{},
			want: studioSettings{Backend: "rod", Margin: 12.5, Redis: true},
		},
		{
			name: "unknown keys ignored",
			data: "backend: chromedp\nextra: 1",
			dest: &studioSettings{},
			want: studioSettings{Backend: "chromedp"},
		},
		{
			name:    "empty data",
			data:    "",
			dest:    &studioSettings{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    "backend: rod",
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal([]byte(tt.data), tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			if got := *tt.dest.(*studioSettings); got != tt.want {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	t.Parallel()

	var s studioSettings
	err := yamlutil.Unmarshal([]byte("backend: [unclosed"), &s)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error %q should be prefixed", err)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Unknown keys are rejected
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var ok studioSettings
	if err := yamlutil.UnmarshalStrict([]byte("backend: rod"), &ok); err != nil {
		t.Fatalf("UnmarshalStrict() unexpected error: %v", err)
	}
	if ok.Backend != "rod" {
		t.Errorf("Backend = %q, want rod", ok.Backend)
	}

	var bad studioSettings
	if err := yamlutil.UnmarshalStrict([]byte("backend: rod\nbakcend: x"), &bad); err == nil {
		t.Error("UnmarshalStrict() should reject unknown keys")
	}
}

// ---------------------------------------------------------------------------
// TestInputTooLarge - Size limit applies to both decoders
// ---------------------------------------------------------------------------

func TestInputTooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("backend: " + strings.Repeat("x", yamlutil.MaxInputSize))
	var s studioSettings

	if err := yamlutil.Unmarshal(data, &s); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Unmarshal() error = %v, want ErrInputTooLarge", err)
	}
	if err := yamlutil.UnmarshalStrict(data, &s); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict() error = %v, want ErrInputTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Encoding round-trips through Unmarshal
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	in := studioSettings{Backend: "rod", Margin: 20, Redis: false}
	out, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), "backend: rod") {
		t.Errorf("Marshal() = %q, want backend key", out)
	}

	var back studioSettings
	if err := yamlutil.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != in {
		t.Errorf("round trip = %+v, want %+v", back, in)
	}
}
