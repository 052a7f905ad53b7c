package main

// Notes:
// - parseFlagSet: unknown flags map to ErrUsage, --help stays flag.ErrHelp.
// - merge*Flags: only explicitly set flags override the configuration.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"io"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docstudio/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseFlagSet - Error mapping
// ---------------------------------------------------------------------------

func TestParseFlagSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"valid", []string{"-q", "--config", "work"}, nil},
		{"unknown flag", []string{"--colour"}, ErrUsage},
		{"missing value", []string{"--config"}, ErrUsage},
		{"help", []string{"--help"}, flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var common commonFlags
			fs := newFlagSet("test", io.Discard)
			addCommonFlags(fs, &common)

			err := parseFlagSet(fs, tt.args)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeDecorationFlags - Header and footer overrides
// ---------------------------------------------------------------------------

func TestMergeDecorationFlags(t *testing.T) {
	t.Parallel()

	base := config.DecorationConfig{Text: "Configured", ShowDate: true, Alignment: "right"}

	tests := []struct {
		name  string
		flags decorationFlags
		want  config.DecorationConfig
	}{
		{
			name:  "no flags keeps config",
			flags: decorationFlags{},
			want:  base,
		},
		{
			name:  "text replaces decoration but keeps alignment",
			flags: decorationFlags{text: "Draft", pageNumber: true},
			want:  config.DecorationConfig{Text: "Draft", ShowPageNumber: true, Alignment: "right"},
		},
		{
			name:  "rich text",
			flags: decorationFlags{text: "<b>Draft</b>", rich: true},
			want:  config.DecorationConfig{Text: "<b>Draft</b>", RichContent: true, Alignment: "right"},
		},
		{
			name:  "align only",
			flags: decorationFlags{align: "left"},
			want:  config.DecorationConfig{Text: "Configured", ShowDate: true, Alignment: "left"},
		},
		{
			name:  "disabled",
			flags: decorationFlags{disabled: true, text: "ignored"},
			want:  config.DecorationConfig{Alignment: "right"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := base
			mergeDecorationFlags(&tt.flags, &got)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeMarginFlags - Unset sides keep configured values
// ---------------------------------------------------------------------------

func TestMergeMarginFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	mergeMarginFlags(&marginFlags{top: 0, right: -1, bottom: 3, left: -1, unit: "cm"}, cfg)

	want := config.MarginsConfig{Top: 0, Right: config.DefaultMargin, Bottom: 3, Left: config.DefaultMargin, Unit: "cm"}
	if cfg.Margins != want {
		t.Errorf("Margins = %+v, want %+v", cfg.Margins, want)
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - Paginator, assist and store overrides
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("paginator", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergePaginatorFlags(&paginatorFlags{backend: "chromedp", pageFormat: "letter"}, cfg)

		if cfg.Paginator.Backend != "chromedp" || cfg.Paginator.PageFormat != "letter" {
			t.Errorf("Paginator = %+v", cfg.Paginator)
		}
		if cfg.Paginator.Timeout != config.DefaultPaginatorTimeout {
			t.Errorf("Timeout = %q, want default", cfg.Paginator.Timeout)
		}
	})

	t.Run("assist", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeAssistFlags(&assistFlags{model: "mistral"}, cfg)

		if cfg.Assist.Model != "mistral" || cfg.Assist.Endpoint != config.DefaultAssistEndpoint {
			t.Errorf("Assist = %+v", cfg.Assist)
		}
	})

	t.Run("artifact dir replaces s3", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Artifacts.S3 = config.S3Config{Endpoint: "minio:9000", Bucket: "pdfs"}
		mergeStoreFlags(&storeFlags{artifactDir: "out", redisURL: "redis://localhost:6379"}, cfg)

		if cfg.Artifacts.Dir != "out" || cfg.Artifacts.S3.Enabled() {
			t.Errorf("Artifacts = %+v", cfg.Artifacts)
		}
		if cfg.Session.RedisURL != "redis://localhost:6379" {
			t.Errorf("RedisURL = %q", cfg.Session.RedisURL)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}
