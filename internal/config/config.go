// Package config loads and validates the docstudio YAML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-docstudio/internal/dateutil"
	"github.com/alnah/go-docstudio/internal/fileutil"
	"github.com/alnah/go-docstudio/internal/pipeline"
	"github.com/alnah/go-docstudio/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config dir.
const AppDir = "go-docstudio"

// Paginator backends.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
)

// Page formats.
const (
	PageA4     = "a4"
	PageLetter = "letter"
	PageLegal  = "legal"
)

// Defaults.
const (
	DefaultBackend          = BackendRod
	DefaultPaginatorTimeout = "30s"
	DefaultPageFormat       = PageA4
	DefaultAssistEndpoint   = "http://localhost:11434"
	DefaultAssistModel      = "llama3.2:3b"
	DefaultAssistTimeout    = "3m"
	DefaultMargin           = 20.0
	DefaultSessionKey       = "docstudio:session"
	DefaultServerAddr       = "localhost:3000"
)

// Field length limits.
const (
	MaxTextLength       = 500  // decoration text (rich content included)
	MaxURLLength        = 2048 // endpoints and redis URLs
	MaxModelLength      = 100  // "qwen2.5-coder:7b"
	MaxPathLength       = 4096 // artifact directory
	MaxBucketLength     = 63   // S3 bucket naming rules
	MaxKeyLength        = 200  // redis key, s3 prefix
	MaxCredentialLength = 256
	MaxDurationLength   = 20 // "2m30s"
	MaxAddrLength       = 255
)

// Config holds all docstudio settings.
type Config struct {
	Paginator  PaginatorConfig  `yaml:"paginator"`
	Assist     AssistConfig     `yaml:"assist"`
	Header     DecorationConfig `yaml:"header"`
	Footer     DecorationConfig `yaml:"footer"`
	Margins    MarginsConfig    `yaml:"margins"`
	DateFormat string           `yaml:"dateFormat"` // preset or tokens, empty = M/D/YYYY
	Artifacts  ArtifactsConfig  `yaml:"artifacts"`
	Session    SessionConfig    `yaml:"session"`
	Server     ServerConfig     `yaml:"server"`
}

// PaginatorConfig selects the PDF rendering backend.
type PaginatorConfig struct {
	Backend    string `yaml:"backend"`    // "rod" or "chromedp"
	Timeout    string `yaml:"timeout"`    // Go duration
	PageFormat string `yaml:"pageFormat"` // "a4", "letter", "legal"
}

// AssistConfig points at the language-model service.
type AssistConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// DecorationConfig is a page header or footer.
type DecorationConfig struct {
	Text           string `yaml:"text"`
	RichContent    bool   `yaml:"richContent"`
	ShowPageNumber bool   `yaml:"showPageNumber"`
	ShowDate       bool   `yaml:"showDate"`
	Alignment      string `yaml:"alignment"` // "left", "center", "right"
}

// MarginsConfig holds page margins in one unit.
type MarginsConfig struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
	Unit   string  `yaml:"unit"` // "mm", "cm", "in"
}

// ArtifactsConfig chooses where exported PDFs are kept.
// Empty Dir and S3.Endpoint keep them in memory.
type ArtifactsConfig struct {
	Dir string   `yaml:"dir"`
	S3  S3Config `yaml:"s3"`
}

// S3Config targets an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Prefix    string `yaml:"prefix"`
}

// Enabled reports whether an S3 endpoint is configured.
func (s S3Config) Enabled() bool { return s.Endpoint != "" }

// SessionConfig enables Redis snapshots when RedisURL is set.
type SessionConfig struct {
	RedisURL string `yaml:"redisURL"`
	Key      string `yaml:"key"`
}

// ServerConfig configures `docstudio serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig mirrors a fresh editing session: footer with page numbers,
// 20mm margins, local Ollama and the rod backend.
func DefaultConfig() *Config {
	return &Config{
		Paginator: PaginatorConfig{
			Backend:    DefaultBackend,
			Timeout:    DefaultPaginatorTimeout,
			PageFormat: DefaultPageFormat,
		},
		Assist: AssistConfig{
			Endpoint: DefaultAssistEndpoint,
			Model:    DefaultAssistModel,
			Timeout:  DefaultAssistTimeout,
		},
		Header: DecorationConfig{Alignment: pipeline.AlignCenter},
		Footer: DecorationConfig{ShowPageNumber: true, Alignment: pipeline.AlignCenter},
		Margins: MarginsConfig{
			Top: DefaultMargin, Right: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin,
			Unit: pipeline.UnitMillimetre,
		},
		Session: SessionConfig{Key: DefaultSessionKey},
		Server:  ServerConfig{Addr: DefaultServerAddr},
	}
}

// Validate checks lengths, enumerations and ranges.
// Called by LoadConfig and again by the CLI after env and flag overrides.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"paginator.timeout", c.Paginator.Timeout, MaxDurationLength},
		{"assist.endpoint", c.Assist.Endpoint, MaxURLLength},
		{"assist.model", c.Assist.Model, MaxModelLength},
		{"assist.timeout", c.Assist.Timeout, MaxDurationLength},
		{"header.text", c.Header.Text, MaxTextLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"dateFormat", c.DateFormat, dateutil.MaxDateFormatLength},
		{"artifacts.dir", c.Artifacts.Dir, MaxPathLength},
		{"artifacts.s3.endpoint", c.Artifacts.S3.Endpoint, MaxURLLength},
		{"artifacts.s3.bucket", c.Artifacts.S3.Bucket, MaxBucketLength},
		{"artifacts.s3.accessKey", c.Artifacts.S3.AccessKey, MaxCredentialLength},
		{"artifacts.s3.secretKey", c.Artifacts.S3.SecretKey, MaxCredentialLength},
		{"artifacts.s3.prefix", c.Artifacts.S3.Prefix, MaxKeyLength},
		{"session.redisURL", c.Session.RedisURL, MaxURLLength},
		{"session.key", c.Session.Key, MaxKeyLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Paginator.Backend) {
	case "", BackendRod, BackendChromedp:
	default:
		return invalid("paginator.backend", c.Paginator.Backend, "must be rod or chromedp")
	}
	switch strings.ToLower(c.Paginator.PageFormat) {
	case "", PageA4, PageLetter, PageLegal:
	default:
		return invalid("paginator.pageFormat", c.Paginator.PageFormat, "must be a4, letter, or legal")
	}
	if err := validateDuration("paginator.timeout", c.Paginator.Timeout); err != nil {
		return err
	}
	if err := validateDuration("assist.timeout", c.Assist.Timeout); err != nil {
		return err
	}
	if c.Assist.Endpoint != "" {
		if err := validateHTTPURL("assist.endpoint", c.Assist.Endpoint); err != nil {
			return err
		}
	}

	if err := validateAlignment("header.alignment", c.Header.Alignment); err != nil {
		return err
	}
	if err := validateAlignment("footer.alignment", c.Footer.Alignment); err != nil {
		return err
	}
	if err := c.Margins.validate(); err != nil {
		return err
	}
	if c.DateFormat != "" {
		if _, err := dateutil.Layout(c.DateFormat); err != nil {
			return fmt.Errorf("%w: dateFormat: %v", ErrInvalidValue, err)
		}
	}

	if c.Artifacts.Dir != "" && c.Artifacts.S3.Enabled() {
		return fmt.Errorf("%w: artifacts.dir and artifacts.s3 are mutually exclusive", ErrInvalidValue)
	}
	if c.Artifacts.S3.Enabled() && c.Artifacts.S3.Bucket == "" {
		return fmt.Errorf("%w: artifacts.s3.bucket: required when artifacts.s3.endpoint is set", ErrInvalidValue)
	}

	if c.Session.RedisURL != "" {
		u, err := url.Parse(c.Session.RedisURL)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss" && u.Scheme != "unix") {
			return invalid("session.redisURL", c.Session.RedisURL, "must be a redis://, rediss:// or unix:// URL")
		}
	}

	return nil
}

func (m MarginsConfig) validate() error {
	unit := m.Unit
	if unit == "" {
		unit = pipeline.UnitMillimetre
	}
	if !pipeline.IsKnownUnit(unit) {
		return invalid("margins.unit", m.Unit, "must be mm, cm, or in")
	}
	limit := pipeline.MaxMargin(unit)
	for _, side := range []struct {
		name  string
		value float64
	}{{"top", m.Top}, {"right", m.Right}, {"bottom", m.Bottom}, {"left", m.Left}} {
		if side.value < 0 || side.value > limit {
			return fmt.Errorf("%w: margins.%s: must be between 0 and %g%s, got %g",
				ErrInvalidValue, side.name, limit, unit, side.value)
		}
	}
	return nil
}

// PaginatorTimeout returns the parsed paginator timeout, or 0 when unset.
func (c *Config) PaginatorTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Paginator.Timeout)
	return d
}

// AssistTimeout returns the parsed assist timeout, or 0 when unset.
func (c *Config) AssistTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Assist.Timeout)
	return d
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateAlignment(field, value string) error {
	switch strings.ToLower(value) {
	case "", pipeline.AlignLeft, pipeline.AlignCenter, pipeline.AlignRight:
		return nil
	}
	return invalid(field, value, "must be left, center, or right")
}

func validateDuration(field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return invalid(field, value, "must be a positive duration such as 30s or 2m")
	}
	return nil
}

func validateHTTPURL(field, value string) error {
	if !fileutil.IsURL(value) {
		return invalid(field, value, "must start with http:// or https://")
	}
	if u, err := url.Parse(value); err != nil || u.Host == "" {
		return invalid(field, value, "must include a host")
	}
	return nil
}

func invalid(field, value, reason string) error {
	return fmt.Errorf("%w: %s: %q (%s)", ErrInvalidValue, field, value, reason)
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched in the current directory then the user config dir.
// Keys absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Dump renders cfg as YAML with the S3 secret masked.
func Dump(cfg *Config) ([]byte, error) {
	masked := *cfg
	if masked.Artifacts.S3.SecretKey != "" {
		masked.Artifacts.S3.SecretKey = "********"
	}
	return yamlutil.Marshal(&masked)
}

// SearchPaths lists the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
