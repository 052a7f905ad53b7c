package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-docstudio/internal/config"
)

// envPrefix marks the variables read by docstudio.
const envPrefix = "DOCSTUDIO_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string        // DOCSTUDIO_CONFIG: config file name or path
	Backend        string        // DOCSTUDIO_BACKEND: rod or chromedp
	Timeout        time.Duration // DOCSTUDIO_TIMEOUT: PDF generation timeout
	OllamaEndpoint string        // DOCSTUDIO_OLLAMA_ENDPOINT: assistant base URL
	OllamaModel    string        // DOCSTUDIO_OLLAMA_MODEL: assistant model
	ArtifactDir    string        // DOCSTUDIO_ARTIFACT_DIR: exported PDF directory
	RedisURL       string        // DOCSTUDIO_REDIS_URL: session snapshot store
	Addr           string        // DOCSTUDIO_ADDR: serve listen address
}

// knownEnvVars lists valid DOCSTUDIO_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCSTUDIO_CONFIG":          true,
	"DOCSTUDIO_BACKEND":         true,
	"DOCSTUDIO_TIMEOUT":         true,
	"DOCSTUDIO_OLLAMA_ENDPOINT": true,
	"DOCSTUDIO_OLLAMA_MODEL":    true,
	"DOCSTUDIO_ARTIFACT_DIR":    true,
	"DOCSTUDIO_REDIS_URL":       true,
	"DOCSTUDIO_ADDR":            true,
	"DOCSTUDIO_CONTAINER":       true, // doctor override
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations are ignored rather than reported.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("DOCSTUDIO_CONFIG"),
		Backend:        os.Getenv("DOCSTUDIO_BACKEND"),
		OllamaEndpoint: os.Getenv("DOCSTUDIO_OLLAMA_ENDPOINT"),
		OllamaModel:    os.Getenv("DOCSTUDIO_OLLAMA_MODEL"),
		ArtifactDir:    os.Getenv("DOCSTUDIO_ARTIFACT_DIR"),
		RedisURL:       os.Getenv("DOCSTUDIO_REDIS_URL"),
		Addr:           os.Getenv("DOCSTUDIO_ADDR"),
	}

	if timeout := os.Getenv("DOCSTUDIO_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized DOCSTUDIO_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment variables on cfg.
// Order: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Backend != "" {
		cfg.Paginator.Backend = env.Backend
	}
	if env.Timeout > 0 {
		cfg.Paginator.Timeout = env.Timeout.String()
	}
	if env.OllamaEndpoint != "" {
		cfg.Assist.Endpoint = env.OllamaEndpoint
	}
	if env.OllamaModel != "" {
		cfg.Assist.Model = env.OllamaModel
	}
	if env.ArtifactDir != "" && !cfg.Artifacts.S3.Enabled() {
		cfg.Artifacts.Dir = env.ArtifactDir
	}
	if env.RedisURL != "" {
		cfg.Session.RedisURL = env.RedisURL
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
}

// loadConfig resolves the effective configuration: the file named by
// --config or DOCSTUDIO_CONFIG (defaults when neither is set), then
// environment overrides. Callers apply their flags and call Validate.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, err
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}
