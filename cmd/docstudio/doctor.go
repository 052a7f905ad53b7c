package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docstudio/internal/config"
	"github.com/alnah/go-docstudio/internal/hints"
	"github.com/alnah/go-docstudio/internal/session"
)

// doctorProbeTimeout bounds each network check.
const doctorProbeTimeout = 3 * time.Second

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo  `json:"chrome"`
	Assist   assistInfo  `json:"assist"`
	Session  sessionInfo `json:"session"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Backend string `json:"backend"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// assistInfo holds the Ollama reachability check.
type assistInfo struct {
	Endpoint  string `json:"endpoint"`
	Model     string `json:"model"`
	Reachable bool   `json:"reachable"`
}

// sessionInfo holds the snapshot store check.
type sessionInfo struct {
	Persistent bool `json:"persistent"`
	Reachable  bool `json:"reachable,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable     bool `json:"temp_writable"`
	ArtifactWritable bool `json:"artifact_dir_writable,omitempty"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags or config.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	var (
		common     commonFlags
		jsonOutput bool
	)
	fs := newFlagSet("doctor", env.Stderr)
	addCommonFlags(fs, &common)
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	if err := parseFlagSet(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	cfg, err := loadConfig(common.config, loadEnvConfig())
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, cfg, http.DefaultClient)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, client *http.Client) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Chrome: chromeInfo{Backend: cfg.Paginator.Backend},
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result)
	checkAssist(ctx, result, cfg, client)
	checkSession(ctx, result, cfg)
	checkSystem(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- browser path from launcher or ROD_BROWSER_BIN
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment records container and CI detection.
func checkEnvironment(result *doctorResult) {
	rt := hints.DetectRuntime()
	result.Env.Container, result.Env.ContainerHint, result.Env.CI = rt.Container, rt.ContainerHint, rt.CI

	if (rt.Container || rt.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkAssist probes Ollama's model list. An unreachable assistant only
// disables the chat, so it is a warning.
func checkAssist(ctx context.Context, result *doctorResult, cfg *config.Config, client *http.Client) {
	endpoint := strings.TrimRight(cfg.Assist.Endpoint, "/")
	result.Assist.Endpoint = endpoint
	result.Assist.Model = cfg.Assist.Model

	ctx, cancel := context.WithTimeout(ctx, doctorProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/api/tags", nil)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid Ollama endpoint %s: %v", endpoint, err))
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ollama not reachable at %s. Start it with `ollama serve`", endpoint))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ollama at %s answered %d", endpoint, resp.StatusCode))
		return
	}
	result.Assist.Reachable = true

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&tags); err != nil {
		return
	}
	for _, m := range tags.Models {
		if m.Name == cfg.Assist.Model {
			return
		}
	}
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("Model %s is not installed. Run `ollama pull %s`", cfg.Assist.Model, cfg.Assist.Model))
}

// checkSession pings the snapshot store when one is configured.
// A configured but unreachable store prevents serve from starting.
func checkSession(ctx context.Context, result *doctorResult, cfg *config.Config) {
	if cfg.Session.RedisURL == "" {
		return
	}
	result.Session.Persistent = true

	store, err := session.NewRedisStore(cfg.Session.RedisURL, cfg.Session.Key)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Redis not reachable: %v", err))
		return
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(ctx, doctorProbeTimeout)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Redis not reachable: %v", err))
		return
	}
	result.Session.Reachable = true
}

// checkSystem verifies the temp and artifact directories are writable.
func checkSystem(result *doctorResult, cfg *config.Config) {
	tmpDir := os.TempDir()
	if writable(tmpDir) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	}

	if dir := cfg.Artifacts.Dir; dir != "" {
		if err := os.MkdirAll(dir, dirPermissions); err == nil && writable(dir) {
			result.System.ArtifactWritable = true
		} else {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Artifact directory not writable: %s", dir))
		}
	}
}

// writable reports whether a file can be created in dir.
func writable(dir string) bool {
	testFile := filepath.Join(dir, "docstudio-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return false
	}
	_ = os.Remove(testFile)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "docstudio doctor")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Chrome/Chromium (%s backend)\n", r.Chrome.Backend)
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assistant")
	if r.Assist.Reachable {
		fmt.Fprintf(w, "  [OK] Ollama reachable at %s\n", r.Assist.Endpoint)
	} else {
		fmt.Fprintf(w, "  [WARN] Ollama not reachable at %s\n", r.Assist.Endpoint)
	}
	fmt.Fprintf(w, "  [OK] Model: %s\n", r.Assist.Model)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Session")
	switch {
	case !r.Session.Persistent:
		fmt.Fprintln(w, "  [OK] Snapshots: in memory only")
	case r.Session.Reachable:
		fmt.Fprintln(w, "  [OK] Snapshots: Redis reachable")
	default:
		fmt.Fprintln(w, "  [ERROR] Snapshots: Redis not reachable")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.ArtifactWritable {
		fmt.Fprintln(w, "  [OK] Artifact directory: writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
