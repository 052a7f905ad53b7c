// Package hints turns common docstudio failures into actionable advice.
//
// Every hint renders as "\n  hint: <text>" so it can be appended to an
// error message. Runtime detection (containers, CI) lives here too because
// both the browser launchers and `docstudio doctor` base advice on it.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-docstudio/internal/fileutil"
)

// Runtime describes where the process runs.
type Runtime struct {
	Container     bool
	ContainerHint string // marker that revealed the container
	CI            bool
}

// ciMarkers are variables set by common CI providers.
var ciMarkers = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// DetectRuntime inspects the process environment.
func DetectRuntime() Runtime {
	return detectRuntime(os.Getenv, fileutil.FileExists)
}

func detectRuntime(getenv func(string) string, exists func(string) bool) Runtime {
	var rt Runtime
	switch {
	case getenv("DOCSTUDIO_CONTAINER") == "1":
		rt.Container, rt.ContainerHint = true, "DOCSTUDIO_CONTAINER=1"
	case exists("/.dockerenv"):
		rt.Container, rt.ContainerHint = true, "/.dockerenv"
	case getenv("container") != "":
		rt.Container, rt.ContainerHint = true, "container="+getenv("container")
	case getenv("KUBERNETES_SERVICE_HOST") != "":
		rt.Container, rt.ContainerHint = true, "KUBERNETES_SERVICE_HOST"
	}
	for _, name := range ciMarkers {
		if getenv(name) != "" {
			rt.CI = true
			break
		}
	}
	return rt
}

// NeedsNoSandbox reports whether Chrome must start without its sandbox:
// explicitly through ROD_NO_SANDBOX=1, or inside a container or CI job.
func NeedsNoSandbox() bool {
	if os.Getenv("ROD_NO_SANDBOX") == "1" {
		return true
	}
	rt := DetectRuntime()
	return rt.Container || rt.CI
}

// ForBrowserConnect advises on a browser that would not start.
func ForBrowserConnect() string {
	return forBrowserConnect(DetectRuntime(), os.Getenv)
}

func forBrowserConnect(rt Runtime, getenv func(string) string) string {
	var advice []string
	if (rt.Container || rt.CI) && getenv("ROD_NO_SANDBOX") != "1" {
		advice = append(advice, "set ROD_NO_SANDBOX=1 inside containers and CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		advice = append(advice, "point ROD_BROWSER_BIN at an installed Chrome")
	}
	advice = append(advice, "run `docstudio doctor`")
	return join(advice)
}

// ForTimeout advises on a render or model call that ran out of time.
func ForTimeout() string {
	return line("large documents and slow models need a longer --timeout")
}

// ForConfigNotFound lists where a config could live.
func ForConfigNotFound(searchedPaths []string) string {
	advice := "pass --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), "go-docstudio/") {
			advice += " or create " + p
			break
		}
	}
	return line(advice)
}

// slashed normalizes separators so user-dir detection works on Windows.
func slashed(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// ForOutputDirectory advises on a directory that could not be created.
func ForOutputDirectory() string {
	return line("the parent directory must exist and be writable")
}

// ForBackendNotFound lists the paginator backends.
func ForBackendNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return line("backends: " + strings.Join(available, ", "))
}

// ForAssistConnect advises on an unreachable Ollama server.
func ForAssistConnect(endpoint string) string {
	advice := []string{"start Ollama with `ollama serve`"}
	if endpoint != "" {
		advice = append(advice, "verify the endpoint "+endpoint)
	}
	return join(advice)
}

// ForModelNotFound advises on a model Ollama does not have.
func ForModelNotFound(model string) string {
	if model == "" {
		return line("pick an installed model (`ollama list`)")
	}
	return line("run `ollama pull " + model + "` or pick an installed model (`ollama list`)")
}

// ForRedisConnect advises on an unreachable snapshot store.
func ForRedisConnect() string {
	return line("check --redis-url, or unset DOCSTUDIO_REDIS_URL to keep the session in memory")
}

func line(advice string) string {
	if advice == "" {
		return ""
	}
	return "\n  hint: " + advice
}

func join(advice []string) string {
	if len(advice) == 0 {
		return ""
	}
	return line(strings.Join(advice, "; "))
}
