package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-docstudio/internal/config"
	"github.com/alnah/go-docstudio/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS before any pool is sized.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// hasVerboseFlag reports whether -v or --verbose appears before "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "export":
		err = runExport(ctx, rest, env)
	case "split":
		err = runSplit(rest, env)
	case "join":
		err = runJoin(rest, env)
	case "new":
		err = runNew(rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "mcp":
		err = runMCP(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "config":
		err = runConfig(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "docstudio %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", withHint(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// withHint appends the config lookup hint to not-found errors.
func withHint(err error) string {
	if errors.Is(err, config.ErrConfigNotFound) {
		return err.Error() + hints.ForConfigNotFound(config.SearchPaths("docstudio"))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return err.Error() + hints.ForTimeout()
	}
	return err.Error()
}

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("config", env.Stderr)
	addCommonFlags(fs, &common)
	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	out, err := config.Dump(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
