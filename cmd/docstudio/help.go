package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docstudio <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export HTML documents to paginated PDF")
	fmt.Fprintln(w, "  new        Write a starter document")
	fmt.Fprintln(w, "  split      Split a document into markup, style and script files")
	fmt.Fprintln(w, "  join       Join markup, style and script files into one document")
	fmt.Fprintln(w, "  serve      Serve the editing session over HTTP")
	fmt.Fprintln(w, "  mcp        Serve the editing session as MCP tools")
	fmt.Fprintln(w, "  doctor     Check Chrome, Ollama and store setup")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docstudio help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed logs and timing")
}

func printPaginatorUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --backend <name>      PDF backend: rod (default), chromedp")
	fmt.Fprintln(w, "  -t, --timeout <dur>       PDF generation timeout (default 30s)")
	fmt.Fprintln(w, "      --page <format>       Page format: a4 (default), letter, legal")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w, "      --date-format <fmt>   Decoration date: preset (iso, european, us, long) or tokens")
}

func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docstudio export <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export HTML documents to paginated PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML file or directory of .html files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (.pdf) or directory")
	fmt.Fprintln(w)
	printPaginatorUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Header and footer (replace the configured ones):")
	fmt.Fprintln(w, "      --header-text <s>     Header text")
	fmt.Fprintln(w, "      --header-html         Treat header text as HTML")
	fmt.Fprintln(w, "      --header-page-number  Show page number in header")
	fmt.Fprintln(w, "      --header-date         Show date in header")
	fmt.Fprintln(w, "      --header-align <a>    left, center, right")
	fmt.Fprintln(w, "      --no-header           Disable header")
	fmt.Fprintln(w, "      --footer-*            Same flags for the footer")
	fmt.Fprintln(w, "      --no-footer           Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Margins:")
	fmt.Fprintln(w, "      --margin-top <n>      Top margin (also -right, -bottom, -left)")
	fmt.Fprintln(w, "      --margin-unit <u>     mm (default), cm, in")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printSessionUsage(w io.Writer) {
	printPaginatorUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assistant:")
	fmt.Fprintln(w, "      --ollama <url>        Ollama endpoint (default http://localhost:11434)")
	fmt.Fprintln(w, "      --model <name>        Ollama model (default llama3.2:3b)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Session:")
	fmt.Fprintln(w, "      --starter <name>      Open on a named document (see 'docstudio new --list')")
	fmt.Fprintln(w, "      --documents-dir <d>   Directory holding custom documents/<name>.html")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Storage:")
	fmt.Fprintln(w, "      --artifact-dir <dir>  Keep exported PDFs in a directory (default: memory)")
	fmt.Fprintln(w, "      --redis-url <url>     Persist the session in Redis")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docstudio serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the editing session, PDF generation and AI assist over HTTP.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default localhost:3000)")
	fmt.Fprintln(w)
	printSessionUsage(w)
}

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docstudio mcp [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the editing session as Model Context Protocol tools.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Transport:")
	fmt.Fprintln(w, "      --http <host:port>    Use streamable HTTP instead of stdio")
	fmt.Fprintln(w, "      --endpoint <path>     HTTP endpoint path (default /mcp)")
	fmt.Fprintln(w, "      --output-dir <dir>    Directory the export tool writes into (default .)")
	fmt.Fprintln(w)
	printSessionUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	w := env.Stdout
	switch args[0] {
	case "export":
		printExportUsage(w)
	case "split":
		fmt.Fprintln(w, "Usage: docstudio split [input|-] [-o dir]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Split a combined HTML document into markup.html, style.css and script.js.")
		fmt.Fprintln(w, "Reads stdin when no input is given.")
	case "new":
		fmt.Fprintln(w, "Usage: docstudio new [name] [--documents-dir dir] [-o out.html] [--list]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Write a starter document (default: starter). Documents are looked up in")
		fmt.Fprintln(w, "<documents-dir>/documents/<name>.html first, then among the built-in ones.")
	case "join":
		fmt.Fprintln(w, "Usage: docstudio join [dir] [--markup f] [--style f] [--script f] [-o out.html]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Join markup, style and script into one HTML document.")
		fmt.Fprintln(w, "Writes to stdout unless --output is given.")
	case "serve":
		printServeUsage(w)
	case "mcp":
		printMCPUsage(w)
	case "doctor":
		fmt.Fprintln(w, "Usage: docstudio doctor [--json] [-c config]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check Chrome, Ollama, Redis and directory setup.")
	case "config":
		fmt.Fprintln(w, "Usage: docstudio config [-c config]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the effective configuration (file, environment and defaults) as YAML.")
	case "version":
		fmt.Fprintln(w, "Usage: docstudio version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: docstudio help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
