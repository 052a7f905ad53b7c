package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alnah/go-docstudio/internal/assets"
	"github.com/alnah/go-docstudio/internal/fileutil"
	"github.com/alnah/go-docstudio/internal/pipeline"
)

// File names used by split and join.
const (
	markupFile = "markup.html"
	styleFile  = "style.css"
	scriptFile = "script.js"
)

// stdinName selects standard input as the document source.
const stdinName = "-"

// splitFlags holds flags for the split command.
type splitFlags struct {
	common commonFlags
	output string
}

// joinFlags holds flags for the join command.
type joinFlags struct {
	common commonFlags
	markup string
	style  string
	script string
	output string
}

// runSplit extracts style and script blocks from a combined document
// into markup.html, style.css and script.js.
func runSplit(args []string, env *Environment) error {
	var f splitFlags
	fs := newFlagSet("split", env.Stderr)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", ".", "output directory")
	if err := parseFlagSet(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: split takes at most one input", ErrUsage)
	}

	input := stdinName
	if fs.NArg() == 1 {
		input = fs.Arg(0)
	}
	doc, err := readDocument(input, env.Stdin)
	if err != nil {
		return err
	}

	var composer pipeline.PatternComposer
	frags := composer.Extract(doc)

	if err := os.MkdirAll(f.output, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err)
	}
	for _, part := range []struct {
		name    string
		content string
	}{
		{markupFile, frags.Markup},
		{styleFile, frags.Style},
		{scriptFile, frags.Script},
	} {
		path := filepath.Join(f.output, part.name)
		if err := writeOutput(path, []byte(part.content)); err != nil {
			return err
		}
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", path)
		}
	}
	return nil
}

// runJoin composes markup, style and script files into one document.
// A directory argument supplies markup.html, style.css and script.js;
// flags override single parts. Missing parts are empty.
func runJoin(args []string, env *Environment) error {
	var f joinFlags
	fs := newFlagSet("join", env.Stderr)
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.markup, "markup", "", "markup file")
	fs.StringVar(&f.style, "style", "", "stylesheet file")
	fs.StringVar(&f.script, "script", "", "script file")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	if err := parseFlagSet(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: join takes at most one directory", ErrUsage)
	}

	paths := map[string]*string{markupFile: &f.markup, styleFile: &f.style, scriptFile: &f.script}
	if fs.NArg() == 1 {
		dir := fs.Arg(0)
		for name, p := range paths {
			if *p == "" {
				candidate := filepath.Join(dir, name)
				if fileutil.FileExists(candidate) {
					*p = candidate
				}
			}
		}
	}
	if f.markup == "" && f.style == "" && f.script == "" {
		return fmt.Errorf("%w: give a directory or at least one of --markup, --style, --script", ErrNoInput)
	}

	var frags pipeline.Fragments
	for _, part := range []struct {
		path string
		dst  *string
	}{
		{f.markup, &frags.Markup},
		{f.style, &frags.Style},
		{f.script, &frags.Script},
	} {
		if part.path == "" {
			continue
		}
		content, err := readDocument(part.path, env.Stdin)
		if err != nil {
			return err
		}
		*part.dst = content
	}

	var composer pipeline.PatternComposer
	doc := composer.Compose(frags)

	if f.output == "" {
		_, err := io.WriteString(env.Stdout, doc+"\n")
		return err
	}
	if err := writeOutput(f.output, []byte(doc)); err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", f.output)
	}
	return nil
}

// newFlags holds flags for the new command.
type newFlags struct {
	common       commonFlags
	documentsDir string
	output       string
	list         bool
}

// runNew writes a starter document, the default one when no name is given.
func runNew(args []string, env *Environment) error {
	var f newFlags
	fs := newFlagSet("new", env.Stderr)
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.documentsDir, "documents-dir", "", "directory holding custom documents/<name>.html")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.BoolVarP(&f.list, "list", "l", false, "list the built-in documents")
	if err := parseFlagSet(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: new takes at most one document name", ErrUsage)
	}

	if f.list {
		for _, name := range assets.Names() {
			fmt.Fprintln(env.Stdout, name)
		}
		return nil
	}

	name := assets.StarterDocument
	if fs.NArg() == 1 {
		name = fs.Arg(0)
	}
	doc, err := loadStarter(name, f.documentsDir)
	if err != nil {
		return err
	}

	if f.output == "" {
		_, err := io.WriteString(env.Stdout, doc)
		return err
	}
	if err := writeOutput(f.output, []byte(doc)); err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", f.output)
	}
	return nil
}

// readDocument reads path, or stdin when path is "-".
func readDocument(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinName {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided input
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}
	return string(data), nil
}

// writeOutput writes data to path atomically.
func writeOutput(path string, data []byte) error {
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	return nil
}
