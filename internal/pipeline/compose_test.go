package pipeline

import (
	"strings"
	"testing"
)

// collapseSpace removes all whitespace so documents can be compared structurally.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestPatternComposer_Extract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantMarkup string
		wantStyle  string
		wantScript string
	}{
		{
			name:       "no blocks returns trimmed input",
			input:      "\n  <h1>Hello</h1>\n  ",
			wantMarkup: "<h1>Hello</h1>",
		},
		{
			name:       "empty input",
			input:      "",
			wantMarkup: "",
		},
		{
			name:       "single style block",
			input:      "<style>h1 { color: red; }</style><h1>Hi</h1>",
			wantMarkup: "<h1>Hi</h1>",
			wantStyle:  "h1 { color: red; }",
		},
		{
			name:       "single script block",
			input:      "<p>x</p><script>alert(1);</script>",
			wantMarkup: "<p>x</p>",
			wantScript: "alert(1);",
		},
		{
			name:       "multiple blocks joined by blank line in order",
			input:      "<style>a{}</style><p>1</p><style>b{}</style><script>one()</script><script>two()</script>",
			wantMarkup: "<p>1</p>",
			wantStyle:  "a{}\n\nb{}",
			wantScript: "one()\n\ntwo()",
		},
		{
			name:       "case-insensitive tags with attributes",
			input:      `<STYLE type="text/css">p{}</STYLE><Script defer>run()</SCRIPT><p>x</p>`,
			wantMarkup: "<p>x</p>",
			wantStyle:  "p{}",
			wantScript: "run()",
		},
		{
			name:       "unterminated style is left in markup",
			input:      "<p>x</p><style>p { color: red; }",
			wantMarkup: "<p>x</p><style>p { color: red; }",
		},
		{
			name:       "empty block contributes nothing",
			input:      "<style>   </style><p>x</p>",
			wantMarkup: "<p>x</p>",
		},
		{
			name:       "indented block is dedented",
			input:      "<style>\n        a {\n          color: red;\n        }\n    </style>",
			wantMarkup: "",
			wantStyle:  "a {\n  color: red;\n}",
		},
	}

	c := &PatternComposer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := c.Extract(tt.input)
			if got.Markup != tt.wantMarkup {
				t.Errorf("Markup = %q, want %q", got.Markup, tt.wantMarkup)
			}
			if got.Style != tt.wantStyle {
				t.Errorf("Style = %q, want %q", got.Style, tt.wantStyle)
			}
			if got.Script != tt.wantScript {
				t.Errorf("Script = %q, want %q", got.Script, tt.wantScript)
			}
		})
	}
}

func TestPatternComposer_Extract_NoBlocksIsIdentity(t *testing.T) {
	t.Parallel()

	docs := []string{
		"<!DOCTYPE html><html><body><p>Plain</p></body></html>",
		"just text",
		"   <div>\n<span>nested</span>\n</div>\t",
		"<stylesheet-like>not a style</stylesheet-like>",
	}

	c := &PatternComposer{}
	for _, d := range docs {
		got := c.Extract(d)
		if got.Markup != strings.TrimSpace(d) || got.Style != "" || got.Script != "" {
			t.Errorf("Extract(%q) = %+v, want markup %q and empty style/script", d, got, strings.TrimSpace(d))
		}
	}
}

func TestPatternComposer_Compose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     Fragments
		wantParts []string
		wantNot   []string
	}{
		{
			name:  "bare markup is wrapped in skeleton",
			input: Fragments{Markup: "<p>Hi</p>"},
			wantParts: []string{
				"<!DOCTYPE html>",
				`<meta charset="UTF-8">`,
				`<meta name="viewport"`,
				"<title>Document</title>",
				"<body>\n<p>Hi</p>\n</body>",
			},
			wantNot: []string{"<style>", "<script>"},
		},
		{
			name:      "style goes before closing head",
			input:     Fragments{Markup: "<html><head><title>T</title></head><body></body></html>", Style: "p{}"},
			wantParts: []string{"    <style>\n        p{}\n    </style>\n</head>"},
		},
		{
			name:      "script goes before closing body",
			input:     Fragments{Markup: "<html><body><p>x</p></body></html>", Script: "run()"},
			wantParts: []string{"    <script>\n        run()\n    </script>\n</body>"},
		},
		{
			name:      "head without closing tag receives style after opening",
			input:     Fragments{Markup: "<html><head><body></body></html>", Style: "p{}"},
			wantParts: []string{"<head>\n    <style>"},
		},
		{
			name:      "missing head opens one before body",
			input:     Fragments{Markup: `<html><body class="x"><p>x</p></body></html>`, Style: "p{}"},
			wantParts: []string{"<head>\n    <style>\n        p{}\n    </style>\n</head>\n<body class=\"x\">"},
		},
		{
			name:      "header element is not mistaken for head",
			input:     Fragments{Markup: "<html><header>top</header><body></body></html>", Style: "p{}"},
			wantParts: []string{"<header>top</header><head>\n    <style>"},
		},
		{
			name:      "only closing html synthesizes head and body",
			input:     Fragments{Markup: "<html><p>x</p></html>", Style: "p{}", Script: "run()"},
			wantParts: []string{"<head>\n    <style>", "</head>\n<body>\n    <script>", "</script>\n</body>\n</html>"},
		},
		{
			name:      "no markers appends blocks",
			input:     Fragments{Markup: "<!DOCTYPE html><p>x</p>", Style: "p{}", Script: "run()"},
			wantParts: []string{"<!DOCTYPE html><p>x</p>\n    <style>", "</style>\n    <script>"},
		},
		{
			name:      "uppercase markers are found",
			input:     Fragments{Markup: "<HTML><HEAD></HEAD><BODY></BODY></HTML>", Style: "p{}", Script: "run()"},
			wantParts: []string{"</style>\n</HEAD>", "</script>\n</BODY>"},
		},
		{
			name:    "whitespace-only style and script are skipped",
			input:   Fragments{Markup: "<p>x</p>", Style: "  \n ", Script: "\t"},
			wantNot: []string{"<style>", "<script>"},
		},
		{
			name:      "multi-line blocks are indented line by line",
			input:     Fragments{Markup: "<p>x</p>", Style: "a {\n  color: red;\n}"},
			wantParts: []string{"        a {\n          color: red;\n        }"},
		},
	}

	c := &PatternComposer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := c.Compose(tt.input)
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Compose() missing %q\ngot:\n%s", part, got)
				}
			}
			for _, part := range tt.wantNot {
				if strings.Contains(got, part) {
					t.Errorf("Compose() should not contain %q\ngot:\n%s", part, got)
				}
			}
		})
	}
}

func TestPatternComposer_Compose_SingleBlockPerCall(t *testing.T) {
	t.Parallel()

	c := &PatternComposer{}
	in := Fragments{Markup: "<section>x</section>", Style: "p{}", Script: "run()"}

	for i := 0; i < 3; i++ {
		got := c.Compose(in)
		if n := strings.Count(got, "<style>"); n != 1 {
			t.Fatalf("call %d: %d style blocks, want 1", i, n)
		}
		if n := strings.Count(got, "<script>"); n != 1 {
			t.Fatalf("call %d: %d script blocks, want 1", i, n)
		}
	}
}

func TestPatternComposer_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		style  string
		script string
	}{
		{
			name:   "bare markup",
			markup: "<h1>Title</h1>\n<p>Body</p>",
			style:  "h1 { color: navy; }",
			script: "console.log('ready');",
		},
		{
			name:   "full document",
			markup: "<!DOCTYPE html>\n<html>\n<head>\n<title>T</title>\n</head>\n<body>\n<p>x</p>\n</body>\n</html>",
			style:  "body {\n  margin: 0;\n}\n\np {\n  color: red;\n}",
			script: "function f() {\n  return 1;\n}",
		},
		{
			name:   "unicode content",
			markup: "<p>Bonjour à tous</p>",
			style:  "p::after { content: \"→\"; }",
			script: "const s = \"日本語\";",
		},
	}

	c := &PatternComposer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			combined := c.Compose(Fragments{Markup: tt.markup, Style: tt.style, Script: tt.script})
			got := c.Extract(combined)

			if got.Style != tt.style {
				t.Errorf("Style = %q, want %q", got.Style, tt.style)
			}
			if got.Script != tt.script {
				t.Errorf("Script = %q, want %q", got.Script, tt.script)
			}
			if !strings.Contains(collapseSpace(got.Markup), collapseSpace(tt.markup)) {
				t.Errorf("Markup %q does not contain original %q", got.Markup, tt.markup)
			}
		})
	}
}

func TestPatternComposer_ModeRoundTrip(t *testing.T) {
	t.Parallel()

	original := `<!DOCTYPE html>
<html lang="en">
<head>
    <title>Report</title>
    <style>
        body { font-family: serif; }
    </style>
</head>
<body>
    <h1>Quarterly</h1>
    <script>
        document.title = "x";
    </script>
</body>
</html>`

	c := &PatternComposer{}
	first := c.Extract(original)
	recombined := c.Compose(first)
	second := c.Extract(recombined)

	if second.Style != first.Style || second.Script != first.Script {
		t.Errorf("blocks changed across round trip: %+v vs %+v", first, second)
	}
	if collapseSpace(second.Markup) != collapseSpace(first.Markup) {
		t.Errorf("markup changed across round trip:\n%s\nvs\n%s", first.Markup, second.Markup)
	}
}

func TestDedent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no indentation", "a\nb", "a\nb"},
		{"common indentation removed", "    a\n      b", "a\n  b"},
		{"blank lines ignored for width", "    a\n\n    b", "a\n\nb"},
		{"whitespace-only line emptied", "  a\n   \n  b", "a\n\nb"},
		{"tabs count as indentation", "\ta\n\tb", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := dedent(tt.input); got != tt.want {
				t.Errorf("dedent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIndexFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s, marker string
		want      int
	}{
		{"<html></HEAD>", "</head>", 6},
		{"abc", "</head>", -1},
		{"", "x", -1},
		{"<BODY>", "<body>", 0},
	}

	for _, tt := range tests {
		if got := indexFold(tt.s, tt.marker); got != tt.want {
			t.Errorf("indexFold(%q, %q) = %d, want %d", tt.s, tt.marker, got, tt.want)
		}
	}
}
