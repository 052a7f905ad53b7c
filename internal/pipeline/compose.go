package pipeline

import (
	"regexp"
	"strings"
)

// Fragments is the separated form of a document.
type Fragments struct {
	Markup string `json:"markup"`
	Style  string `json:"style"`
	Script string `json:"script"`
}

// Composer converts between a combined document and its separated fragments.
type Composer interface {
	Extract(combined string) Fragments
	Compose(f Fragments) string
}

// PatternComposer implements Composer with structural pattern matching.
// It tolerates partially written markup: nothing it does returns an error.
type PatternComposer struct{}

// Compile-time interface check.
var _ Composer = (*PatternComposer)(nil)

var (
	styleBlockPattern  = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	scriptBlockPattern = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
	headOpenPattern    = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)
	bodyOpenPattern    = regexp.MustCompile(`(?i)<body(\s[^>]*)?>`)
)

// Block indentation used when injecting style and script blocks.
const (
	blockTagIndent  = "    "
	blockBodyIndent = "        "
)

// documentSkeleton wraps bare markup. %s is replaced by the markup.
const documentSkeleton = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Document</title>
</head>
<body>
%s
</body>
</html>`

// Extract pulls every <style> and <script> block out of combined.
// Block contents are dedented, trimmed and joined by a blank line in document
// order. The remaining markup is trimmed. Unterminated blocks stay in the markup.
func (c *PatternComposer) Extract(combined string) (f Fragments) {
	defer func() {
		if r := recover(); r != nil {
			f = Fragments{Markup: combined}
		}
	}()

	style := collectBlocks(styleBlockPattern, combined)
	script := collectBlocks(scriptBlockPattern, combined)

	markup := styleBlockPattern.ReplaceAllString(combined, "")
	markup = scriptBlockPattern.ReplaceAllString(markup, "")

	return Fragments{
		Markup: strings.TrimSpace(markup),
		Style:  style,
		Script: script,
	}
}

// collectBlocks returns the inner content of every match of pattern.
func collectBlocks(pattern *regexp.Regexp, content string) string {
	matches := pattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return ""
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		inner := strings.TrimSpace(dedent(m[1]))
		if inner != "" {
			parts = append(parts, inner)
		}
	}
	return strings.Join(parts, "\n\n")
}

// dedent removes the indentation shared by every non-blank line.
// Whitespace-only lines become empty.
func dedent(s string) string {
	lines := strings.Split(s, "\n")

	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if common == -1 || indent < common {
			common = indent
		}
	}

	for i, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			lines[i] = ""
		case common > 0:
			lines[i] = line[common:]
		}
	}
	return strings.Join(lines, "\n")
}

// Compose builds a combined document from f.
// Markup without a document root is wrapped in a minimal skeleton. A non-empty
// style goes into the head, a non-empty script at the end of the body. When no
// structural marker exists the blocks are appended, which may yield a document
// that is not well formed.
func (c *PatternComposer) Compose(f Fragments) string {
	doc := f.Markup
	if !hasDocumentRoot(doc) {
		doc = strings.Replace(documentSkeleton, "%s", doc, 1)
	}

	if strings.TrimSpace(f.Style) != "" {
		doc = injectStyle(doc, indentBlock("style", f.Style))
	}
	if strings.TrimSpace(f.Script) != "" {
		doc = injectScript(doc, indentBlock("script", f.Script))
	}
	return doc
}

// hasDocumentRoot reports whether markup already declares a document.
func hasDocumentRoot(markup string) bool {
	return indexFold(markup, "<!DOCTYPE") != -1 || indexFold(markup, "<html") != -1
}

// indentBlock renders content as an indented element named tag.
func indentBlock(tag, content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = blockBodyIndent + line
	}
	return blockTagIndent + "<" + tag + ">\n" +
		strings.Join(lines, "\n") + "\n" +
		blockTagIndent + "</" + tag + ">"
}

// injectStyle places block in the document head, opening one if needed.
func injectStyle(doc, block string) string {
	if idx := indexFold(doc, "</head>"); idx != -1 {
		return doc[:idx] + block + "\n" + doc[idx:]
	}

	if loc := headOpenPattern.FindStringIndex(doc); loc != nil {
		return doc[:loc[1]] + "\n" + block + doc[loc[1]:]
	}

	if loc := bodyOpenPattern.FindStringIndex(doc); loc != nil {
		return doc[:loc[0]] + "<head>\n" + block + "\n</head>\n" + doc[loc[0]:]
	}

	if idx := indexFold(doc, "</html>"); idx != -1 {
		return doc[:idx] + "<head>\n" + block + "\n</head>\n<body>\n</body>\n" + doc[idx:]
	}

	return doc + "\n" + block
}

// injectScript places block at the end of the body.
func injectScript(doc, block string) string {
	if idx := indexFold(doc, "</body>"); idx != -1 {
		return doc[:idx] + block + "\n" + doc[idx:]
	}

	if idx := indexFold(doc, "</html>"); idx != -1 {
		return doc[:idx] + block + "\n" + doc[idx:]
	}

	return doc + "\n" + block
}

// indexFold returns the byte index of the first ASCII case-insensitive match
// of marker in s, or -1.
func indexFold(s, marker string) int {
	n := len(marker)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], marker) {
			return i
		}
	}
	return -1
}
