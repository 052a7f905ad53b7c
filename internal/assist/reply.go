package assist

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// markdown only parses; nothing is rendered.
var markdown = goldmark.New()

// ExtractDocument returns the candidate document carried by a model reply.
// When the trimmed reply starts with a fenced code block, the block content
// is returned; otherwise the trimmed reply itself.
func ExtractDocument(reply string) string {
	reply = strings.TrimSpace(crlfOrCR.ReplaceAllString(reply, "\n"))
	if !strings.HasPrefix(reply, "```") && !strings.HasPrefix(reply, "~~~") {
		return reply
	}

	src := []byte(reply)
	doc := markdown.Parser().Parse(text.NewReader(src))

	block, ok := doc.FirstChild().(*ast.FencedCodeBlock)
	if !ok {
		return reply
	}

	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSpace(buf.String())
}
