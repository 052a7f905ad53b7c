package pipeline

import (
	"html"
	"strings"
)

// Alignment values for plain-text decorations.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Page placeholders understood by Chrome's header and footer templates.
// The header shows the current page only; the footer shows "page N of M".
const (
	headerPageField = `<span class="pageNumber"></span>`
	footerPageField = `Page <span class="pageNumber"></span> of <span class="totalPages"></span>`
)

// EmptyTemplate is sent in place of an absent decoration when its companion
// is present. Chrome prints its own default header (title and date) when no
// header template is given.
const EmptyTemplate = "<div></div>"

// fieldSeparator joins text, page number and date.
const fieldSeparator = " | "

// DecorationData describes a page header or footer.
type DecorationData struct {
	Text           string `json:"text"`
	IsRichContent  bool   `json:"isRichContent"`
	ShowPageNumber bool   `json:"showPageNumber"`
	ShowDate       bool   `json:"showDate"`
	Alignment      string `json:"alignment"`
}

// IsPresent reports whether d would print anything. A nil d is absent.
func (d *DecorationData) IsPresent() bool {
	if d == nil {
		return false
	}
	return d.Text != "" || d.ShowPageNumber || d.ShowDate
}

// Templates holds the header and footer fragments handed to the paginator.
type Templates struct {
	Header string
	Footer string

	// Display is false when neither decoration is present; no fragment
	// must be sent in that case.
	Display bool

	// ClearTitle asks the renderer to blank the document title before
	// printing. Set when only the footer is present.
	ClearTitle bool
}

// BuildTemplates builds both fragments. date is the already formatted value
// used when ShowDate is set.
func BuildTemplates(header, footer *DecorationData, date string) Templates {
	hasHeader := header.IsPresent()
	hasFooter := footer.IsPresent()

	if !hasHeader && !hasFooter {
		return Templates{}
	}

	t := Templates{
		Display: true,
		Header:  EmptyTemplate,
		Footer:  EmptyTemplate,
	}
	if hasHeader {
		t.Header = BuildHeaderTemplate(header, date)
	}
	if hasFooter {
		t.Footer = BuildFooterTemplate(footer, date)
	}
	t.ClearTitle = hasFooter && !hasHeader
	return t
}

// BuildHeaderTemplate renders a header fragment.
// Returns an empty string when d is absent.
func BuildHeaderTemplate(d *DecorationData, date string) string {
	return buildTemplate(d, headerPageField, date)
}

// BuildFooterTemplate renders a footer fragment.
// Returns an empty string when d is absent.
func BuildFooterTemplate(d *DecorationData, date string) string {
	return buildTemplate(d, footerPageField, date)
}

func buildTemplate(d *DecorationData, pageField, date string) string {
	if !d.IsPresent() {
		return ""
	}

	var fields []string
	if d.ShowPageNumber {
		fields = append(fields, pageField)
	}
	if d.ShowDate {
		fields = append(fields, html.EscapeString(date))
	}

	// Rich content is trusted markup and keeps no alignment.
	if d.IsRichContent && d.Text != "" {
		content := d.Text
		if len(fields) > 0 {
			content += fieldSeparator + strings.Join(fields, fieldSeparator)
		}
		return `<div style="font-size: 10px; padding: 10px; width: 100%;">` + content + `</div>`
	}

	parts := make([]string, 0, len(fields)+1)
	if d.Text != "" {
		parts = append(parts, html.EscapeString(d.Text))
	}
	parts = append(parts, fields...)

	return `<div style="font-size: 10px; padding: 10px; text-align: ` + textAlign(d.Alignment) +
		`; width: 100%;">` + strings.Join(parts, fieldSeparator) + `</div>`
}

// textAlign maps an alignment to a CSS value, defaulting to center.
func textAlign(alignment string) string {
	switch strings.ToLower(alignment) {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "center"
	}
}
