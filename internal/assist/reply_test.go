package assist

import "testing"

func TestExtractDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "plain reply is trimmed",
			reply: "\n  <p>x</p>\n",
			want:  "<p>x</p>",
		},
		{
			name:  "html fence",
			reply: "```html\n<!DOCTYPE html>\n<html></html>\n```",
			want:  "<!DOCTYPE html>\n<html></html>",
		},
		{
			name:  "bare fence",
			reply: "```\n<p>x</p>\n```",
			want:  "<p>x</p>",
		},
		{
			name:  "tilde fence",
			reply: "~~~html\n<p>x</p>\n~~~",
			want:  "<p>x</p>",
		},
		{
			name:  "trailing prose after fence is dropped",
			reply: "```html\n<p>x</p>\n```\n\nI changed the paragraph.",
			want:  "<p>x</p>",
		},
		{
			name:  "unclosed fence keeps content",
			reply: "```html\n<p>x</p>",
			want:  "<p>x</p>",
		},
		{
			name:  "fence not at start is left alone",
			reply: "Here it is:\n```html\n<p>x</p>\n```",
			want:  "Here it is:\n```html\n<p>x</p>\n```",
		},
		{
			name:  "CRLF line endings",
			reply: "```html\r\n<p>x</p>\r\n<p>y</p>\r\n```",
			want:  "<p>x</p>\n<p>y</p>",
		},
		{
			name:  "indentation inside fence preserved",
			reply: "```html\n<div>\n  <p>x</p>\n</div>\n```",
			want:  "<div>\n  <p>x</p>\n</div>",
		},
		{
			name:  "empty",
			reply: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractDocument(tt.reply); got != tt.want {
				t.Errorf("ExtractDocument(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}
