package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMarkdown_Empty(t *testing.T) {
	md := NewMarkdown("")
	require.NotNil(t, md)
	require.Equal(t, "", md.Source)
	require.Equal(t, "", strings.TrimSpace(string(md.Render())))
}

func TestMarkdown_Render_Sanitizes(t *testing.T) {
	md := NewMarkdown("hello <script>alert(1)</script> **world**")

	html := string(md.Render())
	require.NotContains(t, strings.ToLower(html), "<script")
	require.Contains(t, html, "<strong>world</strong>")

	// caching path
	require.Equal(t, html, string(md.Render()))
}

func TestMarkdown_Render_ExternalLinks(t *testing.T) {
	md := NewMarkdown("See [the docs](https://example.com).")

	html := string(md.Render())
	require.Contains(t, html, `href="https://example.com"`)
	require.Contains(t, html, "nofollow")
}

func TestMarkdown_PlainText(t *testing.T) {
	md := MustLoad([]byte("hello **world**"))

	text := string(md.PlainText())
	require.Equal(t, "hello world", text)
}
