package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"thirdcoast.systems/framefetch/cmd/web/ctxkeys"
	"thirdcoast.systems/framefetch/internal/downloader"
)

func renderIndex(t *testing.T, ctx context.Context, page PageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Index(page).Render(ctx, &buf))
	return buf.String()
}

func defaultPage() PageData {
	return PageData{
		Form: downloader.State{
			Quality:    downloader.DefaultQuality,
			FormatType: downloader.DefaultFormat,
		},
		Qualities: downloader.QualityOptions(nil),
	}
}

func TestIndex_RendersShell(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxkeys.BackendConfigured, true)
	ctx = context.WithValue(ctx, ctxkeys.DatastarScriptURL, "https://cdn.example.com/datastar.js")

	html := renderIndex(t, ctx, defaultPage())

	require.Contains(t, html, `id="site-header"`)
	require.Contains(t, html, `id="home"`)
	require.Contains(t, html, `id="download-form"`)
	require.Contains(t, html, `id="about"`)
	require.Contains(t, html, `id="toast-container"`)
	require.Contains(t, html, `src="https://cdn.example.com/datastar.js"`)
	require.Contains(t, html, "Everything")
	require.Contains(t, html, "Status: Online")
	require.NotContains(t, html, `id="config-banner"`)

	// The about section comes from markdown.
	require.Contains(t, html, "<strong>YouTube</strong>")
}

func TestIndex_ShowsBannerWithoutBackend(t *testing.T) {
	html := renderIndex(t, context.Background(), defaultPage())

	require.Contains(t, html, `id="config-banner"`)
	require.Contains(t, html, "API_BASE_URL")
	require.Contains(t, html, "Status: Not configured")
}

func TestPageDescription(t *testing.T) {
	d := pageDescription()
	require.True(t, strings.HasPrefix(d, "FrameFetch saves videos from YouTube, TikTok and Facebook"))
	require.NotContains(t, d, "<")
	require.NotContains(t, d, "\n")
	require.LessOrEqual(t, len([]rune(d)), descriptionLength)
}

func TestDatastarScriptURL_Default(t *testing.T) {
	require.NotEmpty(t, datastarScriptURL(context.Background()))
	require.False(t, backendConfigured(context.Background()))
}
