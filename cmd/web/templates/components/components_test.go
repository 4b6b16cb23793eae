package components

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/frameapi"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestToast_EscapesMessage(t *testing.T) {
	html := render(t, Toast(ToastError, `<b>nope</b>`))
	require.Contains(t, html, `data-kind="error"`)
	require.Contains(t, html, "&lt;b&gt;nope&lt;/b&gt;")
	require.NotContains(t, html, "<b>")
}

func TestFormError(t *testing.T) {
	require.NotContains(t, render(t, FormError("")), "form-error__icon")
	require.Contains(t, render(t, FormError(downloader.MsgNotFound)), downloader.MsgNotFound)
}

func TestDownloadForm_SeedsSignals(t *testing.T) {
	st := downloader.State{
		URL:        "https://youtu.be/abc",
		Quality:    "1080p",
		FormatType: frameapi.FormatAudio,
		Err:        &frameapi.APIError{Status: 500, Detail: "boom"},
	}
	html := render(t, DownloadForm(st, downloader.QualityOptions(nil)))

	require.Contains(t, html, `id="download-form"`)
	require.Contains(t, html, "https://youtu.be/abc")
	require.Contains(t, html, "boom")
	require.Contains(t, html, `id="quality-options"`)
	require.Contains(t, html, `<div id="video-info"></div>`)
	require.Contains(t, html, "@post('/api/form/info')")
}

func TestFormSignals_CarryFormID(t *testing.T) {
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(formSignals(downloader.State{
		FormID:     "tab-1",
		URL:        "https://youtu.be/abc",
		Quality:    "720p",
		FormatType: frameapi.FormatVideo,
	})), &got))

	require.Equal(t, "tab-1", got["formID"])
	require.Equal(t, "https://youtu.be/abc", got["url"])
	require.Equal(t, "720p", got["quality"])
}

func TestQualityPicker_MarksSelection(t *testing.T) {
	size := int64(5 * 1024 * 1024)
	info := &frameapi.VideoInfo{Formats: []frameapi.VideoFormat{{Quality: "1080p", Filesize: &size}}}

	html := render(t, QualityPicker(downloader.QualityOptions(info), "1080p"))
	require.Contains(t, html, "5 MB")
	require.Equal(t, 1, bytes.Count([]byte(html), []byte("choice is-selected")))
}

func TestVideoInfoCard(t *testing.T) {
	dur := 125.0
	info := &frameapi.VideoInfo{
		Title:     "Cat! Video (2024)",
		Thumbnail: "https://i.ytimg.com/vi/abc/hq.jpg",
		Duration:  &dur,
		Platform:  "youtube",
		Formats:   []frameapi.VideoFormat{{Quality: "720p", Ext: "mp4"}},
	}
	html := render(t, VideoInfoSlot(downloader.State{Info: info}))

	require.Contains(t, html, `id="video-info"`)
	require.Contains(t, html, "Cat! Video (2024)")
	require.Contains(t, html, "2:05")
	require.Contains(t, html, "YouTube")
	require.Contains(t, html, "Unknown uploader")
	require.Contains(t, html, "720p · mp4 · N/A")
	require.Contains(t, html, "/api/form/download")
}

func TestVideoInfoCard_RejectsScriptThumbnail(t *testing.T) {
	info := &frameapi.VideoInfo{Title: "x", Thumbnail: "javascript:alert(1)"}
	html := render(t, VideoInfoCard(info))
	require.NotContains(t, html, "javascript:")
}
