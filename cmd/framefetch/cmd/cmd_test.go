package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/frameapi"
)

const catInfoJSON = `{
	"title": "Cat Video",
	"thumbnail": "https://img.example/cat.jpg",
	"duration": 185,
	"uploader": "",
	"platform": "youtube",
	"formats": [
		{"quality": "720p", "format_id": "22", "ext": "mp4", "filesize": 1572864, "fps": 30},
		{"quality": "360p", "format_id": "18", "ext": "mp4"}
	]
}`

type fakeBackend struct {
	lastDownload frameapi.DownloadRequest
	infoCalls    int
}

func (b *fakeBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/video/info", func(w http.ResponseWriter, r *http.Request) {
		b.infoCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, catInfoJSON)
	})
	mux.HandleFunc("/api/video/download", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&b.lastDownload))
		if b.lastDownload.Quality == "4320p" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail": "Requested quality unavailable"}`)
			return
		}
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = io.WriteString(w, "movie-bytes")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInfo_PrintsSummary(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server(t)

	out, err := run(t, "--api-base-url", srv.URL, "info", "https://youtu.be/cat")
	require.NoError(t, err)
	require.Contains(t, out, "Title:    Cat Video")
	require.Contains(t, out, "Uploader: Unknown")
	require.Contains(t, out, "Platform: YouTube")
	require.Contains(t, out, "Duration: 3:05")
	require.Contains(t, out, "1.5 MB")
	require.Contains(t, out, "30fps")
}

func TestInfo_JSON(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server(t)

	out, err := run(t, "--api-base-url", srv.URL, "info", "--json", "https://youtu.be/cat")
	require.NoError(t, err)

	var info frameapi.VideoInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, "Cat Video", info.Title)
	require.Len(t, info.Formats, 2)
}

func TestInfo_InvalidURLNeverReachesBackend(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server(t)

	_, err := run(t, "--api-base-url", srv.URL, "info", "https://vimeo.com/1")
	require.EqualError(t, err, downloader.MsgInvalidURL)
	require.Zero(t, b.infoCalls)
}

func TestInfo_NotConfigured(t *testing.T) {
	t.Setenv("API_BASE_URL", "")

	_, err := run(t, "info", "https://youtu.be/cat")
	require.EqualError(t, err, downloader.MsgNotConfigured)
}

func TestInfo_BaseURLFromEnvironment(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server(t)
	t.Setenv("API_BASE_URL", srv.URL)

	_, err := run(t, "info", "https://youtu.be/cat")
	require.NoError(t, err)
	require.Equal(t, 1, b.infoCalls)
}

func TestDownload_SavesUnderDerivedName(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server(t)
	dir := t.TempDir()

	out, err := run(t, "--api-base-url", srv.URL, "download", "https://youtu.be/cat",
		"--quality", "360p", "--output", dir, "--quiet")
	require.NoError(t, err)
	require.Contains(t, out, "360p download started successfully!")

	require.Equal(t, frameapi.DownloadRequest{
		URL:        "https://youtu.be/cat",
		Quality:    "360p",
		FormatType: frameapi.FormatVideo,
	}, b.lastDownload)

	got, err := os.ReadFile(filepath.Join(dir, "Cat-Video_360p.mp4"))
	require.NoError(t, err)
	require.Equal(t, "movie-bytes", string(got))
}

func TestDownload_QualityCannotEscapeOutputDir(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server(t)
	root := t.TempDir()
	dir := filepath.Join(root, "out", "nested")

	_, err := run(t, "--api-base-url", srv.URL, "download", "https://youtu.be/cat",
		"--quality", "../../x", "--output", dir, "--quiet")
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(dir, "Cat-Video_x.mp4"))
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1, "nothing may be written beside the output dir")
}

func TestDownload_Audio(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server(t)
	dir := t.TempDir()

	out, err := run(t, "--api-base-url", srv.URL, "download", "https://youtu.be/cat",
		"--format", "audio", "-o", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Audio download started successfully!")
	require.FileExists(t, filepath.Join(dir, "Cat-Video.mp3"))
}

func TestDownload_QualityErrorIsTranslated(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server(t)
	dir := t.TempDir()

	_, err := run(t, "--api-base-url", srv.URL, "download", "https://youtu.be/cat",
		"--quality", "4320p", "--output", dir, "--quiet")
	require.EqualError(t, err, downloader.MsgQuality)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDownload_RejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "--api-base-url", "http://127.0.0.1:1", "download", "https://youtu.be/cat", "--format", "gif")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "--format"))
}

func TestProgressReader_ReportsFinalTotal(t *testing.T) {
	var out bytes.Buffer
	pr := &progressReader{r: strings.NewReader("0123456789"), total: 10, out: &out}

	n, err := io.Copy(io.Discard, pr)
	require.NoError(t, err)
	require.Equal(t, int64(10), n)

	pr.report(true)
	require.Contains(t, out.String(), "10 B / 10 B (100%)")
}

func TestParseLevel(t *testing.T) {
	_, err := parseLevel("loud")
	require.Error(t, err)

	level, err := parseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, "DEBUG", level.String())
}
