// Package downloader holds the download form workflow: URL validation, the
// fetch-info then fetch-binary sequence, and translation of failures into
// messages for the user.
package downloader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/videolink"
	"thirdcoast.systems/framefetch/pkg/utils/filename"
)

var (
	// ErrBusy is returned when a fetch is already running for the form.
	ErrBusy = errors.New("a request is already in progress")
	// ErrNoInfo is returned by FetchBinary before a successful FetchInfo.
	ErrNoInfo = errors.New("video info not loaded")
	// ErrStale is returned when the URL changed while a fetch was running.
	ErrStale = errors.New("url changed during request")
)

const (
	DefaultQuality = "720p"
	DefaultFormat  = frameapi.FormatVideo
)

// Backend is the part of the media backend the form talks to.
type Backend interface {
	Info(ctx context.Context, videoURL string) (*frameapi.VideoInfo, error)
	Download(ctx context.Context, req frameapi.DownloadRequest) (*frameapi.Payload, error)
}

// State is a copy of a form's fields for rendering.
type State struct {
	// FormID is the tab the form belongs to, empty for a visitor's shared form.
	FormID       string
	URL          string
	Quality      string
	FormatType   string
	Info         *frameapi.VideoInfo
	Err          error
	LoadingInfo  bool
	Downloading  bool
	LastActivity time.Time
}

// ShowInfo reports whether the info card should be visible.
func (s State) ShowInfo() bool {
	return s.Info != nil
}

// ErrorMessage is the translated message of the last info failure, or "".
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return TranslateInfoError(s.Err)
}

// Download is a successful binary fetch.
type Download struct {
	Payload  *frameapi.Payload
	Filename string
	Request  frameapi.DownloadRequest
}

// Form is the state of one download form. It is safe for concurrent use; at
// most one fetch runs at a time.
type Form struct {
	mu      sync.Mutex
	backend Backend
	tabID   string

	url        string
	quality    string
	formatType string
	info       *frameapi.VideoInfo
	err        error

	// generation increments on every URL change so in-flight info fetches
	// for an older URL can be discarded.
	generation  uint64
	loadingInfo bool
	downloading bool
	touched     time.Time
}

func NewForm(backend Backend) *Form {
	return &Form{
		backend:    backend,
		quality:    DefaultQuality,
		formatType: DefaultFormat,
		touched:    time.Now(),
	}
}

// SetURL stores the URL and clears any loaded info and error.
func (f *Form) SetURL(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.url = raw
	f.info = nil
	f.err = nil
	f.loadingInfo = false
	f.generation++
	f.touched = time.Now()
}

// SetQuality selects the quality label for video downloads.
func (f *Form) SetQuality(q string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quality = q
	f.touched = time.Now()
}

// SetFormat selects the media type. Unknown values are ignored.
func (f *Form) SetFormat(formatType string) {
	if formatType != frameapi.FormatVideo && formatType != frameapi.FormatAudio {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formatType = formatType
	f.touched = time.Now()
}

// Snapshot returns a copy of the form state.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		FormID:       f.tabID,
		URL:          f.url,
		Quality:      f.quality,
		FormatType:   f.formatType,
		Info:         f.info,
		Err:          f.err,
		LoadingInfo:  f.loadingInfo,
		Downloading:  f.downloading,
		LastActivity: f.touched,
	}
}

// FetchInfo validates the current URL and asks the backend for its metadata.
// Invalid URLs never reach the backend.
func (f *Form) FetchInfo(ctx context.Context) (*frameapi.VideoInfo, error) {
	f.mu.Lock()
	if f.loadingInfo || f.downloading {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	rawURL := strings.TrimSpace(f.url)
	if err := videolink.Validate(rawURL); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.info = nil
	f.err = nil
	f.loadingInfo = true
	gen := f.generation
	f.touched = time.Now()
	f.mu.Unlock()

	info, err := f.backend.Info(ctx, rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation != gen {
		// SetURL already reset loadingInfo and cleared state.
		slog.Debug("discarding info for stale url", "url", rawURL)
		return nil, ErrStale
	}
	f.loadingInfo = false
	f.touched = time.Now()
	if err != nil {
		f.err = err
		return nil, err
	}
	if info.Platform == "" {
		info.Platform = videolink.Platform(rawURL)
	}
	f.info = info
	return info, nil
}

// FetchBinary requests the download for the loaded info. The returned
// Download owns the payload body; the form counts as busy until it is closed.
func (f *Form) FetchBinary(ctx context.Context) (*Download, error) {
	f.mu.Lock()
	if f.loadingInfo || f.downloading {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if f.info == nil {
		f.mu.Unlock()
		return nil, ErrNoInfo
	}
	req := frameapi.DownloadRequest{
		URL:        strings.TrimSpace(f.url),
		Quality:    f.quality,
		FormatType: f.formatType,
	}
	title := f.info.Title
	f.downloading = true
	f.touched = time.Now()
	f.mu.Unlock()

	payload, err := f.backend.Download(ctx, req)
	if err != nil {
		f.finishDownload()
		return nil, err
	}
	// The form stays busy until the caller has consumed the body.
	payload.Body = &releaseOnClose{ReadCloser: payload.Body, release: f.finishDownload}

	return &Download{
		Payload:  payload,
		Filename: filename.ForDownload(title, req.FormatType, req.Quality),
		Request:  req,
	}, nil
}

func (f *Form) finishDownload() {
	f.mu.Lock()
	f.downloading = false
	f.touched = time.Now()
	f.mu.Unlock()
}

type releaseOnClose struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (r *releaseOnClose) Close() error {
	err := r.ReadCloser.Close()
	r.once.Do(r.release)
	return err
}
