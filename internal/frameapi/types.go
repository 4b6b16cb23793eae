package frameapi

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Media types accepted by the download endpoint.
const (
	FormatVideo = "video"
	FormatAudio = "audio"
)

// VideoInfo describes a remote video and the formats the backend offers.
type VideoInfo struct {
	Title     string        `json:"title"`
	Thumbnail string        `json:"thumbnail"`
	Duration  *float64      `json:"duration,omitempty"`
	Uploader  string        `json:"uploader"`
	Platform  string        `json:"platform"`
	Formats   []VideoFormat `json:"formats"`
}

// VideoFormat is one quality option of a VideoInfo.
type VideoFormat struct {
	Quality  string   `json:"quality"`
	FormatID string   `json:"format_id"`
	Ext      string   `json:"ext"`
	Filesize *int64   `json:"filesize,omitempty"`
	FPS      *float64 `json:"fps,omitempty"`
	VCodec   string   `json:"vcodec,omitempty"`
	ACodec   string   `json:"acodec,omitempty"`
}

// Height parses the numeric part of a "720p" style quality label.
// Labels that do not parse sort last.
func (f VideoFormat) Height() int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(f.Quality), "p"))
	if err != nil {
		return 0
	}
	return n
}

// Qualities returns the distinct quality labels of the info, highest first.
func (v *VideoInfo) Qualities() []string {
	if v == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(v.Formats))
	out := make([]VideoFormat, 0, len(v.Formats))
	for _, f := range v.Formats {
		if f.Quality == "" {
			continue
		}
		if _, ok := seen[f.Quality]; ok {
			continue
		}
		seen[f.Quality] = struct{}{}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Height() > out[j].Height() })

	labels := make([]string, len(out))
	for i, f := range out {
		labels[i] = f.Quality
	}
	return labels
}

// FormatFor returns the first format with the given quality label.
func (v *VideoInfo) FormatFor(quality string) (VideoFormat, bool) {
	if v == nil {
		return VideoFormat{}, false
	}
	for _, f := range v.Formats {
		if f.Quality == quality {
			return f, true
		}
	}
	return VideoFormat{}, false
}

// DownloadRequest is the body of POST /api/video/download.
type DownloadRequest struct {
	URL        string `json:"url" validate:"required,url"`
	Quality    string `json:"quality" validate:"required"`
	FormatType string `json:"format_type" validate:"required,oneof=video audio"`
}

var validate = validator.New()

// Validate checks the request before it is sent.
func (r DownloadRequest) Validate() error {
	return validate.Struct(r)
}

// Payload is a successful download response. The caller must close Body.
type Payload struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	// Filename is the name suggested by the backend, if any.
	Filename string
}

type errorBody struct {
	Detail string `json:"detail"`
}
