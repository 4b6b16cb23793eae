package components

import (
	"encoding/json"

	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/videolink"
	"thirdcoast.systems/framefetch/pkg/utils/format"
)

// ToastKind selects the toast styling.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

func (k ToastKind) icon() string {
	if k == ToastSuccess {
		return "✓"
	}
	return "!"
}

// formSignals seeds the Datastar signals of the download form from the
// server-side state. formID is sent back with every @post to pick the form.
func formSignals(st downloader.State) string {
	b, _ := json.Marshal(map[string]any{
		"formID":     st.FormID,
		"url":        st.URL,
		"quality":    st.Quality,
		"formatType": st.FormatType,
	})
	return string(b)
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func selectQuality(label string) string {
	return "$quality = " + jsString(label) + "; @post('/api/form/options')"
}

func qualitySelected(label string) string {
	return "$quality === " + jsString(label)
}

func selectFormat(formatType string) string {
	return "$formatType = " + jsString(formatType) + "; @post('/api/form/options')"
}

func formatSelected(formatType string) string {
	return "$formatType === " + jsString(formatType)
}

func qualitySize(opt downloader.QualityOption) string {
	if opt.Format == nil {
		return "Auto"
	}
	return format.BytesPtr(opt.Format.Filesize)
}

func platformLabel(info *frameapi.VideoInfo) string {
	return videolink.PlatformLabel(info.Platform)
}

func platformIcon(info *frameapi.VideoInfo) string {
	switch videolink.PlatformIcon(info.Platform) {
	case "youtube":
		return "▶"
	case "facebook":
		return "f"
	default:
		return "🎬"
	}
}

func uploader(info *frameapi.VideoInfo) string {
	if info.Uploader == "" {
		return "Unknown uploader"
	}
	return info.Uploader
}

func formatLine(f frameapi.VideoFormat) string {
	line := f.Quality
	if f.Ext != "" {
		line += " · " + f.Ext
	}
	line += " · " + format.BytesPtr(f.Filesize)
	if fps := format.FPS(f.FPS); fps != "" {
		line += " · " + fps
	}
	return line
}

// maxListedFormats caps the format list on the info card.
const maxListedFormats = 8

func listedFormats(info *frameapi.VideoInfo) []frameapi.VideoFormat {
	if len(info.Formats) <= maxListedFormats {
		return info.Formats
	}
	return info.Formats[:maxListedFormats]
}

// downloadLabel is the Datastar expression for the download button text.
const downloadLabel = "$formatType === 'audio' ? 'Download Audio' : 'Download ' + $quality"
