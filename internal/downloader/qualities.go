package downloader

import (
	"sort"

	"thirdcoast.systems/framefetch/internal/frameapi"
)

// CommonQualities are offered even when the backend does not list them; the
// backend falls back to the nearest format it has.
var CommonQualities = []string{"144p", "360p", "480p", "720p", "1080p", "1440p", "2160p"}

// QualityOption is one entry of the quality picker.
type QualityOption struct {
	Label  string
	Format *frameapi.VideoFormat
}

// QualityOptions merges the info's formats with CommonQualities, highest first.
func QualityOptions(info *frameapi.VideoInfo) []QualityOption {
	labels := info.Qualities()
	seen := make(map[string]struct{}, len(labels)+len(CommonQualities))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	for _, q := range CommonQualities {
		if _, ok := seen[q]; !ok {
			labels = append(labels, q)
		}
	}
	sort.SliceStable(labels, func(i, j int) bool {
		hi, hj := qualityHeight(labels[i]), qualityHeight(labels[j])
		if hi != hj {
			return hi > hj
		}
		return labels[i] < labels[j]
	})

	out := make([]QualityOption, 0, len(labels))
	for _, label := range labels {
		opt := QualityOption{Label: label}
		if f, ok := info.FormatFor(label); ok {
			opt.Format = &f
		}
		out = append(out, opt)
	}
	return out
}

func qualityHeight(label string) int {
	return frameapi.VideoFormat{Quality: label}.Height()
}
