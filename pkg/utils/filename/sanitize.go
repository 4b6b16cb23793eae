// Package filename provides utilities for turning video titles into download filenames.
package filename

import (
	"regexp"
	"strings"
)

// space is the whitespace class of browser regular expressions, which unlike
// RE2's \s includes Unicode spaces such as NBSP and U+3000.
const space = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

// disallowedRe matches everything except ASCII word characters, whitespace and dashes.
var disallowedRe = regexp.MustCompile(`[^\w` + space + `-]`)

// separatorRunRe collapses runs of dashes and whitespace.
var separatorRunRe = regexp.MustCompile(`[-` + space + `]+`)

var edgeSpaceRe = regexp.MustCompile(`^[` + space + `]+|[` + space + `]+$`)

// Fallback is used when a title has nothing left after sanitizing.
const Fallback = "video"

// Slug converts a title into a filename stem. Characters other than
// [A-Za-z0-9_], whitespace and dashes are dropped, the result is trimmed, and
// runs of dashes/whitespace become a single dash.
//
//	Slug("Cat! Video (2024)") == "Cat-Video-2024"
func Slug(title string) string {
	s := disallowedRe.ReplaceAllString(title, "")
	s = edgeSpaceRe.ReplaceAllString(s, "")
	return separatorRunRe.ReplaceAllString(s, "-")
}

// Sanitize is Slug with a length cap and a fallback for empty results.
// maxLen <= 0 defaults to 120 bytes.
func Sanitize(title string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 120
	}

	s := Slug(title)
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if s == "" {
		return Fallback
	}
	return s
}

// ForDownload builds the suggested filename for a download.
// Audio downloads are "<slug>.mp3"; video downloads are "<slug>_<quality>.mp4".
// The quality label is slugged too, so the result never contains a path
// separator.
func ForDownload(title, formatType, quality string) string {
	stem := Sanitize(title, 0)
	if formatType == "audio" {
		return stem + ".mp3"
	}
	if q := Slug(quality); q != "" {
		stem += "_" + q
	}
	return stem + ".mp4"
}
