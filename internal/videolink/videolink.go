// Package videolink validates user-supplied video links and detects their platform.
package videolink

import (
	"errors"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrEmptyURL        = errors.New("empty url")
	ErrInvalidURL      = errors.New("invalid url")
	ErrUnsupportedHost = errors.New("unsupported host")
)

// RecognizedHosts are the substrings a link must contain to be accepted.
// The match is made against the whole link, not only its host.
var RecognizedHosts = []string{
	"youtube.com",
	"youtu.be",
	"tiktok.com",
	"facebook.com",
	"fb.watch",
}

// Platform names by host. Instagram is known to the backend but not accepted
// by Validate.
var platformByHost = []struct {
	host string
	name string
}{
	{"youtube.com", "YouTube"},
	{"youtu.be", "YouTube"},
	{"tiktok.com", "TikTok"},
	{"facebook.com", "Facebook"},
	{"fb.watch", "Facebook"},
	{"instagram.com", "Instagram"},
}

const PlatformUnknown = "Unknown"

// Validate reports whether raw parses as an absolute URL and contains one of
// RecognizedHosts.
func Validate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return ErrInvalidURL
	}

	for _, h := range RecognizedHosts {
		if strings.Contains(raw, h) {
			return nil
		}
	}
	return ErrUnsupportedHost
}

// Platform returns the platform name for raw, or PlatformUnknown.
func Platform(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return PlatformUnknown
	}

	host := normalizeHost(u.Host)
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	for _, p := range platformByHost {
		if strings.Contains(host, p.host) {
			return p.name
		}
	}
	return PlatformUnknown
}

// PlatformLabel returns a display name for a backend-supplied platform string.
// Known platforms keep their canonical spelling; anything else is title-cased.
func PlatformLabel(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return PlatformUnknown
	}
	for _, p := range platformByHost {
		if strings.EqualFold(p.name, n) {
			return p.name
		}
	}
	n = strings.ReplaceAll(n, "_", " ")
	return cases.Title(language.AmericanEnglish).String(n)
}

// PlatformIcon returns the icon key used by the views for a platform.
func PlatformIcon(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "youtube":
		return "youtube"
	case "facebook":
		return "facebook"
	default:
		return "video"
	}
}

func normalizeHost(hostport string) string {
	h := strings.TrimSpace(strings.ToLower(hostport))
	if h == "" {
		return ""
	}
	// url.URL.Host may include port.
	if strings.Contains(h, ":") {
		if parsed, err := url.Parse("//" + h); err == nil {
			if parsed.Hostname() != "" {
				h = parsed.Hostname()
			}
		}
	}
	h = strings.TrimSuffix(h, ".")
	return h
}
