package videolink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	ok := []string{
		"https://www.youtube.com/watch?v=ggLajT7aMMk",
		"https://youtu.be/ggLajT7aMMk",
		"https://m.youtube.com/shorts/abc",
		"https://www.tiktok.com/@someone/video/123",
		"https://www.facebook.com/watch/?v=1",
		"https://fb.watch/abcdef/",
		"  https://youtu.be/x  ",
	}
	for _, raw := range ok {
		require.NoError(t, Validate(raw), raw)
	}

	require.ErrorIs(t, Validate(""), ErrEmptyURL)
	require.ErrorIs(t, Validate("   "), ErrEmptyURL)
	require.ErrorIs(t, Validate("youtube.com/watch?v=1"), ErrInvalidURL)
	require.ErrorIs(t, Validate("not a url"), ErrInvalidURL)
	require.ErrorIs(t, Validate("https://vimeo.com/12345"), ErrUnsupportedHost)
	require.ErrorIs(t, Validate("https://www.instagram.com/reel/abc/"), ErrUnsupportedHost)
}

func TestValidate_SubstringAnywhere(t *testing.T) {
	t.Parallel()

	// The recognized-host check is a substring match over the whole link.
	require.NoError(t, Validate("https://example.com/?next=youtube.com"))
}

func TestPlatform(t *testing.T) {
	t.Parallel()

	require.Equal(t, "YouTube", Platform("https://www.youtube.com/watch?v=1"))
	require.Equal(t, "YouTube", Platform("https://youtu.be/1"))
	require.Equal(t, "YouTube", Platform("https://m.youtube.com:443/watch?v=1"))
	require.Equal(t, "TikTok", Platform("https://www.tiktok.com/@a/video/1"))
	require.Equal(t, "Facebook", Platform("https://fb.watch/x"))
	require.Equal(t, "Instagram", Platform("https://instagram.com/reel/x"))
	require.Equal(t, PlatformUnknown, Platform("https://vimeo.com/1"))
	require.Equal(t, PlatformUnknown, Platform("://"))
}

func TestPlatformLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "YouTube", PlatformLabel("youtube"))
	require.Equal(t, "TikTok", PlatformLabel("TIKTOK"))
	require.Equal(t, "Daily Motion", PlatformLabel("daily_motion"))
	require.Equal(t, PlatformUnknown, PlatformLabel(" "))
}

func TestPlatformIcon(t *testing.T) {
	t.Parallel()

	require.Equal(t, "youtube", PlatformIcon("YouTube"))
	require.Equal(t, "facebook", PlatformIcon("facebook"))
	require.Equal(t, "video", PlatformIcon("TikTok"))
}
