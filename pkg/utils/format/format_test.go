package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	require.Equal(t, "0:00", Duration(0))
	require.Equal(t, "0:59", Duration(59))
	require.Equal(t, "3:05", Duration(185))
	require.Equal(t, "62:05", Duration(3725))
	require.Equal(t, "0:00", Duration(-5))
}

func TestDurationPtr(t *testing.T) {
	require.Equal(t, NotAvailable, DurationPtr(nil))
	zero := 0.0
	require.Equal(t, NotAvailable, DurationPtr(&zero))
	d := 212.7
	require.Equal(t, "3:32", DurationPtr(&d))
}

func TestBytes(t *testing.T) {
	require.Equal(t, "0 Bytes", Bytes(0))
	require.Equal(t, "512 Bytes", Bytes(512))
	require.Equal(t, "1 KB", Bytes(1024))
	require.Equal(t, "1.5 MB", Bytes(1572864))
	require.Equal(t, "2.33 GB", Bytes(2500000000))
	require.Equal(t, "1024 KB", Bytes(1048575))
	require.Equal(t, "1.01 KB", Bytes(1035))
	require.Equal(t, "2048 GB", Bytes(2<<40))
}

func TestBytesPtr(t *testing.T) {
	require.Equal(t, NotAvailable, BytesPtr(nil))
	n := int64(1024)
	require.Equal(t, "1 KB", BytesPtr(&n))
}

func TestFPS(t *testing.T) {
	require.Equal(t, "", FPS(nil))
	f := 29.97
	require.Equal(t, "29.97fps", FPS(&f))
	g := 60.0
	require.Equal(t, "60fps", FPS(&g))
	h := 23.976
	require.Equal(t, "23.98fps", FPS(&h))
}

func TestProgress(t *testing.T) {
	require.Equal(t, "1.0 KiB", Progress(1024, 0))
	require.Equal(t, "512 B / 1.0 KiB (50%)", Progress(512, 1024))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "abcd...", Truncate("abcdefghij", 7))
}
