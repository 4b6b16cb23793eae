package downloader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"thirdcoast.systems/framefetch/internal/frameapi"
)

type fakeBackend struct {
	infoCalls     atomic.Int32
	downloadCalls atomic.Int32

	info        *frameapi.VideoInfo
	infoErr     error
	downloadErr error
	lastRequest frameapi.DownloadRequest

	// when set, Info blocks until release is closed
	entered chan struct{}
	release chan struct{}
}

func (b *fakeBackend) Info(ctx context.Context, videoURL string) (*frameapi.VideoInfo, error) {
	b.infoCalls.Add(1)
	if b.release != nil {
		b.entered <- struct{}{}
		<-b.release
	}
	if b.infoErr != nil {
		return nil, b.infoErr
	}
	return b.info, nil
}

func (b *fakeBackend) Download(ctx context.Context, req frameapi.DownloadRequest) (*frameapi.Payload, error) {
	b.downloadCalls.Add(1)
	b.lastRequest = req
	if b.downloadErr != nil {
		return nil, b.downloadErr
	}
	return &frameapi.Payload{Body: io.NopCloser(strings.NewReader("bytes")), ContentType: "video/mp4"}, nil
}

func catInfo() *frameapi.VideoInfo {
	return &frameapi.VideoInfo{
		Title:    "Cat! Video (2024)",
		Platform: "YouTube",
		Formats:  []frameapi.VideoFormat{{Quality: "720p", FormatID: "22", Ext: "mp4"}},
	}
}

func TestForm_Defaults(t *testing.T) {
	f := NewForm(&fakeBackend{})
	st := f.Snapshot()
	require.Equal(t, DefaultQuality, st.Quality)
	require.Equal(t, frameapi.FormatVideo, st.FormatType)
	require.False(t, st.ShowInfo())
	require.Empty(t, st.ErrorMessage())
}

func TestForm_FetchInfo_InvalidURLNeverCallsBackend(t *testing.T) {
	b := &fakeBackend{info: catInfo()}
	f := NewForm(b)

	for _, raw := range []string{"", "   ", "not a url", "https://vimeo.com/1", "youtube.com/watch?v=1"} {
		f.SetURL(raw)
		_, err := f.FetchInfo(context.Background())
		require.Error(t, err, raw)
	}
	require.Equal(t, int32(0), b.infoCalls.Load())
}

func TestForm_FetchInfo_Success(t *testing.T) {
	b := &fakeBackend{info: catInfo()}
	f := NewForm(b)
	f.SetURL("https://youtu.be/abc")

	info, err := f.FetchInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Cat! Video (2024)", info.Title)

	st := f.Snapshot()
	require.True(t, st.ShowInfo())
	require.False(t, st.LoadingInfo)
	require.Nil(t, st.Err)
}

func TestForm_FetchInfo_PlatformFromURL(t *testing.T) {
	info := catInfo()
	info.Platform = ""
	f := NewForm(&fakeBackend{info: info})
	f.SetURL("https://www.tiktok.com/@cat/video/1")

	got, err := f.FetchInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, "TikTok", got.Platform)
}

func TestForm_SetURL_ClearsInfoAndError(t *testing.T) {
	b := &fakeBackend{info: catInfo()}
	f := NewForm(b)
	f.SetURL("https://youtu.be/abc")
	_, err := f.FetchInfo(context.Background())
	require.NoError(t, err)

	f.SetURL("https://youtu.be/other")
	st := f.Snapshot()
	require.Nil(t, st.Info)
	require.Nil(t, st.Err)

	b.infoErr = &frameapi.APIError{Status: http.StatusNotFound}
	_, err = f.FetchInfo(context.Background())
	require.Error(t, err)
	require.NotNil(t, f.Snapshot().Err)

	f.SetURL("https://youtu.be/third")
	require.Nil(t, f.Snapshot().Err)
}

func TestForm_FetchInfo_ErrorKept(t *testing.T) {
	b := &fakeBackend{infoErr: &frameapi.APIError{Status: http.StatusBadRequest, Detail: "Unsupported platform"}}
	f := NewForm(b)
	f.SetURL("https://youtu.be/abc")

	_, err := f.FetchInfo(context.Background())
	require.Error(t, err)

	st := f.Snapshot()
	require.Nil(t, st.Info)
	require.Equal(t, "Unsupported platform", st.ErrorMessage())
}

func TestForm_FetchBinary_RequiresInfo(t *testing.T) {
	b := &fakeBackend{info: catInfo()}
	f := NewForm(b)
	f.SetURL("https://youtu.be/abc")

	_, err := f.FetchBinary(context.Background())
	require.ErrorIs(t, err, ErrNoInfo)
	require.Equal(t, int32(0), b.downloadCalls.Load())
}

func TestForm_FetchBinary_Filenames(t *testing.T) {
	b := &fakeBackend{info: catInfo()}
	f := NewForm(b)
	f.SetURL("https://youtu.be/abc")
	_, err := f.FetchInfo(context.Background())
	require.NoError(t, err)

	f.SetQuality("1080p")
	dl, err := f.FetchBinary(context.Background())
	require.NoError(t, err)
	dl.Payload.Body.Close()
	require.Equal(t, "Cat-Video-2024_1080p.mp4", dl.Filename)
	require.Equal(t, frameapi.DownloadRequest{URL: "https://youtu.be/abc", Quality: "1080p", FormatType: "video"}, b.lastRequest)

	f.SetFormat(frameapi.FormatAudio)
	dl, err = f.FetchBinary(context.Background())
	require.NoError(t, err)
	dl.Payload.Body.Close()
	require.Equal(t, "Cat-Video-2024.mp3", dl.Filename)
	require.Equal(t, "audio", b.lastRequest.FormatType)

	require.False(t, f.Snapshot().Downloading)
}

func TestForm_SetFormat_IgnoresUnknown(t *testing.T) {
	f := NewForm(&fakeBackend{})
	f.SetFormat("gif")
	require.Equal(t, frameapi.FormatVideo, f.Snapshot().FormatType)
	f.SetQuality("  ")
	require.Equal(t, DefaultQuality, f.Snapshot().Quality)
}

func TestForm_OverlappingFetchIsRejected(t *testing.T) {
	b := &fakeBackend{
		info:    catInfo(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f := NewForm(b)
	f.SetURL("https://youtu.be/abc")

	done := make(chan error, 1)
	go func() {
		_, err := f.FetchInfo(context.Background())
		done <- err
	}()
	<-b.entered

	_, err := f.FetchInfo(context.Background())
	require.ErrorIs(t, err, ErrBusy)
	require.True(t, f.Snapshot().LoadingInfo)

	close(b.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch did not finish")
	}
	require.Equal(t, int32(1), b.infoCalls.Load())
}

func TestForm_StaleInfoIsDiscarded(t *testing.T) {
	b := &fakeBackend{
		info:    catInfo(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f := NewForm(b)
	f.SetURL("https://youtu.be/abc")

	done := make(chan error, 1)
	go func() {
		_, err := f.FetchInfo(context.Background())
		done <- err
	}()
	<-b.entered

	f.SetURL("https://youtu.be/changed")
	close(b.release)

	err := <-done
	require.ErrorIs(t, err, ErrStale)
	st := f.Snapshot()
	require.Nil(t, st.Info)
	require.Equal(t, "https://youtu.be/changed", st.URL)
}

func TestForm_DownloadErrorPropagates(t *testing.T) {
	b := &fakeBackend{info: catInfo(), downloadErr: &frameapi.APIError{Status: http.StatusForbidden}}
	f := NewForm(b)
	f.SetURL("https://youtu.be/abc")
	_, err := f.FetchInfo(context.Background())
	require.NoError(t, err)

	_, err = f.FetchBinary(context.Background())
	var apiErr *frameapi.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, MsgBlocked, TranslateDownloadError(err))
	require.False(t, f.Snapshot().Downloading)
}

func TestForm_FetchBinary_BusyUntilBodyClosed(t *testing.T) {
	f := NewForm(&fakeBackend{info: catInfo()})
	f.SetURL("https://youtu.be/abc")
	_, err := f.FetchInfo(context.Background())
	require.NoError(t, err)

	dl, err := f.FetchBinary(context.Background())
	require.NoError(t, err)
	require.True(t, f.Snapshot().Downloading)

	_, err = f.FetchBinary(context.Background())
	require.ErrorIs(t, err, ErrBusy)
	_, err = f.FetchInfo(context.Background())
	require.ErrorIs(t, err, ErrBusy)

	require.NoError(t, dl.Payload.Body.Close())
	require.NoError(t, dl.Payload.Body.Close())
	require.False(t, f.Snapshot().Downloading)
}
