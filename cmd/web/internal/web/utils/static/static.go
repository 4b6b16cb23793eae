package static

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/framefetch/static"
)

// CachedFileInfo holds metadata for a static file used in HTTP cache headers.
type CachedFileInfo struct {
	ETag         string
	Size         int64
	LastModified time.Time
}

// StaticCache keeps validators for the embedded assets so conditional
// requests can be answered without reading the file.
type StaticCache struct {
	fileLock sync.RWMutex
	entries  map[string]CachedFileInfo
	fs       fs.FS
	started  time.Time
}

// NewStaticCache scans the embedded filesystem and computes ETag and Last-Modified for each file.
func NewStaticCache() (*StaticCache, error) {
	return newStaticCache(static.FS)
}

func newStaticCache(fsys fs.FS) (*StaticCache, error) {
	c := &StaticCache{
		entries: make(map[string]CachedFileInfo),
		fs:      fsys,
		started: time.Now().UTC().Truncate(time.Second),
	}

	c.fileLock.Lock()
	defer c.fileLock.Unlock()

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		f, err := fsys.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		h := sha256.New()
		n, err := io.Copy(h, f)
		if err != nil {
			return err
		}

		// Embedded files carry no mod time; the process start stands in.
		c.entries[p] = CachedFileInfo{
			ETag:         fmt.Sprintf("\"%x\"", h.Sum(nil)),
			Size:         n,
			LastModified: c.started,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *StaticCache) lookup(p string) (CachedFileInfo, bool) {
	s.fileLock.RLock()
	defer s.fileLock.RUnlock()
	ci, ok := s.entries[p]
	return ci, ok
}

// ServeStaticFile serves embedded assets below prefix.
func (s *StaticCache) ServeStaticFile(prefix string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := strings.TrimPrefix(c.Request().URL.Path, prefix)

		ci, ok := s.lookup(p)
		if !ok {
			return echo.ErrNotFound
		}

		if inm := c.Request().Header.Get("If-None-Match"); inm != "" && inm == ci.ETag {
			return c.NoContent(http.StatusNotModified)
		}
		if ims := c.Request().Header.Get(echo.HeaderIfModifiedSince); ims != "" {
			if t, err := time.Parse(http.TimeFormat, ims); err == nil && !ci.LastModified.After(t) {
				return c.NoContent(http.StatusNotModified)
			}
		}

		// NOTE: dist assets are not fingerprinted, so they are revalidated on
		// every load instead of cached long-term.
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache, must-revalidate")
		c.Response().Header().Set("ETag", ci.ETag)
		c.Response().Header().Set(echo.HeaderLastModified, ci.LastModified.Format(http.TimeFormat))

		f, err := s.fs.Open(p)
		if err != nil {
			return echo.ErrNotFound
		}
		defer f.Close()

		contentType := mime.TypeByExtension(path.Ext(p))
		if contentType == "" {
			contentType = echo.MIMEOctetStream
		}
		return c.Stream(http.StatusOK, contentType, f)
	}
}
