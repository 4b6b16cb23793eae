// Package spool stages downloaded payloads on disk until the browser fetches
// them through a one-time ticket.
package spool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("spool entry not found")
	ErrTooLarge = errors.New("spool entry exceeds size limit")
)

// Entry is a staged file.
type Entry struct {
	Ticket      string
	Path        string
	Filename    string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

// Spool owns a directory of staged files keyed by ticket.
type Spool struct {
	dir     string
	ttl     time.Duration
	maxSize int64

	mu      sync.Mutex
	entries map[string]*Entry
	now     func() time.Time
}

// New creates the spool directory if needed. maxSize <= 0 means unlimited.
func New(dir string, ttl time.Duration, maxSize int64) (*Spool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	return &Spool{
		dir:     dir,
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*Entry),
		now:     time.Now,
	}, nil
}

// Put copies r into a new spool file and returns its entry.
func (s *Spool) Put(r io.Reader, filename, contentType string) (*Entry, error) {
	ticket := uuid.NewString()
	path := filepath.Join(s.dir, ticket+".part")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create spool file: %w", err)
	}

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if copyErr == nil && s.maxSize > 0 && n > s.maxSize {
		copyErr = ErrTooLarge
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr != nil {
			return nil, copyErr
		}
		return nil, closeErr
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	e := &Entry{
		Ticket:      ticket,
		Path:        path,
		Filename:    filename,
		ContentType: contentType,
		Size:        n,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	s.entries[ticket] = e
	s.mu.Unlock()
	return e, nil
}

// Take removes the entry from the index and returns it. The caller owns the
// file and must call Release when done with it.
func (s *Spool) Take(ticket string) (*Entry, error) {
	s.mu.Lock()
	e, ok := s.entries[ticket]
	if ok {
		delete(s.entries, ticket)
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(e) {
		s.Release(e)
		return nil, ErrNotFound
	}
	return e, nil
}

// Release deletes the entry's file.
func (s *Spool) Release(e *Entry) {
	if e == nil {
		return
	}
	if err := os.Remove(e.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to remove spool file", "path", e.Path, "error", err)
	}
}

// Len returns the number of staged entries.
func (s *Spool) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes expired entries and returns how many were removed.
func (s *Spool) Sweep() int {
	var stale []*Entry
	s.mu.Lock()
	for ticket, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, ticket)
			stale = append(stale, e)
		}
	}
	s.mu.Unlock()

	for _, e := range stale {
		s.Release(e)
	}
	return len(stale)
}

// Run sweeps until ctx is done, then removes everything still staged.
func (s *Spool) Run(ctx context.Context) {
	t := time.NewTicker(s.ttl / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.purge()
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				slog.Info("expired spooled downloads", "count", n)
			}
		}
	}
}

func (s *Spool) purge() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*Entry)
	s.mu.Unlock()
	for _, e := range entries {
		s.Release(e)
	}
}

func (s *Spool) expired(e *Entry) bool {
	return s.now().Sub(e.CreatedAt) > s.ttl
}
