package downloader

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store keeps one Form per visitor and drops forms idle for longer than ttl.
type Store struct {
	mu      sync.RWMutex
	forms   map[string]*Form
	backend Backend
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(backend Backend, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		forms:   make(map[string]*Form),
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the visitor's shared form, creating it on first use.
func (s *Store) Get(visitorID string) *Form {
	return s.GetTab(visitorID, "")
}

// GetTab returns the form of one browser tab of a visitor, creating it on
// first use. Tabs never see each other's URL or info. An empty tabID is the
// visitor's shared form.
func (s *Store) GetTab(visitorID, tabID string) *Form {
	key := visitorID
	if tabID != "" {
		key += "/" + tabID
	}

	s.mu.RLock()
	f, ok := s.forms[key]
	s.mu.RUnlock()
	if ok {
		return f
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.forms[key]; ok {
		return f
	}
	f = NewForm(s.backend)
	f.tabID = tabID
	s.forms[key] = f
	return f
}

// Len returns the number of live forms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms)
}

// Sweep removes idle forms that have no fetch in flight and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, f := range s.forms {
		st := f.Snapshot()
		if st.LoadingInfo || st.Downloading {
			continue
		}
		if st.LastActivity.Before(cutoff) {
			delete(s.forms, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is done.
func (s *Store) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("expired download forms", "count", n, "remaining", s.Len())
			}
		}
	}
}
