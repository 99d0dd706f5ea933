// Package session owns the task store for the lifetime of one program run:
// it loads the task file at Open and writes it back at Close.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	appLog "weekcal/internal/log"
	"weekcal/internal/persist"
	"weekcal/internal/store"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("session closed")

// Session serializes access to a store and its clipboard.
type Session struct {
	path string

	mu     sync.Mutex
	store  *store.Store
	clip   store.Clipboard
	dirty  bool
	closed bool

	cron *cron.Cron
}

// Open loads the task file at path.
//
// A malformed file is reported through the returned error, but the session
// is still usable and starts empty. Close would then overwrite the file, so
// callers that want to keep a broken file must not Close.
func Open(path string) (*Session, error) {
	s, err := persist.Load(path)
	sess := &Session{path: path, store: s}
	if err != nil {
		appLog.Error("task file not loaded", err, "path", path)
		return sess, err
	}
	appLog.Info("task file loaded", "path", path, "days", s.Len(), "tasks", s.TaskCount())
	return sess, nil
}

// Path returns the task file path.
func (s *Session) Path() string {
	return s.path
}

// Do runs fn with exclusive access to the store and clipboard. The session
// is marked as modified unless fn returns an error.
func (s *Session) Do(fn func(*store.Store, *store.Clipboard) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := fn(s.store, &s.clip); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// View runs fn with exclusive access to the store without marking the
// session as modified.
func (s *Session) View(fn func(*store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return fn(s.store)
}

// Save writes the store to the task file.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Session) saveLocked() error {
	if err := persist.Save(s.path, s.store); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// StartAutosave saves modified state on the given cron schedule (standard
// five-field syntax). An empty spec is a no-op.
func (s *Session) StartAutosave(spec string) error {
	if spec == "" {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, s.autosave); err != nil {
		return fmt.Errorf("autosave schedule %q: %w", spec, err)
	}

	s.mu.Lock()
	if s.cron != nil {
		s.cron.Stop()
	}
	s.cron = c
	s.mu.Unlock()

	c.Start()
	appLog.Info("autosave scheduled", "spec", spec)
	return nil
}

func (s *Session) autosave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.dirty {
		return
	}
	if err := s.saveLocked(); err != nil {
		appLog.Error("autosave failed", err, "path", s.path)
		return
	}
	appLog.Debug("autosaved", "path", s.path)
}

// Close stops autosave and writes the store one last time. Further calls to
// Do fail with ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c != nil {
		// Wait for a running autosave before the final write.
		<-c.Stop().Done()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.saveLocked(); err != nil {
		appLog.Error("final save failed", err, "path", s.path)
		return err
	}
	appLog.Info("task file saved", "path", s.path)
	return nil
}
