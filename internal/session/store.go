// Package session persists the admin bearer token between runs and watches the
// session file so that a login or logout in another terminal is picked up.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/aiconsole/internal/logger"
	"github.com/j-veylop/aiconsole/internal/models"
)

// fileVersion is written into every session file.
const fileVersion = 1

// File is the on-disk layout: one session per profile.
type File struct {
	Sessions map[string]models.Session `json:"sessions"`
	Version  int                       `json:"version"`
}

// EventType defines the type of session event.
type EventType int

const (
	// EventSessionSet fires when the active profile gains or replaces a token.
	EventSessionSet EventType = iota
	// EventSessionCleared fires when the active profile loses its token.
	EventSessionCleared
	// EventError reports watcher and reload failures.
	EventError
)

// Event represents a session store event.
type Event struct {
	Error   error
	Session *models.Session
	Type    EventType
}

// Store holds the bearer token of the active profile.
// A Store with an empty file path keeps everything in memory.
type Store struct {
	mu            sync.RWMutex
	sessions      map[string]models.Session
	profile       string
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New opens the session file at filePath for profile, creating the directory if needed.
// A missing file is not an error: the store simply starts empty.
func New(filePath, profile string) (*Store, error) {
	if filePath == "" {
		return nil, errors.New("session file path is required")
	}
	s := newStore(filePath, profile)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load session file: %w", err)
	}
	return s, nil
}

// NewMemory returns a store that never touches the filesystem.
func NewMemory(profile string) *Store {
	return newStore("", profile)
}

func newStore(filePath, profile string) *Store {
	return &Store{
		sessions:  make(map[string]models.Session),
		profile:   profile,
		filePath:  filePath,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}
}

// Events returns the event channel for subscribing to session changes.
func (s *Store) Events() <-chan Event {
	return s.eventChan
}

// Profile returns the profile this store reads and writes.
func (s *Store) Profile() string {
	return s.profile
}

// Path returns the session file path, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.filePath
}

// Token returns the stored bearer token, or "" when there is none.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[s.profile].Token
}

// Get returns a copy of the active session, or nil.
func (s *Store) Get() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[s.profile]
	if !ok || sess.Token == "" {
		return nil
	}
	return &sess
}

// Set replaces the active session and persists it.
func (s *Store) Set(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.sessions[s.profile]
	s.sessions[s.profile] = sess
	if err := s.saveLocked(); err != nil {
		if had {
			s.sessions[s.profile] = prev
		} else {
			delete(s.sessions, s.profile)
		}
		return err
	}

	s.sendEvent(Event{Type: EventSessionSet, Session: &sess})
	return nil
}

// Clear removes the active session. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.sessions[s.profile]
	if !had {
		return nil
	}
	delete(s.sessions, s.profile)
	if err := s.saveLocked(); err != nil {
		s.sessions[s.profile] = prev
		return err
	}

	s.sendEvent(Event{Type: EventSessionCleared})
	return nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		s.sessions = make(map[string]models.Session)
		return nil
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	if f.Sessions == nil {
		f.Sessions = make(map[string]models.Session)
	}
	s.sessions = f.Sessions
	return nil
}

func (s *Store) saveLocked() error {
	if s.filePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(File{Sessions: s.sessions, Version: fileVersion}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Watch starts reloading the file when another process changes it.
// Only changes to the active profile's token produce events.
func (s *Store) Watch() error {
	if s.filePath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// The directory is watched because the file is replaced by rename.
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	go s.watchLoop(watcher)
	return nil
}

func (s *Store) watchLoop(watcher *fsnotify.Watcher) {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the file and reports a change of the active token.
func (s *Store) handleFileChange() {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.sessions[s.profile].Token

	err := s.loadLocked()
	if os.IsNotExist(err) {
		s.sessions = make(map[string]models.Session)
		err = nil
	}
	if err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	after, ok := s.sessions[s.profile]
	switch {
	case after.Token == before:
		return
	case !ok || after.Token == "":
		logger.Info("session cleared externally", "profile", s.profile)
		s.sendEvent(Event{Type: EventSessionCleared})
	default:
		logger.Info("session replaced externally", "profile", s.profile, "user", after.Username)
		sess := after
		s.sendEvent(Event{Type: EventSessionSet, Session: &sess})
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Store) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
