package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// selfWriteWindow is how long after our own write we ignore filesystem
// events for the same key, so local writes notify subscribers exactly once.
const selfWriteWindow = 500 * time.Millisecond

// Store persists one JSON document per key under a data directory and fans
// out change notifications to subscribers. Writes go through a temp file and
// rename so readers never observe a partial document. An fsnotify watcher on
// the directory surfaces writes made by other processes.
type Store struct {
	dir     string
	watcher *fsnotify.Watcher

	mu         sync.RWMutex
	subs       map[string]map[int]func()
	nextSubID  int
	lastWrites map[string]time.Time

	done chan struct{}
}

// Open initializes the store at dir, creating it if needed, and starts the
// directory watcher.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch data directory: %w", err)
	}

	s := &Store{
		dir:        dir,
		watcher:    watcher,
		subs:       make(map[string]map[int]func()),
		lastWrites: make(map[string]time.Time),
		done:       make(chan struct{}),
	}
	go s.watch()

	return s, nil
}

// Close stops the watcher. Registered subscriptions stop firing for external
// changes; local writes still notify until the process exits.
func (s *Store) Close() error {
	close(s.done)
	return s.watcher.Close()
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get returns the raw document for key, reporting whether it exists.
func (s *Store) Get(key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// Put atomically replaces the document for key and notifies subscribers in
// this process.
func (s *Store) Put(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("storage unavailable: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage write failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage write failed: %w", err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage write failed: %w", err)
	}

	s.markWritten(key)
	s.notify(key)
	return nil
}

// Delete removes the document for key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage delete failed: %w", err)
	}
	s.markWritten(key)
	s.notify(key)
	return nil
}

// Subscribe registers fn for changes to key and returns its unsubscribe
// function.
func (s *Store) Subscribe(key string, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func())
	}
	s.subs[key][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], id)
		if len(s.subs[key]) == 0 {
			delete(s.subs, key)
		}
	}
}

func (s *Store) markWritten(key string) {
	s.mu.Lock()
	s.lastWrites[key] = time.Now()
	s.mu.Unlock()
}

// recentlyWritten reports whether this process wrote key inside the
// suppression window. The mark is consumed either way, so at most one
// filesystem event per local write is swallowed and a racing external
// write to the same key still reaches subscribers.
func (s *Store) recentlyWritten(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.lastWrites[key]
	if !ok {
		return false
	}
	delete(s.lastWrites, key)
	return time.Since(at) <= selfWriteWindow
}

func (s *Store) notify(key string) {
	s.mu.RLock()
	callbacks := make([]func(), 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		callbacks = append(callbacks, fn)
	}
	s.mu.RUnlock()

	for _, fn := range callbacks {
		fn()
	}
}

func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			key := strings.TrimSuffix(name, ".json")
			if s.recentlyWritten(key) {
				continue
			}
			s.notify(key)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("store watcher error")
		}
	}
}
