// Package checkpoint provides durable, file-backed progress tracking for a
// single logical pipeline run, so a restarted run can skip work already
// done rather than refetching and re-embedding the whole corpus.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// flushThreshold matches the source's "appended every 100 items" batching:
// a flush happens every flushThreshold mutations, on Clear, or on Close.
const flushThreshold = 100

// Manager guards one checkpoint's state behind a mutex and flushes it to
// disk atomically. It mirrors the source's CheckpointManager context
// manager: construct it, use it for the run's duration, and Close it
// (typically via defer) to guarantee a final flush on both normal
// completion and panic/error exit.
type Manager struct {
	mu       sync.Mutex
	path     string
	state    *state
	dirty    int
	autosave bool
}

// Open loads the checkpoint file at <dir>/<key>.json if it exists, or
// starts empty otherwise. dir is created if absent.
func Open(dir, key string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	m := &Manager{
		path:     filepath.Join(dir, key+".json"),
		state:    newState(),
		autosave: true,
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}

	var loaded state
	if err := json.Unmarshal(data, &loaded); err != nil {
		// A corrupted checkpoint must never block a run; start fresh and
		// let the next flush overwrite it, same self-healing posture as
		// the HTTP disk cache's corrupted-entry handling.
		return m, nil
	}
	if loaded.ProcessedURLs == nil {
		loaded.ProcessedURLs = make(map[string]map[string]any)
	}
	if loaded.FailedURLs == nil {
		loaded.FailedURLs = make(map[string]FailureInfo)
	}
	if loaded.CompletedCombinations == nil {
		loaded.CompletedCombinations = make(map[string]bool)
	}
	if loaded.Positions == nil {
		loaded.Positions = make(map[string]any)
	}
	if loaded.Metadata == nil {
		loaded.Metadata = make(map[string]any)
	}
	m.state = &loaded
	return m, nil
}

// IsProcessed reports whether url was already marked processed, in this or
// a prior run against the same checkpoint file.
func (m *Manager) IsProcessed(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.state.ProcessedURLs[url]
	return ok
}

// MarkProcessed records url as done, with optional metadata (e.g. the
// document id and title it produced).
func (m *Manager) MarkProcessed(url string, meta map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meta == nil {
		meta = map[string]any{}
	}
	m.state.ProcessedURLs[url] = meta
	m.touch()
}

// MarkFailed records url as failed with the triggering error, without
// blocking a later explicit retry of the same URL.
func (m *Manager) MarkFailed(url string, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.FailedURLs[url] = FailureInfo{
		ErrorType:    fmt.Sprintf("%T", cause),
		ErrorMessage: cause.Error(),
		Timestamp:    time.Now(),
	}
	m.touch()
}

// IsCombinationComplete reports whether every URL belonging to combination
// key (conventionally "<type>_<year>") was already drained in a prior run.
func (m *Manager) IsCombinationComplete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.CompletedCombinations[key]
}

// MarkCombinationComplete records that the enumerator for key has been
// fully walked, letting later runs skip listing it entirely.
func (m *Manager) MarkCombinationComplete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.CompletedCombinations[key] = true
	m.touch()
}

// SavePosition stores an arbitrary resume position (e.g. a pagination
// cursor) under key.
func (m *Manager) SavePosition(key string, position any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Positions[key] = position
	m.touch()
}

// GetPosition returns the position previously saved under key, or nil if
// none was ever recorded.
func (m *Manager) GetPosition(key string) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Positions[key]
}

// Clear discards all state and flushes the now-empty checkpoint
// immediately, for an explicit "start over" run.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = newState()
	m.dirty = 0
	return m.flushLocked()
}

// Stats reports counts for progress logging.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.stats()
}

// touch bumps the dirty counter and flushes once flushThreshold mutations
// have accumulated, so a long run doesn't hold its entire progress only in
// memory between explicit Close calls.
func (m *Manager) touch() {
	if !m.autosave {
		return
	}
	m.dirty++
	if m.dirty >= flushThreshold {
		_ = m.flushLocked()
		m.dirty = 0
	}
}

// Close flushes any unwritten mutations. Safe to call multiple times; safe
// to defer immediately after Open.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirty == 0 {
		return nil
	}
	err := m.flushLocked()
	m.dirty = 0
	return err
}

// flushLocked writes state to a temp file and renames it into place, so a
// crash mid-write never leaves a half-written checkpoint for the next run
// to trip over.
func (m *Manager) flushLocked() error {
	data, err := json.Marshal(m.state)
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}
