package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long a document or conversation must be idle before
// the agent acts.
const DefaultDelay = 10 * time.Second

const defaultPollInterval = time.Second

// fileState is the part of a file's metadata used to detect edits.
type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size()}
}

// DocumentMonitor watches one file and calls its callback after the file has
// been left unchanged for the configured delay. Every detected change
// restarts the countdown.
type DocumentMonitor struct {
	path     string
	callback func(path string)
	delay    time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	last  fileState
	timer *time.Timer
	gen   uint64
}

// MonitorOption configures a DocumentMonitor.
type MonitorOption func(*DocumentMonitor)

// WithMonitorLogger sets the logger used for watch events.
func WithMonitorLogger(l *zap.Logger) MonitorOption {
	return func(m *DocumentMonitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewDocumentMonitor records the current state of path. A non-positive
// delay selects DefaultDelay.
func NewDocumentMonitor(path string, callback func(path string), delay time.Duration, opts ...MonitorOption) *DocumentMonitor {
	if delay <= 0 {
		delay = DefaultDelay
	}
	m := &DocumentMonitor{
		path:     path,
		callback: callback,
		delay:    delay,
		logger:   zap.NewNop(),
		last:     statFile(path),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the watched file.
func (m *DocumentMonitor) Path() string {
	return m.path
}

// Check compares the file with its last known state and, if it changed,
// restarts the idle countdown.
func (m *DocumentMonitor) Check() {
	state := statFile(m.path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if state == m.last {
		return
	}
	m.last = state
	if m.timer != nil {
		m.timer.Stop()
	}
	m.gen++
	gen := m.gen
	m.timer = time.AfterFunc(m.delay, func() { m.onIdle(gen) })
	m.logger.Debug("document changed", zap.String("path", m.path), zap.Int64("size", state.size))
}

func (m *DocumentMonitor) onIdle(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.mu.Unlock()

	m.logger.Debug("document idle", zap.String("path", m.path))
	m.callback(m.path)
}

// Stop cancels a pending callback.
func (m *DocumentMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

// Run calls Check on every filesystem event in the file's directory and on
// every poll tick until ctx is done. A pending callback is cancelled on exit.
// A non-positive pollInterval selects one second.
func (m *DocumentMonitor) Run(ctx context.Context, pollInterval time.Duration) error {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	defer m.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(m.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(m.path)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) == target {
				m.Check()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				m.Check()
				continue
			}
			m.logger.Warn("watch error", zap.String("path", m.path), zap.Error(err))
		}
	}
}
