package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Clock is the time source used for recording updates.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the local wall clock.
var SystemClock Clock = ClockFunc(time.Now)

type lastUpdateFile struct {
	At time.Time `json:"at"`
}

// LastUpdate remembers when data was last imported. It is a small JSON file
// replaced atomically on every write.
type LastUpdate struct {
	path  string
	clock Clock

	mu sync.Mutex
}

// NewLastUpdate stores the marker at path. A nil clock means SystemClock.
func NewLastUpdate(path string, clock Clock) *LastUpdate {
	if clock == nil {
		clock = SystemClock
	}
	return &LastUpdate{path: path, clock: clock}
}

// Path is where the marker is stored.
func (l *LastUpdate) Path() string { return l.path }

// Touch records the clock's current time and returns it.
func (l *LastUpdate) Touch() (time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return time.Time{}, fmt.Errorf("last update: %w", err)
	}
	data, err := json.Marshal(lastUpdateFile{At: now})
	if err != nil {
		return time.Time{}, err
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return time.Time{}, fmt.Errorf("last update: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return time.Time{}, fmt.Errorf("last update: %w", err)
	}
	return now, nil
}

// Get returns the recorded time. ok is false if nothing was recorded yet.
func (l *LastUpdate) Get() (at time.Time, ok bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	var f lastUpdateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return time.Time{}, false, fmt.Errorf("last update: %w", err)
	}
	if f.At.IsZero() {
		return time.Time{}, false, nil
	}
	return f.At, true, nil
}

// FormatLastUpdate renders t for display, or "unknown" when ok is false.
func FormatLastUpdate(t time.Time, ok bool) string {
	if !ok {
		return "unknown"
	}
	return t.Format("15:04 02 January 2006")
}
