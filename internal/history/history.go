// Package history keeps the shell's command history in memory and on disk.
package history

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultMax is the number of lines kept when no limit is configured.
const DefaultMax = 1000

// History is a bounded list of command lines persisted to a file. Each added
// line is appended to the file at once, so a line survives a crash and is
// visible to other processes reading the same file.
type History struct {
	mu      sync.Mutex
	path    string
	max     int
	entries []string

	readOnly bool
}

// Open loads the history at path, keeping the newest max lines, and rewrites
// the file if it held more. A missing file is an empty history. An empty
// path gives a history that is never persisted.
func Open(path string, max int) (*History, error) {
	h, compacted, err := load(path, max)
	if err != nil {
		return nil, err
	}
	if compacted {
		if err := h.rewrite(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Load reads the history at path like Open but never writes the file.
// Lines added to it are kept in memory only.
func Load(path string, max int) (*History, error) {
	h, _, err := load(path, max)
	if err != nil {
		return nil, err
	}
	h.readOnly = true
	return h, nil
}

// load reads the history at path and reports whether lines beyond max were
// dropped.
func load(path string, max int) (*History, bool, error) {
	if max <= 0 {
		max = DefaultMax
	}
	h := &History{path: path, max: max}
	if path == "" {
		return h, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("read history: %w", err)
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			h.entries = append(h.entries, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, false, fmt.Errorf("read history: %w", err)
	}

	if len(h.entries) <= max {
		return h, false, nil
	}
	h.entries = h.entries[len(h.entries)-max:]
	return h, true, nil
}

// Add records line, dropping the oldest entry when full. Blank lines are
// ignored.
func (h *History) Add(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, line)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	if h.path == "" || h.readOnly {
		return nil
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Path returns the history file path.
func (h *History) Path() string {
	return h.path
}

func (h *History) rewrite() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0700); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	tmp := h.path + ".tmp"
	data := strings.Join(h.entries, "\n") + "\n"
	if err := os.WriteFile(tmp, []byte(data), 0600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, h.path); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
