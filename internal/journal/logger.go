// Package journal keeps the shell's append-only, hash-chained command log.
package journal

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const genesisInput = "xhell-genesis"

// Logger appends entries to a journal file. Several shells may share one
// file: each append takes an exclusive lock and continues the chain from the
// entry actually last in the file.
type Logger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewLogger opens or creates a journal at the given path.
func NewLogger(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	f.Close()
	return &Logger{path: path, now: time.Now}, nil
}

// LogCommand records a line that was parsed and executed.
func (l *Logger) LogCommand(line string, stages []string, status int, duration time.Duration, cwd string) error {
	return l.append(Entry{
		Kind:     KindCommand,
		Line:     line,
		Stages:   stages,
		Status:   status,
		Duration: float64(duration.Microseconds()) / 1000.0,
		Cwd:      cwd,
	})
}

// LogError records a line that could not be run.
func (l *Logger) LogError(line, msg, cwd string) error {
	return l.append(Entry{
		Kind:  KindError,
		Line:  line,
		Error: msg,
		Cwd:   cwd,
	})
}

func (l *Logger) append(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("lock journal: %w", err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	entry.PrevHash = genesisHash()
	if last, err := lastEntry(f); err != nil {
		return err
	} else if last != nil {
		entry.Seq = last.Seq
		entry.PrevHash = last.Hash
	}
	entry.Seq++
	entry.Time = l.now().UTC()
	entry.Hash = computeHash(entry)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}
	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	return nil
}

// Path returns the journal file path.
func (l *Logger) Path() string {
	return l.path
}

// lastEntry decodes the final line of f, reading backwards from the end.
// It returns nil for an empty file or an undecodable last line.
func lastEntry(f *os.File) (*Entry, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat journal: %w", err)
	}
	size := fi.Size()
	if size == 0 {
		return nil, nil
	}

	const chunk = 4096
	var tail []byte
	for off := size; off > 0; {
		n := int64(chunk)
		if off < n {
			n = off
		}
		off -= n
		buf := make([]byte, n)
		if _, err := f.ReadAt(buf, off); err != nil && err != io.EOF {
			return nil, fmt.Errorf("read journal: %w", err)
		}
		tail = append(buf, tail...)
		trimmed := bytes.TrimRight(tail, "\n")
		if i := bytes.LastIndexByte(trimmed, '\n'); i >= 0 || off == 0 {
			line := trimmed[i+1:]
			var e Entry
			if err := json.Unmarshal(line, &e); err != nil {
				return nil, nil
			}
			return &e, nil
		}
	}
	return nil, nil
}

func genesisHash() string {
	h := sha256.Sum256([]byte(genesisInput))
	return fmt.Sprintf("%x", h)
}

func computeHash(e Entry) string {
	e.Hash = ""
	data, _ := json.Marshal(e)
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				lines = append(lines, data[start:i])
			}
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
