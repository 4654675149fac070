package journal

import (
	"fmt"
	"time"
)

// Kind distinguishes executed commands from lines that never ran.
type Kind string

const (
	KindCommand Kind = "command"
	KindError   Kind = "error"
)

// Entry is a single journal record.
type Entry struct {
	Seq      uint64    `json:"seq"`
	Time     time.Time `json:"ts"`
	PrevHash string    `json:"prev_hash"`
	Kind     Kind      `json:"kind"`
	Line     string    `json:"line"`             // the command line as typed
	Stages   []string  `json:"stages,omitempty"` // command name of each stage
	Status   int       `json:"status"`
	Error    string    `json:"error,omitempty"`
	Duration float64   `json:"duration_ms"`
	Cwd      string    `json:"cwd"`
	Hash     string    `json:"hash"` // SHA-256 of this entry (with hash field empty)
}

// Format renders e the way xjournalctl prints it, in local time.
func (e Entry) Format() string {
	ts := e.Time.Local().Format(time.DateTime)
	if e.Kind == KindError {
		return fmt.Sprintf("[%s] ERROR: %s - %s", ts, e.Line, e.Error)
	}
	return fmt.Sprintf("[%s] CMD: %s (status: %d)", ts, e.Line, e.Status)
}
