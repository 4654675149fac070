package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	l, err := NewLogger(filepath.Join(t.TempDir(), "sub", "journal.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestLogAndVerify(t *testing.T) {
	l := newTestLogger(t)

	for i := 0; i < 5; i++ {
		err := l.LogCommand("xecho hi | xsearch h", []string{"xecho", "xsearch"}, i, time.Duration(i)*time.Millisecond, "/tmp")
		if err != nil {
			t.Fatalf("log entry %d: %v", i, err)
		}
	}
	if err := l.LogError("xecho >", "missing filename after >", "/tmp"); err != nil {
		t.Fatal(err)
	}

	if err := Verify(l.Path()); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	entries, err := Tail(l.Path(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(entries))
	}
	if entries[5].Kind != KindError || entries[5].Seq != 6 {
		t.Errorf("last entry = %+v", entries[5])
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	l := newTestLogger(t)
	for i := 0; i < 3; i++ {
		_ = l.LogCommand("xcat notes", []string{"xcat"}, 0, time.Millisecond, "/tmp")
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), `"status":0`, `"status":1`, 1)
	if err := os.WriteFile(l.Path(), []byte(tampered), 0600); err != nil {
		t.Fatal(err)
	}

	if err := Verify(l.Path()); err == nil {
		t.Fatal("expected verify to detect tampering")
	}
}

func TestVerifyDetectsSequenceGap(t *testing.T) {
	l := newTestLogger(t)
	for i := 0; i < 5; i++ {
		_ = l.LogCommand("xpwd", []string{"xpwd"}, 0, time.Millisecond, "/tmp")
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	lines := splitLines(data)
	remaining := append(lines[:2], lines[3:]...)
	var newData []byte
	for _, line := range remaining {
		newData = append(newData, line...)
		newData = append(newData, '\n')
	}
	if err := os.WriteFile(l.Path(), newData, 0600); err != nil {
		t.Fatal(err)
	}

	if err := Verify(l.Path()); err == nil {
		t.Fatal("expected verify to detect sequence gap")
	}
}

func TestVerifyEmptyJournal(t *testing.T) {
	l := newTestLogger(t)
	if err := Verify(l.Path()); err != nil {
		t.Fatalf("empty journal should be valid: %v", err)
	}
}

func TestLoggersShareChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	first, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	// Interleaved writers, as with a REPL and a "-c" child sharing the file.
	_ = first.LogCommand("one", []string{"one"}, 0, time.Millisecond, "/tmp")
	_ = second.LogCommand("two", []string{"two"}, 0, time.Millisecond, "/tmp")
	_ = first.LogCommand("three", []string{"three"}, 0, time.Millisecond, "/tmp")

	if err := Verify(path); err != nil {
		t.Fatalf("chain should be valid across loggers: %v", err)
	}
	entries, err := Tail(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Line != "two" || entries[1].Seq != 3 {
		t.Errorf("tail = %+v", entries)
	}
}

func TestLastEntryLongLine(t *testing.T) {
	l := newTestLogger(t)
	long := strings.Repeat("x", 10000)
	_ = l.LogCommand("first", nil, 0, 0, "/tmp")
	_ = l.LogCommand(long, nil, 0, 0, "/tmp")
	_ = l.LogCommand("third", nil, 0, 0, "/tmp")

	if err := Verify(l.Path()); err != nil {
		t.Fatal(err)
	}
}

func TestFormat(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	cmd := Entry{Time: ts, Kind: KindCommand, Line: "xls -l", Status: 0}
	if got, want := cmd.Format(), "[2024-03-09 14:05:07] CMD: xls -l (status: 0)"; got != want {
		t.Errorf("command: %q, want %q", got, want)
	}
	bad := Entry{Time: ts, Kind: KindError, Line: "xecho >", Error: "missing filename after >"}
	if got, want := bad.Format(), "[2024-03-09 14:05:07] ERROR: xecho > - missing filename after >"; got != want {
		t.Errorf("error: %q, want %q", got, want)
	}
}
