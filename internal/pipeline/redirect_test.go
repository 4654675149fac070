package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveRestoreStreams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")

	saved, err := SaveStreams()
	if err != nil {
		t.Fatal(err)
	}
	if err := Redirect(&Command{Output: &OutputTarget{Path: path}}); err != nil {
		saved.Restore()
		t.Fatal(err)
	}
	os.Stdout.WriteString("captured\n")
	if err := saved.Restore(); err != nil {
		t.Fatal(err)
	}
	if err := saved.Restore(); err != nil {
		t.Errorf("second restore: %v", err)
	}

	if got := readFile(t, path); got != "captured\n" {
		t.Errorf("file = %q, want %q", got, "captured\n")
	}
}

func TestRedirectCreatesWithMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	saved, err := SaveStreams()
	if err != nil {
		t.Fatal(err)
	}
	err = Redirect(&Command{Output: &OutputTarget{Path: path, Mode: Append}})
	saved.Restore()
	if err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() != 0 {
		t.Errorf("size = %d, want 0", fi.Size())
	}
	if fi.Mode().Perm()&0600 != 0600 {
		t.Errorf("mode = %v, want owner read/write", fi.Mode().Perm())
	}
}

func TestRedirectErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "file")
	tests := []struct {
		name string
		cmd  Command
	}{
		{"input", Command{Input: missing}},
		{"output", Command{Output: &OutputTarget{Path: missing}}},
		{"stderr", Command{ErrorPath: missing}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved, err := SaveStreams()
			if err != nil {
				t.Fatal(err)
			}
			err = Redirect(&tt.cmd)
			saved.Restore()

			var re *RedirectError
			if !errors.As(err, &re) {
				t.Fatalf("err = %v, want *RedirectError", err)
			}
			if re.Path != missing {
				t.Errorf("path = %q, want %q", re.Path, missing)
			}
			if !errors.Is(err, os.ErrNotExist) {
				t.Errorf("err = %v, want not-exist", err)
			}
		})
	}
}

func TestRedirectOutputFailureLeavesStderr(t *testing.T) {
	dir := t.TempDir()
	errPath := filepath.Join(dir, "err")
	cmd := Command{
		Output:    &OutputTarget{Path: filepath.Join(dir, "missing", "out")},
		ErrorPath: errPath,
	}

	saved, err := SaveStreams()
	if err != nil {
		t.Fatal(err)
	}
	err = Redirect(&cmd)
	saved.Restore()
	if err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(errPath); !os.IsNotExist(err) {
		t.Error("stderr target opened after output redirection failed")
	}
}
