package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

type Touch struct {
	fs afero.Fs
}

var _ cap.Capability = (*Touch)(nil)

func (t *Touch) Name() string        { return "xtouch" }
func (t *Touch) Description() string { return "create empty file or update its time" }
func (t *Touch) Usage() string       { return "file..." }
func (t *Touch) Tier() cap.Tier      { return cap.TierWrite }

func (t *Touch) Validate(args []string) error {
	if len(args) == 0 {
		return errors.New("missing file operand")
	}
	return nil
}

func (t *Touch) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	now := time.Now()
	failed := false
	for _, name := range args {
		if err := t.touch(name, now); err != nil {
			fmt.Fprintf(stderr, "xtouch: %v\n", pathError(err))
			failed = true
		}
	}
	if failed {
		return &cap.ExitError{Code: 1}
	}
	return nil
}

func (t *Touch) touch(name string, now time.Time) error {
	if _, err := t.fs.Stat(name); err == nil {
		return t.fs.Chtimes(name, now, now)
	}
	f, err := t.fs.OpenFile(name, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
