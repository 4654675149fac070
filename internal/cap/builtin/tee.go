package builtin

import (
	"context"
	"errors"
	"io"
	"os"

	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

// Tee copies stdin to stdout and to a file.
type Tee struct {
	fs afero.Fs
}

var _ cap.Capability = (*Tee)(nil)

func (t *Tee) Name() string        { return "xtee" }
func (t *Tee) Description() string { return "copy stdin to stdout and a file" }
func (t *Tee) Usage() string       { return "[-a] file" }
func (t *Tee) Tier() cap.Tier      { return cap.TierWrite }

func (t *Tee) Validate(args []string) error {
	if len(args) == 0 {
		return errors.New("missing file operand")
	}
	return nil
}

func (t *Tee) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := getopt.New()
	appendMode := opts.Bool('a', "append to the file")
	ops, err := parseFlags(opts, t.Name(), args)
	if err != nil {
		return err
	}
	if len(ops) != 1 {
		return cap.Usagef("expected exactly one file")
	}

	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if *appendMode {
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := t.fs.OpenFile(ops[0], flag, 0644)
	if err != nil {
		return pathError(err)
	}
	if _, err := io.Copy(io.MultiWriter(stdout, f), stdin); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
