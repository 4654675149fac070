package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"

	getopt "github.com/pborman/getopt/v2"

	"github.com/xhell/xhell/internal/cap"
	"github.com/xhell/xhell/internal/journal"
)

// Journalctl prints the command journal.
type Journalctl struct {
	path string
}

var _ cap.Capability = (*Journalctl)(nil)

func (j *Journalctl) Name() string                 { return "xjournalctl" }
func (j *Journalctl) Description() string          { return "view xhell logs" }
func (j *Journalctl) Usage() string                { return "[-n lines] [--verify]" }
func (j *Journalctl) Tier() cap.Tier               { return cap.TierRead }
func (j *Journalctl) Validate(args []string) error { return nil }

func (j *Journalctl) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := getopt.New()
	lines := opts.Int('n', 0, "show only the last N entries")
	verify := opts.BoolLong("verify", 0, "check the journal's hash chain")
	if _, err := parseFlags(opts, j.Name(), args); err != nil {
		return err
	}
	if j.path == "" {
		return errors.New("journal disabled")
	}

	if *verify {
		if err := journal.Verify(j.path); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "journal OK")
		return nil
	}

	entries, err := journal.Tail(j.path, *lines)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(stdout, e.Format()); err != nil {
			return err
		}
	}
	return nil
}
