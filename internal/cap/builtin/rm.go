package builtin

import (
	"context"
	"fmt"
	"io"

	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

// Rm removes files, and directories with -r. Recursive removal of "/", ".",
// ".." and "~" is refused by the hardcoded rules before Run is reached.
type Rm struct {
	fs afero.Fs
}

var _ cap.Capability = (*Rm)(nil)

func (r *Rm) Name() string                 { return "xrm" }
func (r *Rm) Description() string          { return "remove file or directory (-r)" }
func (r *Rm) Usage() string                { return "[-r] path..." }
func (r *Rm) Tier() cap.Tier               { return cap.TierDangerous }
func (r *Rm) Validate(args []string) error { return nil }

func (r *Rm) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := getopt.New()
	recursive := opts.BoolLong("recursive", 'r', "remove directories and their contents")
	targets, err := parseFlags(opts, r.Name(), args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return cap.Usagef("missing operand")
	}

	failed := false
	for _, target := range targets {
		fi, err := r.fs.Stat(target)
		switch {
		case err != nil:
			fmt.Fprintf(stderr, "xrm: %v\n", pathError(err))
			failed = true
		case fi.IsDir() && !*recursive:
			fmt.Fprintf(stderr, "xrm: cannot remove '%s': Is a directory\n", target)
			failed = true
		case fi.IsDir():
			if err := r.fs.RemoveAll(target); err != nil {
				fmt.Fprintf(stderr, "xrm: %v\n", pathError(err))
				failed = true
			}
		default:
			if err := r.fs.Remove(target); err != nil {
				fmt.Fprintf(stderr, "xrm: %v\n", pathError(err))
				failed = true
			}
		}
	}
	if failed {
		return &cap.ExitError{Code: 1}
	}
	return nil
}
