package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

// Cat concatenates files to stdout, or copies stdin when given none.
type Cat struct {
	fs afero.Fs
}

var _ cap.Capability = (*Cat)(nil)

func (c *Cat) Name() string                 { return "xcat" }
func (c *Cat) Description() string          { return "view file content" }
func (c *Cat) Usage() string                { return "[file...]" }
func (c *Cat) Tier() cap.Tier               { return cap.TierRead }
func (c *Cat) Validate(args []string) error { return nil }

func (c *Cat) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, err := io.Copy(stdout, stdin)
		return err
	}
	failed := false
	for _, name := range args {
		if err := c.copyFile(stdout, name); err != nil {
			fmt.Fprintf(stderr, "xcat: %v\n", pathError(err))
			failed = true
		}
	}
	if failed {
		return &cap.ExitError{Code: 1}
	}
	return nil
}

func (c *Cat) copyFile(w io.Writer, name string) error {
	f, err := c.fs.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
