package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xhell/xhell/internal/cap"
)

// Cd changes the shell's working directory. In a pipeline stage it only
// changes the stage process's directory.
type Cd struct{}

var _ cap.Capability = (*Cd)(nil)

func (c *Cd) Name() string        { return "xcd" }
func (c *Cd) Description() string { return "change directory" }
func (c *Cd) Usage() string       { return "[dir|-]" }
func (c *Cd) Tier() cap.Tier      { return cap.TierRead }

func (c *Cd) Validate(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("too many arguments")
	}
	return nil
}

func (c *Cd) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var dir string
	switch {
	case len(args) == 0:
		dir = os.Getenv("HOME")
		if dir == "" {
			return errors.New("HOME not set")
		}
	case args[0] == "-":
		dir = os.Getenv("OLDPWD")
		if dir == "" {
			return errors.New("no previous directory")
		}
		fmt.Fprintln(stdout, dir)
	default:
		dir = args[0]
	}

	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getcwd: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return pathError(err)
	}
	os.Setenv("OLDPWD", prev)
	if wd, err := os.Getwd(); err == nil {
		os.Setenv("PWD", wd)
	}
	return nil
}
