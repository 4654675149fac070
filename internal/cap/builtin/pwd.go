package builtin

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/xhell/xhell/internal/cap"
)

type Pwd struct{}

var _ cap.Capability = (*Pwd)(nil)

func (p *Pwd) Name() string        { return "xpwd" }
func (p *Pwd) Description() string { return "print working directory" }
func (p *Pwd) Usage() string       { return "" }
func (p *Pwd) Tier() cap.Tier      { return cap.TierRead }

func (p *Pwd) Validate(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("too many arguments")
	}
	return nil
}

func (p *Pwd) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, wd)
	return err
}
