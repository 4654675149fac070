package builtin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xhell/xhell/internal/cap"
)

type Echo struct{}

var _ cap.Capability = (*Echo)(nil)

func (e *Echo) Name() string                 { return "xecho" }
func (e *Echo) Description() string          { return "print arguments" }
func (e *Echo) Usage() string                { return "[word...]" }
func (e *Echo) Tier() cap.Tier               { return cap.TierRead }
func (e *Echo) Validate(args []string) error { return nil }

func (e *Echo) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	_, err := fmt.Fprintln(stdout, strings.Join(args, " "))
	return err
}
