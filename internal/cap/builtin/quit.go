package builtin

import (
	"context"
	"io"

	"github.com/xhell/xhell/internal/cap"
)

type Quit struct{}

var _ cap.Capability = (*Quit)(nil)

func (q *Quit) Name() string                 { return "quit" }
func (q *Quit) Description() string          { return "exit xhell" }
func (q *Quit) Usage() string                { return "" }
func (q *Quit) Tier() cap.Tier               { return cap.TierRead }
func (q *Quit) Validate(args []string) error { return nil }

func (q *Quit) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	return cap.ErrQuit
}
