package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/xhell/xhell/internal/cap"
)

// Help lists the builtins registered alongside it.
type Help struct{}

var _ cap.Capability = (*Help)(nil)

func (h *Help) Name() string                 { return "xhelp" }
func (h *Help) Description() string          { return "show this help" }
func (h *Help) Usage() string                { return "" }
func (h *Help) Tier() cap.Tier               { return cap.TierRead }
func (h *Help) Validate(args []string) error { return nil }

func (h *Help) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	reg, ok := cap.RegistryFromContext(ctx)
	if !ok {
		return fmt.Errorf("no registry in context")
	}
	fmt.Fprintln(stdout, "Xhell Available Commands:")
	for _, c := range reg.All() {
		fmt.Fprintf(stdout, "  %-12s - %s\n", c.Name(), c.Description())
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands may be joined with |, and redirected with >, >> and 2>.")
	_, err := fmt.Fprintln(stdout, "Any other name runs the program of that name found on $PATH.")
	return err
}
