package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/xhell/xhell/internal/cap"
)

type HistoryCmd struct {
	history History
}

var _ cap.Capability = (*HistoryCmd)(nil)

func (h *HistoryCmd) Name() string                 { return "xhistory" }
func (h *HistoryCmd) Description() string          { return "view command history" }
func (h *HistoryCmd) Usage() string                { return "" }
func (h *HistoryCmd) Tier() cap.Tier               { return cap.TierRead }
func (h *HistoryCmd) Validate(args []string) error { return nil }

func (h *HistoryCmd) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if h.history == nil {
		return nil
	}
	for i, line := range h.history.Entries() {
		if _, err := fmt.Fprintf(stdout, "%4d  %s\n", i+1, line); err != nil {
			return err
		}
	}
	return nil
}
