package cli

import (
	"fmt"
	"io"

	"github.com/xhell/xhell/internal/cap"
)

// RunList lists the builtins, optionally only those of one tier.
func RunList(reg *cap.Registry, w io.Writer, tierFilter string) int {
	var filter *cap.Tier
	if tierFilter != "" {
		t, err := cap.ParseTier(tierFilter)
		if err != nil {
			fmt.Fprintf(w, "xhell builtins: %v\n", err)
			return 1
		}
		filter = &t
	}

	for _, c := range reg.All() {
		if filter != nil && c.Tier() != *filter {
			continue
		}
		fmt.Fprintf(w, "%-12s %-10s %s\n", c.Name(), c.Tier(), c.Description())
	}
	return 0
}
