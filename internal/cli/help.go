package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/xhell/xhell/internal/cap"
)

// RunDescribe prints the synopsis, description and tier of one builtin.
func RunDescribe(reg *cap.Registry, w io.Writer, name string) int {
	c, err := reg.Lookup(name)
	if err != nil {
		fmt.Fprintf(w, "xhell builtins: %v\n", err)
		return 1
	}
	fmt.Fprintf(w, "%s - %s\n", c.Name(), c.Description())
	fmt.Fprintf(w, "usage: %s\n", strings.TrimSpace(c.Name()+" "+c.Usage()))
	fmt.Fprintf(w, "tier: %s\n", c.Tier())
	return 0
}
