package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xhell/xhell/internal/journal"
)

// RunJournal prints the last n journal entries (all when n <= 0), as JSON
// when asJSON is set, or verifies the hash chain.
func RunJournal(w io.Writer, path string, n int, verify, asJSON bool) int {
	if path == "" {
		fmt.Fprintln(w, "xhell journal: journal disabled in config")
		return 1
	}

	if verify {
		if err := journal.Verify(path); err != nil {
			fmt.Fprintf(w, "journal verification FAILED: %v\n", err)
			return 1
		}
		fmt.Fprintln(w, "journal integrity verified")
		return 0
	}

	entries, err := journal.Tail(path, n)
	if err != nil {
		fmt.Fprintf(w, "xhell journal: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no journal entries")
		return 0
	}
	for _, e := range entries {
		if asJSON {
			data, _ := json.MarshalIndent(e, "", "  ")
			fmt.Fprintf(w, "%s\n", data)
			continue
		}
		fmt.Fprintln(w, e.Format())
	}
	return 0
}
