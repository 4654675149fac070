package builtin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

// Search prints "N: line" for each line containing a term. It is silent when
// nothing matches.
type Search struct {
	fs      afero.Fs
	palette palette
}

var _ cap.Capability = (*Search)(nil)

func (s *Search) Name() string        { return "xsearch" }
func (s *Search) Description() string { return "search lines containing a term" }
func (s *Search) Usage() string       { return "term [file]" }
func (s *Search) Tier() cap.Tier      { return cap.TierRead }

func (s *Search) Validate(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("expected a term and at most one file")
	}
	return nil
}

func (s *Search) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	term := args[0]
	in := stdin
	if len(args) == 2 {
		f, err := s.fs.Open(args[1])
		if err != nil {
			return pathError(err)
		}
		defer f.Close()
		in = f
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for n := 1; sc.Scan(); n++ {
		if line := sc.Text(); strings.Contains(line, term) {
			fmt.Fprintf(stdout, "%s: %s\n", s.palette.match.Sprint(n), line)
		}
	}
	return sc.Err()
}
