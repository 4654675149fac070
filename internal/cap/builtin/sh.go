package builtin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

// maxScriptDepth bounds scripts that run themselves.
const maxScriptDepth = 16

type scriptDepthKey struct{}

// Sh runs a script file line by line, echoing each line as "+ line" before
// running it. Blank lines and lines starting with # are skipped. The status
// is that of the last line run.
type Sh struct {
	fs   afero.Fs
	exec func(ctx context.Context, line string) int
}

var _ cap.Capability = (*Sh)(nil)

func (s *Sh) Name() string        { return "xsh" }
func (s *Sh) Description() string { return "execute a script file" }
func (s *Sh) Usage() string       { return "script" }
func (s *Sh) Tier() cap.Tier      { return cap.TierWrite }

func (s *Sh) Validate(args []string) error {
	if len(args) != 1 {
		return errors.New("expected one script file")
	}
	return nil
}

func (s *Sh) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if s.exec == nil {
		return errors.New("scripts are not available here")
	}
	depth, _ := ctx.Value(scriptDepthKey{}).(int)
	if depth >= maxScriptDepth {
		return fmt.Errorf("scripts nested more than %d deep", maxScriptDepth)
	}
	ctx = context.WithValue(ctx, scriptDepthKey{}, depth+1)

	f, err := s.fs.Open(args[0])
	if err != nil {
		return pathError(err)
	}
	defer f.Close()

	status := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintf(stdout, "+ %s\n", line)
		// The line writes straight to the process's descriptors.
		if fl, ok := stdout.(interface{ Flush() error }); ok {
			fl.Flush()
		}
		status = s.exec(ctx, line)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if status != 0 {
		return &cap.ExitError{Code: status}
	}
	return nil
}
