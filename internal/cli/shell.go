// Package cli runs command lines for the interactive shell, -c and xsh.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xhell/xhell/internal/pipeline"
)

// Recorder receives every non-empty line entered at the prompt.
type Recorder interface {
	Add(line string) error
}

// Journal receives a record of every line executed.
type Journal interface {
	LogCommand(line string, stages []string, status int, duration time.Duration, cwd string) error
	LogError(line, msg, cwd string) error
}

// Shell parses and executes command lines.
type Shell struct {
	Executor *pipeline.Executor

	// History and Journal are optional.
	History Recorder
	Journal Journal

	// Stdout receives banners and Stderr parse errors.
	Stdout io.Writer
	Stderr io.Writer
}

// NewShell returns a shell writing to the process's stdout and stderr.
func NewShell(ex *pipeline.Executor) *Shell {
	return &Shell{
		Executor: ex,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// RunLine runs one line typed at the prompt: blank lines are ignored and
// anything else is added to the history before it is executed.
func (s *Shell) RunLine(ctx context.Context, line string) int {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0
	}
	if s.History != nil {
		if err := s.History.Add(line); err != nil {
			fmt.Fprintf(s.Stderr, "xhell: history: %v\n", err)
		}
	}
	return s.Execute(ctx, line)
}

// Execute parses and runs line and journals the outcome. A line that does
// not parse reports "xhell: parse error: ..." and returns
// pipeline.StatusFailure without running anything.
func (s *Shell) Execute(ctx context.Context, line string) int {
	cwd, _ := os.Getwd()

	p, err := pipeline.Parse(line)
	if err != nil {
		fmt.Fprintf(s.Stderr, "xhell: parse error: %v\n", err)
		if s.Journal != nil {
			_ = s.Journal.LogError(line, err.Error(), cwd)
		}
		return pipeline.StatusFailure
	}

	start := time.Now()
	status := s.Executor.Execute(ctx, p)
	if s.Journal != nil {
		// Best-effort: a journal failure does not change the status.
		_ = s.Journal.LogCommand(line, p.Names(), status, time.Since(start), cwd)
	}
	return status
}
