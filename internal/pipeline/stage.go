package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/xhell/xhell/internal/ipc"
)

const (
	stageArg0 = "xhell-stage" // argv[0] of a re-executed pipeline stage
	handoffFD = 3             // first ExtraFiles slot
)

// IsStage reports whether this process was started by Executor as a pipeline
// stage. main must check it before doing anything else and, if true, exit
// with RunStage's status.
func IsStage() bool {
	return len(os.Args) > 0 && os.Args[0] == stageArg0
}

// RunStage is the stage side of a multi-stage pipeline. It reads the stage's
// Command from the handoff descriptor, applies the stage's own redirection
// on top of the pipe wiring it was started with, and then either runs a
// builtin and returns its status or replaces the process with the external
// program. It returns only on failure or after a builtin.
func RunStage(d *Dispatcher) int {
	cmd, err := readHandoff()
	if err != nil {
		fmt.Fprintf(os.Stderr, "xhell: stage: %v\n", err)
		return 1
	}
	if len(cmd.Args) == 0 {
		fmt.Fprintln(os.Stderr, "xhell: empty command")
		return 1
	}
	if err := Redirect(&cmd); err != nil {
		fmt.Fprintf(os.Stderr, "xhell: %v\n", err)
		return 1
	}

	name := cmd.Name()
	if d.Classify(name) == Builtin {
		w := bufio.NewWriter(os.Stdout)
		status := d.RunBuiltin(context.Background(), &cmd, os.Stdin, w, os.Stderr)
		w.Flush()
		if status < 0 {
			return 1
		}
		return status
	}

	path, ok := d.Resolve(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: command not found\n", name)
		return StatusNotFound
	}
	err = unix.Exec(path, cmd.Args, os.Environ())
	fmt.Fprintf(os.Stderr, "xhell: exec %s: %v\n", name, err)
	return 1
}

func readHandoff() (Command, error) {
	f := os.NewFile(handoffFD, "handoff")
	if f == nil {
		return Command{}, errors.New("no handoff descriptor")
	}
	defer f.Close()

	var cmd Command
	if err := ipc.ReadJSON(f, ipc.TagStage, &cmd); err != nil {
		return Command{}, fmt.Errorf("read handoff: %w", err)
	}
	return cmd, nil
}
