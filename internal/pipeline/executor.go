package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/xhell/xhell/internal/ipc"
)

// Executor runs parsed pipelines against the process's standard streams.
//
// A single-stage line runs in the shell process itself: its redirection is
// applied to fds 0, 1 and 2 and undone afterwards, and a builtin writes
// through Stdout. A multi-stage line runs every stage in its own process
// connected by pipes. Go cannot fork without exec, so each stage process is
// a re-execution of Self that receives its Command over a handoff pipe (see
// RunStage).
type Executor struct {
	Dispatcher *Dispatcher

	// Stdout is the buffered writer over fd 1 shared by in-process builtins.
	// It is flushed before any child is started and before streams are
	// restored.
	Stdout *bufio.Writer

	// Stderr receives the executor's own diagnostics.
	Stderr io.Writer

	// Self is the binary re-executed for pipeline stages. Empty means
	// os.Executable.
	Self string
}

// NewExecutor returns an executor writing to the process's stdout and stderr.
func NewExecutor(d *Dispatcher) *Executor {
	return &Executor{
		Dispatcher: d,
		Stdout:     bufio.NewWriter(os.Stdout),
		Stderr:     os.Stderr,
	}
}

// Execute runs p and returns the status of its last stage: the program's
// exit code, StatusNotFound when the command does not exist, or
// StatusFailure when redirection or process start fails or the program is
// killed by a signal. Execute never kills a child; ctx only reaches
// builtins run in-process.
func (e *Executor) Execute(ctx context.Context, p *Pipeline) int {
	if len(p.Stages) == 0 {
		fmt.Fprintln(e.Stderr, "xhell: empty pipeline")
		return StatusFailure
	}
	for i := range p.Stages {
		if len(p.Stages[i].Args) == 0 {
			fmt.Fprintln(e.Stderr, "xhell: empty command")
			return StatusFailure
		}
	}
	if len(p.Stages) == 1 {
		return e.runSingle(ctx, &p.Stages[0])
	}
	return e.runPipeline(p)
}

func (e *Executor) runSingle(ctx context.Context, cmd *Command) int {
	e.flush()
	saved, err := SaveStreams()
	if err != nil {
		fmt.Fprintf(e.Stderr, "xhell: %v\n", err)
		return StatusFailure
	}
	defer func() {
		if err := saved.Restore(); err != nil {
			fmt.Fprintf(e.Stderr, "xhell: %v\n", err)
		}
	}()

	if err := Redirect(cmd); err != nil {
		fmt.Fprintf(e.Stderr, "xhell: %v\n", err)
		return StatusFailure
	}

	if e.Dispatcher.Classify(cmd.Name()) == Builtin {
		status := e.Dispatcher.RunBuiltin(ctx, cmd, os.Stdin, e.Stdout, e.Stderr)
		// Must reach the redirected fd 1 before Restore swaps it back.
		e.flush()
		return status
	}
	return e.runExternal(cmd)
}

// runExternal starts cmd with the process's current fds 0, 1 and 2, so the
// child inherits whatever redirection is in place.
func (e *Executor) runExternal(cmd *Command) int {
	path, ok := e.Dispatcher.Resolve(cmd.Name())
	if !ok {
		fmt.Fprintf(e.Stderr, "%s: command not found\n", cmd.Name())
		return StatusNotFound
	}
	c := &exec.Cmd{
		Path:   path,
		Args:   cmd.Args,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if err := c.Start(); err != nil {
		fmt.Fprintf(e.Stderr, "xhell: fork: %v\n", err)
		return StatusFailure
	}
	return waitStatus(c)
}

func (e *Executor) runPipeline(p *Pipeline) int {
	n := len(p.Stages)
	pipes, err := openPipes(n - 1)
	if err != nil {
		fmt.Fprintf(e.Stderr, "xhell: %v\n", err)
		return StatusFailure
	}
	defer pipes.Close()

	self, err := e.self()
	if err != nil {
		fmt.Fprintf(e.Stderr, "xhell: fork: %v\n", err)
		return StatusFailure
	}

	e.flush()

	procs := make([]*exec.Cmd, 0, n)
	for i := range p.Stages {
		c, err := startStage(self, &p.Stages[i], pipes.stdin(i), pipes.stdout(i, n))
		if err != nil {
			// Stages already running see EOF or EPIPE once the pipes close.
			pipes.Close()
			for _, c := range procs {
				c.Wait()
			}
			fmt.Fprintf(e.Stderr, "xhell: fork: %v\n", err)
			return StatusFailure
		}
		procs = append(procs, c)
	}

	// The shell never touches pipeline data; a write end held open here
	// would keep the next stage from seeing EOF.
	pipes.Close()

	status := StatusFailure
	for _, c := range procs {
		status = waitStatus(c)
	}
	return status
}

// startProcess is replaced in tests to make a given stage fail to launch.
var startProcess = (*exec.Cmd).Start

// startStage starts one stage process and hands it cmd. The child gets
// stdin, stdout, the shell's stderr and the handoff pipe as fd 3; every other
// descriptor is close-on-exec.
func startStage(self string, cmd *Command, stdin, stdout *os.File) (*exec.Cmd, error) {
	hr, hw, err := newPipe()
	if err != nil {
		return nil, fmt.Errorf("handoff pipe: %w", err)
	}
	c := &exec.Cmd{
		Path:       self,
		Args:       []string{stageArg0},
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     os.Stderr,
		ExtraFiles: []*os.File{hr},
	}
	err = startProcess(c)
	hr.Close()
	if err != nil {
		hw.Close()
		return nil, err
	}
	// A failed write means the stage already died; it reports that through
	// its own exit status.
	ipc.WriteJSON(hw, ipc.TagStage, cmd)
	hw.Close()
	return c, nil
}

func (e *Executor) self() (string, error) {
	if e.Self != "" {
		return e.Self, nil
	}
	return os.Executable()
}

func (e *Executor) flush() {
	if e.Stdout != nil {
		e.Stdout.Flush()
	}
}

func waitStatus(c *exec.Cmd) int {
	c.Wait()
	return exitStatus(c.ProcessState)
}

// exitStatus maps a finished process to a status: its exit code after a
// normal exit, StatusFailure otherwise.
func exitStatus(ps *os.ProcessState) int {
	if ps == nil || !ps.Exited() {
		return StatusFailure
	}
	return ps.ExitCode()
}
