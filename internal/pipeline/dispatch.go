package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Kind classifies a command name.
type Kind int

const (
	External Kind = iota
	Builtin
)

func (k Kind) String() string {
	if k == Builtin {
		return "builtin"
	}
	return "external"
}

// Builtins is what the executor needs from the builtin command set.
type Builtins interface {
	IsBuiltin(name string) bool
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) int
}

// Dispatcher routes a command to a builtin or to an executable on the
// search path.
type Dispatcher struct {
	Builtins Builtins
}

// NewDispatcher returns a dispatcher backed by b. A nil b means no builtins.
func NewDispatcher(b Builtins) *Dispatcher {
	return &Dispatcher{Builtins: b}
}

// Classify reports whether name is a builtin or must be run as a program.
func (d *Dispatcher) Classify(name string) Kind {
	if d.Builtins != nil && d.Builtins.IsBuiltin(name) {
		return Builtin
	}
	return External
}

// RunBuiltin runs cmd in the current process and returns its status.
func (d *Dispatcher) RunBuiltin(ctx context.Context, cmd *Command, stdin io.Reader, stdout, stderr io.Writer) int {
	return d.Builtins.Run(ctx, cmd.Args[0], cmd.Args[1:], stdin, stdout, stderr)
}

// Resolve finds the executable for name. A name containing a slash is used
// as is; otherwise each $PATH entry is tried in order, an empty entry
// meaning the current directory. The first executable regular file wins.
func (d *Dispatcher) Resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if strings.Contains(name, "/") {
		if isExecutable(name) {
			return name, true
		}
		return "", false
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, name)
		if !strings.Contains(path, "/") {
			// Keep it a path so it is never looked up again.
			path = "./" + path
		}
		if isExecutable(path) {
			return path, true
		}
	}
	return "", false
}

func isExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}
