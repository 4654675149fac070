// Package builtin implements the commands xhell runs in-process.
package builtin

import (
	"context"
	"os"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

// History is the read side of the shell's command history.
type History interface {
	Entries() []string
}

// Deps are the shell services builtins depend on.
type Deps struct {
	// Fs backs every file a builtin reads or writes. Nil means the OS.
	Fs afero.Fs

	// History feeds xhistory. Nil means an empty history.
	History History

	// JournalPath is the journal xjournalctl reads. Empty disables it.
	JournalPath string

	// Exec runs one command line and returns its status. It backs xsh.
	Exec func(ctx context.Context, line string) int

	// Color enables ANSI colour in xls and xsearch output.
	Color bool

	// ProcDir is where xsysinfo reads kernel statistics. Empty means /proc.
	ProcDir string
}

func (d Deps) withDefaults() Deps {
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}
	if d.ProcDir == "" {
		d.ProcDir = "/proc"
	}
	return d
}

// RegisterAll adds all builtins to the registry.
func RegisterAll(r *cap.Registry, d Deps) {
	d = d.withDefaults()
	palette := newPalette(d.Color)

	r.Register(&Echo{})
	r.Register(&Pwd{})
	r.Register(&Cd{})
	r.Register(&Ls{fs: d.Fs, palette: palette})
	r.Register(&Touch{fs: d.Fs})
	r.Register(&Cat{fs: d.Fs})
	r.Register(&Cp{fs: d.Fs})
	r.Register(&Rm{fs: d.Fs})
	r.Register(&Mv{fs: d.Fs})
	r.Register(&Tee{fs: d.Fs})
	r.Register(&Search{fs: d.Fs, palette: palette})
	r.Register(&Calc{})
	r.Register(&HistoryCmd{history: d.History})
	r.Register(&Journalctl{path: d.JournalPath})
	r.Register(&Sysinfo{fs: d.Fs, procDir: d.ProcDir})
	r.Register(&Help{})
	r.Register(&Sh{fs: d.Fs, exec: d.Exec})
	r.Register(&Quit{})
}

// palette holds the colours builtins decorate output with. Each is enabled or
// disabled explicitly so output does not depend on the process's own tty.
type palette struct {
	dir, exec, match *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		dir:   color.New(color.FgBlue, color.Bold),
		exec:  color.New(color.FgGreen, color.Bold),
		match: color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.dir, p.exec, p.match} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// parseFlags runs getopt over args. A parse failure is a usage error.
func parseFlags(opts *getopt.Set, name string, args []string) ([]string, error) {
	if err := opts.Getopt(append([]string{name}, args...), nil); err != nil {
		return nil, cap.Usagef("%v", err)
	}
	return opts.Args(), nil
}

// pathError drops the operation from an *os.PathError so messages read
// "name: path: reason".
func pathError(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return &pathMsg{path: pe.Path, err: pe.Err}
	}
	return err
}

type pathMsg struct {
	path string
	err  error
}

func (e *pathMsg) Error() string { return e.path + ": " + e.err.Error() }
func (e *pathMsg) Unwrap() error { return e.err }
