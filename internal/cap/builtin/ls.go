package builtin

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

// Ls lists directories. Directories are marked with a trailing "/" and
// executables with "*".
type Ls struct {
	fs      afero.Fs
	palette palette
}

var _ cap.Capability = (*Ls)(nil)

func (l *Ls) Name() string                 { return "xls" }
func (l *Ls) Description() string          { return "list files" }
func (l *Ls) Usage() string                { return "[-a] [-l] [dir...]" }
func (l *Ls) Tier() cap.Tier               { return cap.TierRead }
func (l *Ls) Validate(args []string) error { return nil }

func (l *Ls) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := getopt.New()
	all := opts.Bool('a', "do not ignore entries starting with .")
	long := opts.Bool('l', "use a long listing format")
	targets, err := parseFlags(opts, l.Name(), args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		targets = []string{"."}
	}
	sort.Strings(targets)

	failed := false
	for i, target := range targets {
		fi, err := l.fs.Stat(target)
		if err != nil {
			fmt.Fprintf(stderr, "xls: %v\n", pathError(err))
			failed = true
			continue
		}
		if !fi.IsDir() {
			l.print(stdout, fi, *long)
			continue
		}

		entries, err := afero.ReadDir(l.fs, target)
		if err != nil {
			fmt.Fprintf(stderr, "xls: %v\n", pathError(err))
			failed = true
			continue
		}
		if len(targets) > 1 {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "%s:\n", target)
		}
		for _, e := range entries {
			if !*all && strings.HasPrefix(e.Name(), ".") {
				continue
			}
			l.print(stdout, e, *long)
		}
	}
	if failed {
		return &cap.ExitError{Code: 1}
	}
	return nil
}

func (l *Ls) print(w io.Writer, fi fs.FileInfo, long bool) {
	name := filepath.Base(fi.Name())
	switch {
	case fi.IsDir():
		name = l.palette.dir.Sprint(name + "/")
	case fi.Mode()&0100 != 0:
		name = l.palette.exec.Sprint(name + "*")
	}
	if !long {
		fmt.Fprintln(w, name)
		return
	}
	kind := '-'
	if fi.IsDir() {
		kind = 'd'
	}
	perms := "rw-"
	if fi.Mode()&0100 != 0 {
		perms = "rwx"
	}
	fmt.Fprintf(w, "%c%s %8d %s %s\n", kind, perms, fi.Size(), fi.ModTime().Format("Jan 02 15:04"), name)
}
