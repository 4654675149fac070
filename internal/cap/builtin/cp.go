package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

type Cp struct {
	fs afero.Fs
}

var _ cap.Capability = (*Cp)(nil)

func (c *Cp) Name() string                 { return "xcp" }
func (c *Cp) Description() string          { return "copy file or directory (-r)" }
func (c *Cp) Usage() string                { return "[-r] src dst" }
func (c *Cp) Tier() cap.Tier               { return cap.TierWrite }
func (c *Cp) Validate(args []string) error { return nil }

func (c *Cp) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := getopt.New()
	recursive := opts.Bool('r', "copy directories recursively")
	ops, err := parseFlags(opts, c.Name(), args)
	if err != nil {
		return err
	}
	if len(ops) != 2 {
		return cap.Usagef("missing file operand")
	}
	src, dst := ops[0], ops[1]

	fi, err := c.fs.Stat(src)
	if err != nil {
		return pathError(err)
	}
	if dfi, err := c.fs.Stat(dst); err == nil && dfi.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if !fi.IsDir() {
		return pathError(copyFile(c.fs, src, dst, fi.Mode()))
	}
	if !*recursive {
		return fmt.Errorf("%s is a directory (not copied)", src)
	}
	return pathError(copyTree(c.fs, src, dst))
}

func copyFile(fs afero.Fs, src, dst string, mode os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var errIntoSelf = errors.New("cannot copy a directory into itself")

func copyTree(fs afero.Fs, src, dst string) error {
	if rel, err := filepath.Rel(src, dst); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errIntoSelf
	}
	return afero.Walk(fs, src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			return fs.MkdirAll(target, fi.Mode().Perm()|0700)
		}
		return copyFile(fs, path, target, fi.Mode())
	})
}
