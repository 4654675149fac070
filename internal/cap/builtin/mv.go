package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/xhell/xhell/internal/cap"
)

type Mv struct {
	fs afero.Fs
}

var _ cap.Capability = (*Mv)(nil)

func (m *Mv) Name() string        { return "xmv" }
func (m *Mv) Description() string { return "move or rename file" }
func (m *Mv) Usage() string       { return "src dst" }
func (m *Mv) Tier() cap.Tier      { return cap.TierWrite }

func (m *Mv) Validate(args []string) error {
	if len(args) != 2 {
		return errors.New("missing file operand")
	}
	return nil
}

func (m *Mv) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	src, dst := args[0], args[1]
	if fi, err := m.fs.Stat(dst); err == nil && fi.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if err := m.fs.Rename(src, dst); err != nil {
		var le *os.LinkError
		if errors.As(err, &le) {
			return fmt.Errorf("%s: %w", src, le.Err)
		}
		return pathError(err)
	}
	return nil
}
