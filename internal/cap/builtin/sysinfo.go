package builtin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"

	"github.com/xhell/xhell/internal/cap"
)

// Sysinfo prints CPU, memory and kernel details read from procfs.
type Sysinfo struct {
	fs      afero.Fs
	procDir string
}

var _ cap.Capability = (*Sysinfo)(nil)

func (s *Sysinfo) Name() string                 { return "xsysinfo" }
func (s *Sysinfo) Description() string          { return "view system stats" }
func (s *Sysinfo) Usage() string                { return "" }
func (s *Sysinfo) Tier() cap.Tier               { return cap.TierRead }
func (s *Sysinfo) Validate(args []string) error { return nil }

func (s *Sysinfo) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fmt.Fprintln(stdout, "========== Xhell System Info ==========")
	if model, ok := s.field("cpuinfo", "model name"); ok {
		fmt.Fprintf(stdout, "CPU Model : %s\n", model)
	}
	if total, ok := s.field("meminfo", "MemTotal"); ok {
		fmt.Fprintf(stdout, "Memory    : %s\n", total)
	}
	if avail, ok := s.field("meminfo", "MemAvailable"); ok {
		fmt.Fprintf(stdout, "Available : %s\n", avail)
	}
	fmt.Fprintf(stdout, "Kernel    : %s\n", s.kernel())
	_, err := fmt.Fprintln(stdout, "=======================================")
	return err
}

// field returns the value of the first "key : value" line in a procfs file.
func (s *Sysinfo) field(file, key string) (string, bool) {
	f, err := s.fs.Open(filepath.Join(s.procDir, file))
	if err != nil {
		return "", false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		k, v, ok := strings.Cut(sc.Text(), ":")
		if ok && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func (s *Sysinfo) kernel() string {
	if data, err := afero.ReadFile(s.fs, filepath.Join(s.procDir, "sys", "kernel", "osrelease")); err == nil {
		return strings.TrimSpace(string(data))
	}
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "unknown"
	}
	return unix.ByteSliceToString(u.Release[:])
}
