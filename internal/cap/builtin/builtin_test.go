package builtin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhell/xhell/internal/cap"
	"github.com/xhell/xhell/internal/journal"
)

type result struct {
	status int
	stdout string
	stderr string
}

// newRegistry registers every builtin over an in-memory filesystem unless
// d names another.
func newRegistry(t *testing.T, d Deps) (*cap.Registry, afero.Fs) {
	t.Helper()
	if d.Fs == nil {
		d.Fs = afero.NewMemMapFs()
	}
	r := cap.NewRegistry()
	RegisterAll(r, d)
	return r, d.Fs
}

func run(r *cap.Registry, name string, args ...string) result {
	return runWith(context.Background(), r, "", name, args...)
}

func runWith(ctx context.Context, r *cap.Registry, stdin, name string, args ...string) result {
	var stdout, stderr bytes.Buffer
	status := r.Run(ctx, name, args, strings.NewReader(stdin), &stdout, &stderr)
	return result{status, stdout.String(), stderr.String()}
}

func writeFile(t *testing.T, fs afero.Fs, path, data string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(data), 0644))
}

func TestHelpGolden(t *testing.T) {
	r, _ := newRegistry(t, Deps{})
	res := run(r, "xhelp")
	require.Equal(t, 0, res.status)

	g := goldie.New(t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)
	g.Assert(t, "xhelp", []byte(res.stdout))
}

func TestEcho(t *testing.T) {
	r, _ := newRegistry(t, Deps{})
	assert.Equal(t, result{0, "a b  c\n", ""}, run(r, "xecho", "a", "b ", "c"))
	assert.Equal(t, result{0, "\n", ""}, run(r, "xecho"))
}

func TestQuit(t *testing.T) {
	r, _ := newRegistry(t, Deps{})
	ctx, quitting := cap.WithQuit(context.Background())
	res := runWith(ctx, r, "", "quit")
	assert.Equal(t, 0, res.status)
	assert.True(t, quitting())
}

type fakeHistory []string

func (h fakeHistory) Entries() []string { return h }

func TestHistory(t *testing.T) {
	r, _ := newRegistry(t, Deps{History: fakeHistory{"xls", "xecho hi | xcat"}})
	res := run(r, "xhistory")
	assert.Equal(t, 0, res.status)
	assert.Equal(t, "   1  xls\n   2  xecho hi | xcat\n", res.stdout)

	r, _ = newRegistry(t, Deps{})
	assert.Equal(t, result{0, "", ""}, run(r, "xhistory"))
}

func TestJournalctl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal")
	l, err := journal.NewLogger(path)
	require.NoError(t, err)
	require.NoError(t, l.LogCommand("xecho one", []string{"xecho"}, 0, time.Millisecond, "/"))
	require.NoError(t, l.LogCommand("xcat two", []string{"xcat"}, 1, time.Millisecond, "/"))
	require.NoError(t, l.LogError("xecho >", "missing filename after >", "/"))

	r, _ := newRegistry(t, Deps{JournalPath: path})

	res := run(r, "xjournalctl")
	require.Equal(t, 0, res.status, res.stderr)
	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "CMD: xecho one (status: 0)")
	assert.Contains(t, lines[1], "CMD: xcat two (status: 1)")
	assert.Contains(t, lines[2], "ERROR: xecho > - missing filename after >")

	res = run(r, "xjournalctl", "-n", "1")
	assert.Equal(t, 1, strings.Count(res.stdout, "\n"))
	assert.Contains(t, res.stdout, "ERROR:")

	assert.Equal(t, result{0, "journal OK\n", ""}, run(r, "xjournalctl", "--verify"))
}

func TestJournalctlDisabled(t *testing.T) {
	r, _ := newRegistry(t, Deps{})
	assert.Equal(t, result{1, "", "xjournalctl: journal disabled\n"}, run(r, "xjournalctl"))
}

func TestSysinfo(t *testing.T) {
	r, fs := newRegistry(t, Deps{})
	writeFile(t, fs, "/proc/cpuinfo", "processor\t: 0\nmodel name\t: Test CPU @ 1.00GHz\n")
	writeFile(t, fs, "/proc/meminfo", "MemTotal:       16384 kB\nMemFree:         1024 kB\nMemAvailable:    8192 kB\n")
	writeFile(t, fs, "/proc/sys/kernel/osrelease", "6.1.0-test\n")

	want := "========== Xhell System Info ==========\n" +
		"CPU Model : Test CPU @ 1.00GHz\n" +
		"Memory    : 16384 kB\n" +
		"Available : 8192 kB\n" +
		"Kernel    : 6.1.0-test\n" +
		"=======================================\n"
	assert.Equal(t, result{0, want, ""}, run(r, "xsysinfo"))
}

func TestSysinfoMissingProc(t *testing.T) {
	r, _ := newRegistry(t, Deps{ProcDir: "/nowhere"})
	res := run(r, "xsysinfo")
	assert.Equal(t, 0, res.status)
	assert.NotContains(t, res.stdout, "CPU Model")
	assert.Regexp(t, `(?m)^Kernel    : \S+$`, res.stdout)
}

func TestSh(t *testing.T) {
	var ran []string
	exec := func(ctx context.Context, line string) int {
		ran = append(ran, line)
		if strings.HasPrefix(line, "false") {
			return 3
		}
		return 0
	}
	r, fs := newRegistry(t, Deps{Exec: exec})
	writeFile(t, fs, "/ok.x", "# setup\nxecho a\n\n  xls /  \n")
	writeFile(t, fs, "/fail.x", "false\nxecho after\nfalse again\n")

	res := run(r, "xsh", "/ok.x")
	assert.Equal(t, result{0, "+ xecho a\n+ xls /\n", ""}, res)
	assert.Equal(t, []string{"xecho a", "xls /"}, ran)

	ran = nil
	res = run(r, "xsh", "/fail.x")
	assert.Equal(t, 3, res.status)
	assert.Equal(t, []string{"false", "xecho after", "false again"}, ran)

	res = run(r, "xsh", "/missing.x")
	assert.Equal(t, 1, res.status)
	assert.Contains(t, res.stderr, "xsh: /missing.x")

	res = run(r, "xsh")
	assert.Equal(t, 2, res.status)
	assert.Contains(t, res.stderr, "usage: xsh script")
}

func TestShNestingLimit(t *testing.T) {
	var r *cap.Registry
	exec := func(ctx context.Context, line string) int {
		f := strings.Fields(line)
		return r.Run(ctx, f[0], f[1:], strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	}
	r, fs := newRegistry(t, Deps{Exec: exec})
	writeFile(t, fs, "/loop.x", "xsh /loop.x\n")

	res := run(r, "xsh", "/loop.x")
	assert.Equal(t, 1, res.status)
	assert.Equal(t, "+ xsh /loop.x\n", res.stdout)
}

func TestShWithoutExec(t *testing.T) {
	r, fs := newRegistry(t, Deps{})
	writeFile(t, fs, "/a.x", "xecho a\n")
	res := run(r, "xsh", "/a.x")
	assert.Equal(t, 1, res.status)
	assert.Contains(t, res.stderr, "not available")
}

func TestCdAndPwd(t *testing.T) {
	start, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	home, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(start)
	t.Setenv("HOME", home)
	t.Setenv("OLDPWD", "")
	t.Setenv("PWD", start)
	require.NoError(t, os.Mkdir(filepath.Join(start, "sub"), 0755))

	r, _ := newRegistry(t, Deps{})
	assert.Equal(t, result{0, start + "\n", ""}, run(r, "xpwd"))

	assert.Equal(t, result{0, "", ""}, run(r, "xcd", "sub"))
	assert.Equal(t, filepath.Join(start, "sub")+"\n", run(r, "xpwd").stdout)
	assert.Equal(t, start, os.Getenv("OLDPWD"))
	assert.Equal(t, filepath.Join(start, "sub"), os.Getenv("PWD"))

	assert.Equal(t, result{0, start + "\n", ""}, run(r, "xcd", "-"))
	assert.Equal(t, start+"\n", run(r, "xpwd").stdout)

	assert.Equal(t, 0, run(r, "xcd").status)
	assert.Equal(t, home+"\n", run(r, "xpwd").stdout)

	res := run(r, "xcd", "/no/such/dir")
	assert.Equal(t, 1, res.status)
	assert.Equal(t, "xcd: /no/such/dir: no such file or directory\n", res.stderr)
	assert.Equal(t, home+"\n", run(r, "xpwd").stdout)

	assert.Equal(t, 2, run(r, "xcd", "a", "b").status)
	assert.Equal(t, 2, run(r, "xpwd", "extra").status)
}

func TestCdNoPrevious(t *testing.T) {
	t.Setenv("OLDPWD", "")
	r, _ := newRegistry(t, Deps{})
	assert.Equal(t, result{1, "", "xcd: no previous directory\n"}, run(r, "xcd", "-"))
}
