package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhell/xhell/internal/cap"
	"github.com/xhell/xhell/internal/cap/builtin"
	"github.com/xhell/xhell/internal/journal"
)

func registry() *cap.Registry {
	reg := cap.NewRegistry()
	builtin.RegisterAll(reg, builtin.Deps{})
	return reg
}

func TestRunList(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 0, RunList(registry(), &out, "dangerous"))
	assert.Equal(t, "xrm          dangerous  remove file or directory (-r)\n", out.String())

	out.Reset()
	assert.Equal(t, 0, RunList(registry(), &out, ""))
	assert.Equal(t, 18, strings.Count(out.String(), "\n"))

	out.Reset()
	assert.Equal(t, 1, RunList(registry(), &out, "build"))
	assert.Contains(t, out.String(), "unknown tier")
}

func TestRunDescribe(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 0, RunDescribe(registry(), &out, "xcp"))
	assert.Equal(t, "xcp - copy file or directory (-r)\nusage: xcp [-r] src dst\ntier: write\n", out.String())

	out.Reset()
	assert.Equal(t, 0, RunDescribe(registry(), &out, "xpwd"))
	assert.Contains(t, out.String(), "usage: xpwd\n")

	out.Reset()
	assert.Equal(t, 1, RunDescribe(registry(), &out, "ls"))
	assert.Contains(t, out.String(), `unknown builtin: "ls"`)
}

func TestRunJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal")
	l, err := journal.NewLogger(path)
	require.NoError(t, err)

	var out bytes.Buffer
	assert.Equal(t, 0, RunJournal(&out, path, 0, false, false))
	assert.Equal(t, "no journal entries\n", out.String())

	require.NoError(t, l.LogCommand("xecho a", []string{"xecho"}, 0, time.Millisecond, "/"))
	require.NoError(t, l.LogCommand("xecho b", []string{"xecho"}, 0, time.Millisecond, "/"))

	out.Reset()
	assert.Equal(t, 0, RunJournal(&out, path, 1, false, false))
	assert.Contains(t, out.String(), "CMD: xecho b (status: 0)")
	assert.NotContains(t, out.String(), "xecho a")

	out.Reset()
	assert.Equal(t, 0, RunJournal(&out, path, 0, false, true))
	assert.Contains(t, out.String(), `"line": "xecho a"`)

	out.Reset()
	assert.Equal(t, 0, RunJournal(&out, path, 0, true, false))
	assert.Equal(t, "journal integrity verified\n", out.String())

	out.Reset()
	assert.Equal(t, 1, RunJournal(&out, "", 0, false, false))
	assert.Equal(t, 1, RunJournal(&out, filepath.Join(t.TempDir(), "missing"), 0, false, false))
}
