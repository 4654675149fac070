package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/xhell/xhell/internal/cap"
)

const (
	welcomeBanner = "######### Welcome to Xhell! #############"
	quitBanner    = "######### Quiting Xhell #############"
)

// LineReader is the line editor the read loop pulls from.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// NewReadline returns a line editor completing builtin names and, after the
// first word, file names. Earlier lines are preloaded into its history.
func NewReadline(reg *cap.Registry, earlier []string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "$ ",
		AutoComplete:    newCompleter(reg),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, err
	}
	for _, line := range earlier {
		_ = rl.SaveHistory(line)
	}
	return rl, nil
}

func newCompleter(reg *cap.Registry) readline.AutoCompleter {
	var items []readline.PrefixCompleterInterface
	for _, c := range reg.All() {
		items = append(items, readline.PcItem(c.Name(), readline.PcItemDynamic(listFiles)))
	}
	return readline.NewPrefixCompleter(items...)
}

// listFiles offers the entries of the directory named by the last word.
func listFiles(line string) []string {
	fields := strings.Fields(line)
	dir := "."
	if len(fields) > 1 && !strings.HasSuffix(line, " ") {
		dir = filepath.Dir(fields[len(fields)-1])
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := filepath.Join(dir, e.Name())
		if dir == "." {
			name = e.Name()
		}
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunREPL reads and runs lines until end of input or until a builtin asks to
// quit. An interrupt at the prompt discards the line. An interrupt while a
// line runs cancels the context builtins see; external programs receive the
// terminal's signal themselves.
func (s *Shell) RunREPL(ctx context.Context, rl LineReader, useColor bool) int {
	ctx, quitting := cap.WithQuit(ctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	fmt.Fprintln(s.Stdout, welcomeBanner)
	defer fmt.Fprintln(s.Stdout, quitBanner)

	for !quitting() {
		rl.SetPrompt(prompt(useColor))
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err == io.EOF {
			return 0
		}
		if err != nil {
			fmt.Fprintf(s.Stderr, "xhell: %v\n", err)
			return 1
		}
		drain(sigs)

		lineCtx, done := cancelOnSignal(ctx, sigs)
		s.RunLine(lineCtx, line)
		done()
	}
	return 0
}

func prompt(useColor bool) string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "?"
	}
	name := color.New(color.FgGreen, color.Bold)
	dir := color.New(color.FgBlue, color.Bold)
	if useColor {
		name.EnableColor()
		dir.EnableColor()
	} else {
		name.DisableColor()
		dir.DisableColor()
	}
	return name.Sprint("xhell") + ":" + dir.Sprint(cwd) + "$ "
}

func drain(sigs <-chan os.Signal) {
	for {
		select {
		case <-sigs:
		default:
			return
		}
	}
}

// cancelOnSignal returns a context cancelled when a signal arrives on sigs,
// and a function that stops watching and releases it.
func cancelOnSignal(ctx context.Context, sigs <-chan os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stop := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		select {
		case <-sigs:
			cancel()
		case <-stop:
		}
	}()
	return ctx, func() {
		close(stop)
		<-finished
		cancel()
	}
}
