package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/xhell/xhell/internal/cap"
	"github.com/xhell/xhell/internal/cap/builtin"
	"github.com/xhell/xhell/internal/cli"
	"github.com/xhell/xhell/internal/config"
	"github.com/xhell/xhell/internal/history"
	"github.com/xhell/xhell/internal/journal"
	"github.com/xhell/xhell/internal/pipeline"
)

// app is the shell wired from the configuration.
type app struct {
	cfg        *config.Config
	reg        *cap.Registry
	history    *history.History
	journal    *journal.Logger
	dispatcher *pipeline.Dispatcher
	shell      *cli.Shell
	color      bool
}

// newApp loads the configuration and assembles the shell. History and
// journal failures are reported and the shell runs without them.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &app{
		cfg:   cfg,
		reg:   cap.NewRegistry(),
		color: cfg.UseColor(term.IsTerminal(int(os.Stdout.Fd()))),
	}

	a.history, err = history.Open(cfg.History.Path, cfg.History.Max)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xhell: history: %v\n", err)
		a.history, _ = history.Open("", cfg.History.Max)
	}

	journalPath := cfg.Journal.Path
	if journalPath != "" {
		if a.journal, err = journal.NewLogger(journalPath); err != nil {
			fmt.Fprintf(os.Stderr, "xhell: journal: %v\n", err)
			journalPath = ""
		}
	}

	a.wire(journalPath)
	a.shell.History = a.history
	if a.journal != nil {
		a.shell.Journal = a.journal
	}
	return a, nil
}

// newStageApp assembles what a pipeline stage needs to dispatch one command.
// It never writes the history file or the journal: the shell that launched
// the stage records the line, and sibling stages start concurrently.
func newStageApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &app{
		cfg:   cfg,
		reg:   cap.NewRegistry(),
		color: cfg.UseColor(term.IsTerminal(int(os.Stdout.Fd()))),
	}
	if a.history, err = history.Load(cfg.History.Path, cfg.History.Max); err != nil {
		a.history, _ = history.Load("", cfg.History.Max)
	}
	a.wire(cfg.Journal.Path)
	return a, nil
}

// wire builds the dispatcher and shell and registers the builtins.
func (a *app) wire(journalPath string) {
	a.dispatcher = pipeline.NewDispatcher(a.reg)
	a.shell = cli.NewShell(pipeline.NewExecutor(a.dispatcher))

	builtin.RegisterAll(a.reg, builtin.Deps{
		History:     a.history,
		JournalPath: journalPath,
		Exec:        a.shell.Execute,
		Color:       a.color,
	})
	a.cfg.ApplyTiers(a.reg)
	a.cfg.ApplyRules(a.reg)
}
