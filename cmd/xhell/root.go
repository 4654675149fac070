package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/xhell/xhell/internal/cli"
	"github.com/xhell/xhell/internal/config"
)

func newRootCmd(status *int) *cobra.Command {
	var (
		line    string
		cfgPath string
	)
	root := &cobra.Command{
		Use:   "xhell",
		Short: "A small shell with x-prefixed builtins",
		Long: `xhell reads command lines joined by | with >, >> and 2> redirections,
runs x-prefixed builtins in-process and anything else from PATH.
Without -c it starts an interactive prompt.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Exported so re-executed stage processes load the same file.
			if cfgPath != "" {
				os.Setenv(config.EnvPath, cfgPath)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("command") {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				a.shell.History = nil
				*status = a.shell.Execute(ctx, line)
				return nil
			}

			rl, err := cli.NewReadline(a.reg, a.history.Entries())
			if err != nil {
				return err
			}
			defer rl.Close()
			*status = a.shell.RunREPL(context.Background(), rl, a.color)
			return nil
		},
	}
	root.Flags().StringVarP(&line, "command", "c", "", "run one command line and exit with its status")
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $"+config.EnvPath+" or ~/.config/xhell/config.yaml)")

	root.AddCommand(
		newBuiltinsCmd(status),
		newJournalCmd(status),
		newMCPCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}
