package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xhell/xhell/internal/cli"
	"github.com/xhell/xhell/internal/config"
	"github.com/xhell/xhell/internal/mcpserver"
)

func newBuiltinsCmd(status *int) *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "builtins [name]",
		Short: "List the builtins, or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				*status = cli.RunDescribe(a.reg, cmd.OutOrStdout(), args[0])
				return nil
			}
			*status = cli.RunList(a.reg, cmd.OutOrStdout(), tier)
			return nil
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "", "only builtins of this tier (read, write, dangerous)")
	return cmd
}

func newJournalCmd(status *int) *cobra.Command {
	var (
		n      int
		verify bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show or verify the command journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			*status = cli.RunJournal(cmd.OutOrStdout(), cfg.Journal.Path, n, verify, asJSON)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 20, "number of entries to show, 0 for all")
	cmd.Flags().BoolVar(&verify, "verify", false, "check the journal's hash chain")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the run_command tool over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			srv := &mcpserver.Server{
				Registry:    a.reg,
				JournalPath: a.cfg.Journal.Path,
				Version:     version,
			}
			return srv.Serve()
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), config.Path())
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := config.Path()
				if err := config.WriteDefault(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			},
		},
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "xhell %s\n", version)
		},
	}
}
