package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelreg/cmd/modelreg/cmd/export"
	"github.com/agentstation/modelreg/cmd/modelreg/cmd/families"
	"github.com/agentstation/modelreg/cmd/modelreg/cmd/list"
	"github.com/agentstation/modelreg/cmd/modelreg/cmd/search"
	"github.com/agentstation/modelreg/cmd/modelreg/cmd/serve"
	"github.com/agentstation/modelreg/cmd/modelreg/cmd/verify"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(families.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))
	rootCmd.AddCommand(verify.NewCommand(a))
	rootCmd.AddCommand(search.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("modelreg %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
