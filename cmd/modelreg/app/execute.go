package app

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelreg/pkg/errors"
)

// Execute runs the modelreg CLI application with the given arguments.
// A --config flag is honored before the command tree is built so that flag
// defaults reflect the chosen file.
func (a *App) Execute(ctx context.Context, args []string) error {
	if path := configFlag(args); path != "" {
		config, err := LoadConfig(path)
		if err != nil {
			return errors.WrapResource("load", "config", path, err)
		}
		a.config = config
		a.setLogger(NewLogger(config))
	}

	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "modelreg",
		Short:   "Model identifier registry",
		Version: a.version,
		Long: `modelreg expands model family metadata into every published
variant identifier (size, quantization, instruct tag) and checks each
identifier against the Hugging Face Hub.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "hub", Title: "Hub Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", a.config.ConfigFile, "config file (default is $HOME/.modelreg.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, wide, json, yaml, markdown")
	flags.StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringVar(&a.config.HubURL, "hub-url", a.config.HubURL, "Hugging Face Hub endpoint")
	flags.StringVar(&a.config.Publisher, "publisher", a.config.Publisher, "org quantized variants are published under")
	flags.BoolVar(&a.config.IncludeOriginal, "include-original", a.config.IncludeOriginal, "also register the upstream unquantized models")
	flags.StringVar(&a.config.FamiliesFile, "families-file", a.config.FamiliesFile, "extra model families (yaml, toml or json)")

	rootCmd.SetVersionTemplate("modelreg {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	if err := a.config.Validate(); err != nil {
		return err
	}
	a.setLogger(NewLogger(a.config))
	return nil
}

// configFlag returns the value of --config in args, if any.
func configFlag(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
