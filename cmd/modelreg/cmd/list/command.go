// Package list provides the command that lists registered model identifiers.
package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/internal/cmd/output"
	"github.com/agentstation/modelreg/pkg/registry"
)

// NewCommand creates the list command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var q registry.Query

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "core",
		Short:   "List registered model identifiers",
		Example: `  modelreg list                         # every registered identifier
  modelreg list --family deepseek-r1    # one naming family
  modelreg list --quant gguf -o json    # GGUF uploads as JSON
  modelreg list --org deepseek-ai       # upstream originals`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := app.Registry(cmd.Context())
			if err != nil {
				return err
			}
			models, err := q.Select(r)
			if err != nil {
				return err
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			var data any = models
			if format.IsTabular() {
				data = output.ModelsData(models, format == output.FormatWide)
			}

			app.Logger().Debug().Int("count", len(models)).Msg("Listing models")
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVar(&q.Family, "family", "", "registered family name (see modelreg families)")
	cmd.Flags().StringVar(&q.Strategy, "strategy", "", "naming strategy (deepseek-v3, deepseek-r1)")
	cmd.Flags().StringVar(&q.Org, "org", "", "only identifiers under this org")
	cmd.Flags().StringVar(&q.Quant, "quant", "", "quantization: none, bnb, unsloth, gguf, bf16")
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "identifier substring, glob (unsloth/*-GGUF) or regex")
	cmd.Flags().BoolVar(&q.OriginalOnly, "original", false, "only upstream originals")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "maximum number of results (0 for all)")
	return cmd
}
