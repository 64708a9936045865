// Package search provides the command that searches the hub for models.
package search

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/internal/cmd/output"
	"github.com/agentstation/modelreg/pkg/families/deepseek"
	"github.com/agentstation/modelreg/pkg/hub"
)

// NewCommand creates the search command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var author string
	var distill bool

	cmd := &cobra.Command{
		Use:     "search [term]",
		GroupID: "hub",
		Short:   "Search the hub for model repositories",
		Example: `  modelreg search Distill                  # publisher repos matching Distill
  modelreg search --author deepseek-ai R1  # another author
  modelreg search --distill                # DeepSeek-R1 distill versions`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := app.Catalog()
			if err != nil {
				return err
			}
			if author == "" {
				author = app.Settings().Publisher
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			formatter := output.NewFormatter(format)

			if distill {
				versions, err := deepseek.ListDistillVersions(cmd.Context(), catalog, author)
				if err != nil {
					return err
				}
				var data any = versions
				if format.IsTabular() {
					d := output.Data{Title: "DeepSeek-R1 distill versions", Headers: []string{"Version"}}
					for _, v := range versions {
						d.Rows = append(d.Rows, []string{v})
					}
					data = d
				}
				return formatter.Format(cmd.OutOrStdout(), data)
			}

			var term string
			if len(args) == 1 {
				term = args[0]
			}
			models, err := catalog.ListModels(cmd.Context(), author, term)
			if err != nil {
				return err
			}

			var data any = models
			if format.IsTabular() {
				data = summariesData(models)
			}
			return formatter.Format(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "repository owner (default: the publisher)")
	cmd.Flags().BoolVar(&distill, "distill", false, "list DeepSeek-R1 distill versions")
	return cmd
}

func summariesData(models []hub.ModelSummary) output.Data {
	d := output.Data{
		Title:           "Hub models",
		Headers:         []string{"ID", "Downloads", "Likes", "Pipeline"},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight, output.AlignRight, output.AlignLeft},
	}
	for _, m := range models {
		d.Rows = append(d.Rows, []string{m.ID, strconv.Itoa(m.Downloads), strconv.Itoa(m.Likes), m.PipelineTag})
	}
	return d
}
