// Package families provides the command that lists model families.
package families

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/internal/cmd/output"
	fams "github.com/agentstation/modelreg/pkg/families"
)

// NewCommand creates the families command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "families",
		GroupID: "core",
		Short:   "List model families and whether they are registered",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := fams.Resolve(app.Settings().FamiliesFile)
			if err != nil {
				return err
			}

			r, err := app.Registry(cmd.Context())
			if err != nil {
				return err
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			var data any = fams.Summarize(all, r)
			if format.IsTabular() {
				data = output.FamiliesData(all, r)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}
}
