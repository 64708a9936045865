// Package verify provides the command that checks every registered
// identifier against the hub.
package verify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/internal/cmd/output"
	"github.com/agentstation/modelreg/pkg/constants"
	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/verify"
)

// NewCommand creates the verify command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		concurrency int
		strict      bool
		onlyFailed  bool
	)

	cmd := &cobra.Command{
		Use:     "verify",
		GroupID: "hub",
		Short:   "Check that every registered identifier exists on the hub",
		Long: `Verify looks up each registered identifier on the hub and prints a
mark per identifier followed by a summary. Identifiers the hub does not
know are reported as missing; lookups that fail for other reasons are
reported as errors.`,
		Example: `  modelreg verify                   # sequential, one line per identifier
  modelreg verify --concurrency 8   # parallel lookups
  modelreg verify --strict          # non-zero exit when anything is missing
  modelreg verify -o json           # full report as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			if concurrency < 1 || concurrency > constants.MaxConcurrency {
				return errors.NewValidationError("concurrency", concurrency,
					fmt.Sprintf("must be between 1 and %d", constants.MaxConcurrency))
			}

			r, err := app.Registry(cmd.Context())
			if err != nil {
				return err
			}
			catalog, err := app.Catalog()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.VerifyTimeout)
			defer cancel()

			out := cmd.OutOrStdout()
			opts := []verify.Option{
				verify.WithConcurrency(concurrency),
				verify.WithLogger(app.Logger()),
			}
			if format.IsTabular() {
				opts = append(opts, verify.WithObserver(func(res verify.Result) {
					printResult(out, res)
				}))
			}

			report := verify.New(catalog, opts...).Run(ctx, r)

			if format.IsTabular() {
				printSummary(out, report)
				if format == output.FormatWide && !report.OK() {
					if err := output.NewFormatter(format).Format(out, output.ReportData(failedOnly(report))); err != nil {
						return err
					}
				}
			} else {
				shown := report
				if onlyFailed {
					shown = failedOnly(report)
				}
				var data any = shown
				if format == output.FormatMarkdown {
					data = output.ReportData(shown)
				}
				if err := output.NewFormatter(format).Format(out, data); err != nil {
					return err
				}
			}

			if strict && !report.OK() {
				return fmt.Errorf("%w: %d of %d", errors.ErrUnverified, report.Failed(), report.Total())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", app.Settings().Concurrency, "lookups to run at once")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any identifier does not resolve")
	cmd.Flags().BoolVar(&onlyFailed, "failed", false, "only include failing identifiers in structured output")
	return cmd
}

func printResult(w io.Writer, res verify.Result) {
	if res.Error != "" {
		_, _ = fmt.Fprintf(w, "%s %s (%s)\n", output.StatusSymbol(res.Status), res.ID, res.Error)
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", output.StatusSymbol(res.Status), res.ID)
}

func printSummary(w io.Writer, report *verify.Report) {
	_, _ = fmt.Fprintf(w, "\n%d/%d identifiers resolved", report.Passed(), report.Total())
	if !report.OK() {
		_, _ = fmt.Fprintf(w, " (%d missing, %d errors)", report.Missing(), report.Errored())
	}
	_, _ = fmt.Fprintf(w, " in %s\n", report.Finished.Sub(report.Started).Round(time.Millisecond))
}

// failedOnly returns a copy of report holding the results that did not
// pass, in registry order.
func failedOnly(report *verify.Report) *verify.Report {
	out := *report
	out.Results = nil
	for _, res := range report.Results {
		if res.Status != verify.OK {
			out.Results = append(out.Results, res)
		}
	}
	return &out
}
