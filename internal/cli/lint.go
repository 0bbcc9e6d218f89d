package cli

import (
	"fmt"

	"chartlabels/internal/chart"

	"github.com/spf13/cobra"
)

func newLintCmd(a *app) *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "lint <path-to-chart>",
		Short: "Render the chart and check every resource carries the expected labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := chart.LintChart(chart.LintOptions{
				ChartPath:   args[0],
				ValuesFiles: flags.valuesFiles,
				SetValues:   flags.setValues,
				Render: chart.RenderOptions{
					Release: flags.labelRelease(""),
					Strict:  flags.strict,
					Logger:  a.logger,
				},
			})
			if err != nil {
				return err
			}

			chart.WriteLintResult(cmd.OutOrStdout(), result)
			if !result.OK() {
				return fmt.Errorf("lint failed: %d label issues", len(result.Issues))
			}
			return nil
		},
	}

	flags.registerValues(cmd)
	flags.registerRelease(cmd, true, true)
	flags.registerStrict(cmd)

	return cmd
}
