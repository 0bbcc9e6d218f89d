package cli

import (
	"fmt"
	"strings"

	"chartlabels/internal/chart"
	"chartlabels/internal/labels"

	"github.com/spf13/cobra"
)

func newLabelsCmd(a *app) *cobra.Command {
	var flags chartFlags
	var selectorOnly bool
	var extra []string

	cmd := &cobra.Command{
		Use:   "labels <path-to-chart>",
		Short: "Print the common labels of a release (use --selector for the selector subset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, values, err := flags.load(a.logger, args[0])
			if err != nil {
				return err
			}

			ctx := flags.context(c, values, "")
			list := ctx.CommonLabels()
			if selectorOnly {
				list = ctx.SelectorLabels()
			}

			for _, assignment := range extra {
				key, value, ok := strings.Cut(assignment, "=")
				if !ok {
					return fmt.Errorf("invalid label %q: expected key=value", assignment)
				}
				list = labels.Merge(list, labels.Label{Key: key, Value: value})
			}
			if len(extra) > 0 {
				if err := labels.Validate(list); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), list.String())
			return nil
		},
	}

	flags.registerValues(cmd)
	flags.registerRelease(cmd, true, false)
	cmd.Flags().BoolVar(&selectorOnly, "selector", false, "Print only the selector labels")
	cmd.Flags().StringArrayVar(&extra, "add", nil, "Add or override a label, e.g. --add team=core (repeatable)")

	return cmd
}

func newNameCmd(a *app) *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "name <path-to-chart>",
		Short: "Print the resolved application name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, values, err := flags.load(a.logger, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), labels.Name(c.Metadata.LabelChart(), chart.LabelValues(values)))
			return nil
		},
	}

	flags.registerValues(cmd)

	return cmd
}

func newChartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart <path-to-chart>",
		Short: "Print the chart identifier used by the helm.sh/chart label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := chart.Load(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), labels.ChartID(c.Metadata.LabelChart()))
			return nil
		},
	}

	return cmd
}
