package cli

import (
	"chartlabels/internal/chart"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTemplateCmd(a *app) *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "template <release> <path-to-chart>",
		Short: "Render chart templates with the label helpers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, path := args[0], args[1]

			c, values, err := flags.load(a.logger, path)
			if err != nil {
				return err
			}

			manifests, err := c.Render(chart.RenderOptions{
				Release: flags.labelRelease(release),
				Values:  values,
				Strict:  flags.strict,
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}
			a.logger.Debug("rendered chart", zap.String("chart", c.Metadata.Name), zap.Int("manifests", len(manifests)))

			chart.WriteManifests(cmd.OutOrStdout(), manifests)
			return nil
		},
	}

	flags.registerValues(cmd)
	flags.registerRelease(cmd, false, true)
	flags.registerStrict(cmd)

	return cmd
}
