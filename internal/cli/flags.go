package cli

import (
	"chartlabels/internal/chart"
	"chartlabels/internal/labels"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// chartFlags are the inputs shared by commands that evaluate a chart
type chartFlags struct {
	valuesFiles []string
	setValues   []string
	release     string
	namespace   string
	service     string
	strict      bool
}

// registerValues adds -f and --set
func (f *chartFlags) registerValues(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.valuesFiles, "values", "f", nil, "Values file to merge over the chart defaults (repeatable)")
	cmd.Flags().StringArrayVar(&f.setValues, "set", nil, "Set a value, e.g. --set nameOverride=api (repeatable)")
}

// registerRelease adds --service, plus --release and --namespace on request
func (f *chartFlags) registerRelease(cmd *cobra.Command, withName, withNamespace bool) {
	cmd.Flags().StringVar(&f.service, "service", labels.DefaultService, "Release service used for the managed-by label")
	if withName {
		cmd.Flags().StringVar(&f.release, "release", chart.LintReleaseName, "Release name")
	}
	if withNamespace {
		cmd.Flags().StringVarP(&f.namespace, "namespace", "n", "default", "Release namespace")
	}
}

// registerStrict adds --strict for commands that render templates
func (f *chartFlags) registerStrict(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Fail on references to missing values")
}

func (f *chartFlags) labelRelease(name string) labels.Release {
	if name == "" {
		name = f.release
	}
	return labels.Release{
		Name:      name,
		Namespace: f.namespace,
		Service:   f.service,
	}
}

// load reads the chart and resolves its values from the flags
func (f *chartFlags) load(logger *zap.Logger, path string) (*chart.Chart, map[string]interface{}, error) {
	c, err := chart.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded chart",
		zap.String("path", path),
		zap.String("name", c.Metadata.Name),
		zap.String("version", c.Metadata.Version))

	values, err := c.ResolveValues(f.valuesFiles, f.setValues)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("resolved values",
		zap.Int("files", len(f.valuesFiles)),
		zap.Int("assignments", len(f.setValues)))

	return c, values, nil
}

// context is the render context the flags describe
func (f *chartFlags) context(c *chart.Chart, values map[string]interface{}, release string) *chart.Context {
	return &chart.Context{
		Values:  values,
		Chart:   c.Metadata,
		Release: f.labelRelease(release),
	}
}
