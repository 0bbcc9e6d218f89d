package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds state shared by every subcommand
type app struct {
	verbose bool
	logger  *zap.Logger
}

// NewRootCmd builds the chartlabels command tree
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "chartlabels",
		Short: "Compute, render and lint the standard labels of a chart",
		Long: `chartlabels computes the recommended Kubernetes labels a chart stamps on its
resources (helm.sh/chart, app.kubernetes.io/*), renders chart templates with
the label helpers built in, and lints rendered manifests for label drift.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newLabelsCmd(a),
		newNameCmd(a),
		newChartCmd(a),
		newTemplateCmd(a),
		newLintCmd(a),
	)

	return rootCmd
}

// Execute executes the root CLI command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes human-readable logs to stderr; debug only when verbose
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
