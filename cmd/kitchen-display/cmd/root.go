package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/kitchen-display/internal/config"
	"github.com/oshokin/kitchen-display/internal/service/display"
	"github.com/oshokin/kitchen-display/internal/version"
)

var (
	// options collects flag values for the display.
	options = new(display.Options)

	// rootCmd represents the base command for running the kitchen display.
	rootCmd = &cobra.Command{
		Use:   "kitchen-display [orders-source]",
		Short: "Show order countdowns and sound alarms when they run out.",
		Long: `Starts the kitchen display board.

Orders are read from the delivery and manual feeds every refresh interval.
Each source may be a local JSON file or an http(s) URL.
Every accepted order counts down to its ready time; when the countdown reaches
zero an audible alarm plays, escalating in pitch while other alarms are running.
The orders source can be provided as argument to override config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if len(args) > 0 {
				options.OrdersSource = args[0]
			}

			return display.Run(ctx, options)
		},
	}
)

// Execute runs the kitchen-display CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&options.ConfigPath, "config", "c", "",
		"path to configuration file (default "+config.DefaultConfigFilename+" if present)")
	flags.StringVarP(&options.ManualOrdersSource, "manual-orders", "m", "", "manual orders file or URL")
	flags.StringVarP(&options.ToneOutput, "tone", "t", "", "comma-separated tone outputs: log, bell, speaker")
	flags.StringVarP(&options.LogLevel, "log-level", "l", "", "log level: debug, info, warn, error")
	flags.StringVar(&options.MetricsAddress, "metrics-address", "", "Prometheus listen address, e.g. :9108")
	flags.StringVar(&options.HealthAddress, "health-address", "", "gRPC health listen address, e.g. :9109")
	flags.BoolVar(&options.AllowMultiple, "allow-multiple", false, "skip the single-instance check")
	flags.BoolVar(&options.NoClear, "no-clear", false, "append frames instead of redrawing the screen")
}
