package display

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/kitchen-display/internal/alarm"
	"github.com/oshokin/kitchen-display/internal/api/grpc/health"
	"github.com/oshokin/kitchen-display/internal/board"
	"github.com/oshokin/kitchen-display/internal/clock"
	"github.com/oshokin/kitchen-display/internal/config"
	"github.com/oshokin/kitchen-display/internal/eventloop"
	"github.com/oshokin/kitchen-display/internal/feed"
	"github.com/oshokin/kitchen-display/internal/logger"
	"github.com/oshokin/kitchen-display/internal/metrics"
	"github.com/oshokin/kitchen-display/internal/render"
	"github.com/oshokin/kitchen-display/internal/service/instance"
	"github.com/oshokin/kitchen-display/internal/tone"
	"github.com/oshokin/kitchen-display/internal/version"
)

// shutdownTimeout bounds the metrics server shutdown.
const shutdownTimeout = 5 * time.Second

// Options controls the display process; non-empty fields override the configuration file.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// OrdersSource overrides the delivery feed location.
	OrdersSource string
	// ManualOrdersSource overrides the manual feed location.
	ManualOrdersSource string
	// ToneOutput overrides the tone output list.
	ToneOutput string
	// LogLevel overrides the log level.
	LogLevel string
	// MetricsAddress overrides the Prometheus listen address.
	MetricsAddress string
	// HealthAddress overrides the gRPC health listen address.
	HealthAddress string
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
	// NoClear appends frames instead of redrawing the screen.
	NoClear bool
}

// Renderer draws board snapshots.
type Renderer interface {
	Render(views []board.View) error
}

// display holds the wired components of one board.
type display struct {
	ctx      context.Context //nolint:containedctx // Used by tick callbacks for logging.
	clock    *clock.Clock
	alarms   *alarm.Manager
	board    *board.Board
	poller   *poller
	renderer Renderer
}

// Run starts the board and blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyOverrides(cfg, opts)

	if err = config.Validate(cfg); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	// The board owns stdout.
	if err = logger.Configure(cfg.LogLevel, os.Stderr); err != nil {
		return err
	}

	ctx = logger.WithName(ctx, version.Name)

	if !opts.AllowMultiple {
		if err = instance.NewGuard().Ensure(); err != nil {
			return err
		}
	}

	output, err := tone.Parse(ctx, cfg.ToneOutput, os.Stdout)
	if err != nil {
		return fmt.Errorf("tone output: %w", err)
	}

	var (
		registry = prometheus.NewRegistry()
		m        = metrics.MustNewMetrics(registry)
		loop     = eventloop.New()
		orders   = feed.New(
			feed.NewSource(cfg.OrdersSource, nil),
			feed.NewSource(cfg.ManualOrdersSource, nil),
		)
		renderer = render.NewTerminal(os.Stdout, !opts.NoClear)
	)

	d := newDisplay(ctx, loop, cfg, output, orders, renderer, m)

	logger.InfoKV(ctx, "Kitchen display starting",
		"version", version.Short(),
		"tick_period", cfg.TickPeriod.String(),
		"refresh_interval", cfg.RefreshInterval.String(),
		"orders_source", cfg.OrdersSource,
		"manual_orders_source", cfg.ManualOrdersSource,
		"tone_output", cfg.ToneOutput,
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return loop.Run(groupCtx)
	})

	if cfg.MetricsAddress != "" {
		group.Go(func() error {
			return serveMetrics(groupCtx, cfg.MetricsAddress, metrics.Handler(registry))
		})
	}

	if cfg.HealthAddress != "" {
		group.Go(func() error {
			return health.NewServer().Serve(groupCtx, cfg.HealthAddress)
		})
	}

	d.start()

	if err = group.Wait(); err != nil {
		return err
	}

	logger.Info(ctx, "Kitchen display stopped")

	return nil
}

// newDisplay wires the components on loop without starting them.
func newDisplay(
	ctx context.Context,
	loop eventloop.Scheduler,
	cfg *config.Config,
	output alarm.ToneOutput,
	fetcher Fetcher,
	renderer Renderer,
	m *metrics.Metrics,
) *display {
	var (
		clk     = clock.New(loop, cfg.TickPeriod)
		manager = alarm.NewManager(alarm.NewScheduler(loop, output, cfg.Alarm, m), m)
		b       = board.New(ctx, clk, manager, m)
	)

	d := &display{
		ctx:      ctx,
		clock:    clk,
		alarms:   manager,
		board:    b,
		renderer: renderer,
		poller: &poller{
			ctx:      logger.WithName(ctx, "feed"),
			loop:     loop,
			fetcher:  fetcher,
			board:    b,
			interval: cfg.RefreshInterval,
			timeout:  cfg.FetchTimeout,
			metrics:  m,
		},
	}

	// Registered after the board, so every frame shows this tick's countdowns.
	clk.OnTick(d.render)
	clk.OnTick(m.ObserveTick)

	return d
}

// start begins ticking and polling.
func (d *display) start() {
	d.clock.Start()
	d.poller.start()
}

// render draws the current board.
func (d *display) render() {
	if d.renderer == nil {
		return
	}

	if err := d.renderer.Render(d.board.Snapshot()); err != nil {
		logger.WarnKV(d.ctx, "Failed to render board", "error", err)
	}
}

// applyOverrides copies non-empty command line options into cfg.
func applyOverrides(cfg *config.Config, opts *Options) {
	overrides := []struct {
		value  string
		target *string
	}{
		{opts.OrdersSource, &cfg.OrdersSource},
		{opts.ManualOrdersSource, &cfg.ManualOrdersSource},
		{opts.ToneOutput, &cfg.ToneOutput},
		{opts.LogLevel, &cfg.LogLevel},
		{opts.MetricsAddress, &cfg.MetricsAddress},
		{opts.HealthAddress, &cfg.HealthAddress},
	}

	for _, override := range overrides {
		if override.value != "" {
			*override.target = override.value
		}
	}
}

// serveMetrics serves the Prometheus endpoint until ctx is canceled.
func serveMetrics(ctx context.Context, address string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	logger.InfoKV(ctx, "Metrics server listening", "listen_address", address)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	return nil
}
