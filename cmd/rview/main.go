package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vango-dev/rview/internal/config"
	"github.com/vango-dev/rview/internal/errors"
	"github.com/vango-dev/rview/pkg/ssr"
	"github.com/vango-dev/rview/pkg/telemetry"
	"github.com/vango-dev/rview/pkg/view"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// persistentKeys maps configuration keys to root flags.
var persistentKeys = map[string]string{
	"log.level":       "log-level",
	"log.format":      "log-format",
	"metrics.enabled": "metrics",
	"metrics.dump":    "metrics",
}

// app is the state shared by every command. It is filled in by setup.
type app struct {
	vp         *viper.Viper
	configPath string

	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{vp: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "rview",
		Short: "Render and hydrate reactive views",
		Long: `rview builds declarative views whose attributes, text and children
are driven by streams.

It renders the bundled examples to HTML on the server backend, checks that
the markup hydrates on the document backend, serves them with live updates
and publishes rendered pages to S3.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.finish,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./"+config.ConfigFileName+")")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	flags.Bool("metrics", false, "collect metrics and print them after the command")

	rootCmd.AddCommand(
		a.renderCmd(),
		a.serveCmd(),
		a.hydrateCheckCmd(),
		examplesCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger, metrics and tracer.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	keys := make(map[string]string, len(persistentKeys))
	for k, v := range persistentKeys {
		keys[k] = v
	}
	for k, v := range commandKeys[cmd.Name()] {
		keys[k] = v
	}
	if err := config.BindFlags(a.vp, cmd.Flags(), keys); err != nil {
		return err
	}

	cfg, err := config.Load(a.vp, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Logger(cmd.ErrOrStderr())
	slog.SetDefault(a.logger)
	a.tracer = telemetry.NewTracer(telemetry.DefaultTracerName)

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.metrics = telemetry.NewMetrics(
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(a.registry),
		)
	}
	a.logger.Debug("config loaded",
		"file", a.vp.ConfigFileUsed(),
		"level", cfg.Log.Level,
		"metrics", cfg.Metrics.Enabled)
	return nil
}

// finish writes the gathered metrics when asked to.
func (a *app) finish(cmd *cobra.Command, _ []string) {
	if a.registry == nil || !a.cfg.Metrics.Dump {
		return
	}
	if err := dumpMetrics(cmd.ErrOrStderr(), a.registry); err != nil {
		warn(cmd.ErrOrStderr(), "cannot write metrics: %v", err)
	}
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// viewOptions returns the engine options for the loaded configuration.
func (a *app) viewOptions() []view.Option {
	opts := []view.Option{view.WithLogger(a.logger), view.WithTracer(a.tracer)}
	if a.metrics != nil {
		opts = append(opts, view.WithMetrics(a.metrics))
	}
	return opts
}

func (a *app) ssrOptions(pretty bool) []ssr.Option {
	return []ssr.Option{
		ssr.WithPretty(pretty),
		ssr.WithTracer(a.tracer),
		ssr.WithViewOptions(a.viewOptions()...),
	}
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
