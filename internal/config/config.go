package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/rview/internal/errors"
)

const (
	// ConfigName is the base name of the configuration file looked up in
	// the working directory.
	ConfigName = "rview"

	// ConfigFileName is the file name searched for when no path is given.
	ConfigFileName = ConfigName + ".yaml"

	// EnvPrefix prefixes environment overrides, e.g. RVIEW_LOG_LEVEL.
	EnvPrefix = "RVIEW"

	// DefaultLogLevel is the default slog level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log handler.
	DefaultLogFormat = "text"

	// DefaultTitle is the page title used by render --page.
	DefaultTitle = "rview"

	// DefaultExample is the example rendered when none is named.
	DefaultExample = "counter"

	// DefaultMetricsNamespace prefixes every metric name.
	DefaultMetricsNamespace = "rview"

	// DefaultAddr is the serve command's listen address.
	DefaultAddr = "localhost:8080"

	// DefaultSyncInterval is how often live sessions look for changes.
	DefaultSyncInterval = 50 * time.Millisecond

	// DefaultRegion is the S3 region used by render --out s3://...
	DefaultRegion = "us-east-1"
)

// Config is the rview CLI configuration.
type Config struct {
	// Log controls the process logger.
	Log LogConfig `mapstructure:"log"`

	// Render controls the render and hydrate-check commands.
	Render RenderConfig `mapstructure:"render"`

	// Metrics controls the Prometheus collectors.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Serve controls the example server.
	Serve ServeConfig `mapstructure:"serve"`

	// Publish configures uploads to S3-compatible storage.
	Publish PublishConfig `mapstructure:"publish"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Example string `mapstructure:"example"`
	Title   string `mapstructure:"title"`
	Pretty  bool   `mapstructure:"pretty"`
	Page    bool   `mapstructure:"page"`
}

// MetricsConfig enables metric collection. When Dump is set, the gathered
// metrics are written to stderr after a command finishes.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Dump      bool   `mapstructure:"dump"`
}

// ServeConfig configures the example server.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`

	// SyncInterval is how often a live session compares the document with
	// what the browser was last sent.
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

// PublishConfig configures the S3 client.
type PublishConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// New returns a configuration with defaults applied.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Render.Example == "" {
		c.Render.Example = DefaultExample
	}
	if c.Render.Title == "" {
		c.Render.Title = DefaultTitle
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.SyncInterval == 0 {
		c.Serve.SyncInterval = DefaultSyncInterval
	}
	if c.Publish.Region == "" {
		c.Publish.Region = DefaultRegion
	}
}

// NewViper returns a viper instance with rview's defaults, environment
// binding and file lookup configured. Nothing is read yet.
func NewViper() *viper.Viper {
	vp := viper.New()
	vp.SetConfigName(ConfigName)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(".")
	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	d := New()
	vp.SetDefault("log.level", d.Log.Level)
	vp.SetDefault("log.format", d.Log.Format)
	vp.SetDefault("render.example", d.Render.Example)
	vp.SetDefault("render.title", d.Render.Title)
	vp.SetDefault("render.pretty", d.Render.Pretty)
	vp.SetDefault("render.page", d.Render.Page)
	vp.SetDefault("metrics.enabled", d.Metrics.Enabled)
	vp.SetDefault("metrics.namespace", d.Metrics.Namespace)
	vp.SetDefault("metrics.dump", d.Metrics.Dump)
	vp.SetDefault("serve.addr", d.Serve.Addr)
	vp.SetDefault("serve.sync_interval", d.Serve.SyncInterval)
	vp.SetDefault("publish.region", d.Publish.Region)
	vp.SetDefault("publish.endpoint", d.Publish.Endpoint)
	return vp
}

// BindFlags binds each named flag to its configuration key. Keys map to
// flag names, e.g. {"render.pretty": "pretty"}. Flags missing from fs are
// skipped.
func BindFlags(vp *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := vp.BindPFlag(key, f); err != nil {
			return errors.New("E060").
				WithDetail(fmt.Sprintf("Cannot bind flag --%s to %s.", name, key)).
				Wrap(err)
		}
	}
	return nil
}

// Load reads the configuration file at path into vp and returns the merged
// configuration. An empty path searches the working directory for
// rview.yaml; a missing file there is not an error.
func Load(vp *viper.Viper, path string) (*Config, error) {
	if path != "" {
		vp.SetConfigFile(path)
	}
	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.New("E060").
				WithDetail(fmt.Sprintf("Cannot read %s.", describePath(path))).
				WithSuggestion("Check that the file exists and is valid YAML.").
				Wrap(err)
		}
	}
	return Decode(vp)
}

// Decode unmarshals vp into a Config and validates it.
func Decode(vp *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := vp.Unmarshal(cfg); err != nil {
		return nil, errors.New("E060").
			WithDetail("The configuration does not match the expected shape.").
			Wrap(err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func describePath(path string) string {
	if path == "" {
		return ConfigFileName
	}
	return path
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("E060").
			WithPath("log", "format").
			WithDetail(fmt.Sprintf("Unknown log format %q.", c.Log.Format)).
			WithSuggestion("Use \"text\" or \"json\".")
	}
	if c.Serve.SyncInterval < 0 {
		return errors.New("E060").
			WithPath("serve", "sync_interval").
			WithDetail(fmt.Sprintf("The sync interval %s is negative.", c.Serve.SyncInterval))
	}
	if strings.ContainsAny(c.Metrics.Namespace, " -.") {
		return errors.New("E060").
			WithPath("metrics", "namespace").
			WithDetail(fmt.Sprintf("%q is not a valid metric namespace.", c.Metrics.Namespace)).
			WithSuggestion("Use letters, digits and underscores only.")
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.New("E060").
		WithPath("log", "level").
		WithDetail(fmt.Sprintf("Unknown log level %q.", s)).
		WithSuggestion("Use debug, info, warn or error.")
}

// Level returns the configured slog level. Validate must have passed.
func (c *Config) Level() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
