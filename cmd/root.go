package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/argnoun/internal/argument"
	"github.com/zjrosen/argnoun/internal/buffer"
	"github.com/zjrosen/argnoun/internal/config"
	"github.com/zjrosen/argnoun/internal/expand"
	"github.com/zjrosen/argnoun/internal/log"
	"github.com/zjrosen/argnoun/internal/tracing"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 response does not race the playground's input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config directory.
const localConfigPath = ".argnoun/config.yaml"

// skipConfigCheck marks commands that must run even when the config is invalid.
const skipConfigCheck = "skip-config-check"

var (
	version    = "dev"
	cfgFile    string
	debugFlag  bool
	logFile    string
	logLevel   string
	cfg        = config.Defaults()
	cfgErr     error
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "argnoun",
	Short: "Argument text objects for any language",
	Long: `argnoun finds the function-call argument under a cursor in source text of any
language and expands the cursor to cover it, with or without its separator.

Use "expand" to print argument ranges, "edit" to apply editor keys such as daa
or cia to a file, and "playground" to try them interactively.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .argnoun/config.yaml or ~/.config/argnoun/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also enabled by ARGNOUN_DEBUG)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"debug log path (default: $ARGNOUN_LOG or debug.log)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "debug",
		"minimum debug log level: debug, info, warn, or error")
}

func initConfig() {
	cfg, cfgErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig reads configuration into v and decodes it over the defaults.
// Lookup order: path, .argnoun/config.yaml, ~/.config/argnoun/config.yaml.
// A missing file is not an error; ARGNOUN_* environment variables override
// file values (ARGNOUN_WINDOW_LINE_RADIUS for window.line_radius).
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v, config.Defaults())
	v.SetEnvPrefix("ARGNOUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "argnoun"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Defaults(), fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "no config file, using defaults")
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Defaults(), fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid configuration in %s: %w", configSource(v), err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("window.multiline", d.Window.Multiline)
	v.SetDefault("window.line_radius", d.Window.LineRadius)
	v.SetDefault("window.byte_radius", d.Window.ByteRadius)
	v.SetDefault("resolver.reserved_words", d.Resolver.ReservedWords)
	v.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("ui.watch_file", d.UI.WatchFile)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

func configSource(v *viper.Viper) string {
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	return "defaults"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setup starts debug logging and surfaces config errors.
func setup(cmd *cobra.Command, _ []string) error {
	if os.Getenv("ARGNOUN_DEBUG") != "" || debugFlag {
		path := logFile
		if path == "" {
			path = os.Getenv("ARGNOUN_LOG")
		}
		if path == "" {
			path = "debug.log"
		}

		cleanup, err := log.InitWithTeaLog(path, "argnoun")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		log.SetMinLevel(log.ParseLevel(logLevel))
		log.Info(log.CatConfig, "argnoun starting",
			"command", cmd.Name(), "version", version, "config", configSource(viper.GetViper()))
	}

	if cmd.Annotations[skipConfigCheck] == "" && cfgErr != nil {
		return cfgErr
	}
	return nil
}

func teardown(*cobra.Command, []string) {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

// newExpander builds the expander described by c together with its tracing
// provider. Callers shut the provider down with shutdownTracing.
func newExpander(c config.Config) (*expand.Expander, *tracing.Provider, error) {
	provider, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	e := expand.New(
		expand.WithResolver(argument.New(argument.WithReservedWords(c.Resolver.ReservedWords))),
		expand.WithWindow(c.Window.Options()),
		expand.WithTracer(provider.Tracer()),
	)
	return e, provider, nil
}

func shutdownTracing(p *tracing.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
	}
}

// readInput reads path, or standard input when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user's input file
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// cursorOffsets converts --at positions and --offset values to byte offsets,
// in that order.
func cursorOffsets(content string, at []string, offsets []int) ([]int, error) {
	if len(at) == 0 && len(offsets) == 0 {
		return nil, errors.New("at least one --at or --offset is required")
	}

	pts := make([]int, 0, len(at)+len(offsets))
	for _, s := range at {
		pos, err := buffer.ParsePosition(s)
		if err != nil {
			return nil, err
		}
		off, err := buffer.OffsetOf(content, pos)
		if err != nil {
			return nil, fmt.Errorf("--at %s: %w", s, err)
		}
		pts = append(pts, off)
	}
	for _, off := range offsets {
		if off < 0 || off > len(content) {
			return nil, fmt.Errorf("--offset %d: %w (input is %d bytes)", off, buffer.ErrOutOfRange, len(content))
		}
		pts = append(pts, off)
	}
	return pts, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
