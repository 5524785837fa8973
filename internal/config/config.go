// Package config provides configuration types and defaults for argnoun.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/argnoun/internal/argument"
	"github.com/zjrosen/argnoun/internal/buffer"
	"github.com/zjrosen/argnoun/internal/log"
	"github.com/zjrosen/argnoun/internal/tracing"
)

// MaxByteRadius is the largest accepted window.byte_radius.
const MaxByteRadius = 1 << 20

// Config holds all configuration options for argnoun.
type Config struct {
	Window   WindowConfig   `mapstructure:"window"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Tracing  tracing.Config `mapstructure:"tracing"`
	UI       UIConfig       `mapstructure:"ui"`
}

// WindowConfig bounds the text examined around each cursor.
type WindowConfig struct {
	Multiline  bool `mapstructure:"multiline"`   // Scan neighbouring lines, not just the cursor line
	LineRadius int  `mapstructure:"line_radius"` // Lines before and after the cursor line
	ByteRadius int  `mapstructure:"byte_radius"` // Hard cap in bytes on each side of the cursor
}

// ResolverConfig tunes argument boundary resolution.
type ResolverConfig struct {
	// ReservedWords are operator keywords that tail repair never treats as
	// the end of an unclosed call.
	ReservedWords []string `mapstructure:"reserved_words"`
}

// UIConfig holds playground options.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"show_status_bar"`
	WatchFile     bool `mapstructure:"watch_file"` // Reload the file when it changes on disk
}

// Options converts the window section for buffer.ExtractWindow.
func (w WindowConfig) Options() buffer.WindowOptions {
	return buffer.WindowOptions{
		Multiline:  w.Multiline,
		LineRadius: w.LineRadius,
		ByteRadius: w.ByteRadius,
	}
}

// DefaultTracesFilePath returns ~/.config/argnoun/traces/traces.jsonl, or an
// empty string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "argnoun", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		Window: WindowConfig{
			Multiline:  true,
			LineRadius: buffer.DefaultLineRadius,
			ByteRadius: buffer.DefaultByteRadius,
		},
		Resolver: ResolverConfig{
			ReservedWords: append([]string(nil), argument.DefaultReservedWords...),
		},
		Tracing: tc,
		UI: UIConfig{
			ShowStatusBar: true,
			WatchFile:     true,
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := ValidateWindow(c.Window); err != nil {
		return err
	}
	if err := ValidateResolver(c.Resolver); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateWindow checks window radii.
func ValidateWindow(w WindowConfig) error {
	if w.LineRadius < 0 {
		return fmt.Errorf("window.line_radius must not be negative, got %d", w.LineRadius)
	}
	if w.ByteRadius < 1 || w.ByteRadius > MaxByteRadius {
		return fmt.Errorf("window.byte_radius must be between 1 and %d, got %d", MaxByteRadius, w.ByteRadius)
	}
	return nil
}

// ValidateResolver rejects reserved words that could never match an
// identifier.
func ValidateResolver(r ResolverConfig) error {
	for i, w := range r.ReservedWords {
		if w == "" {
			return fmt.Errorf("resolver.reserved_words[%d] is empty", i)
		}
		for _, ch := range w {
			if !(ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z') {
				return fmt.Errorf("resolver.reserved_words[%d] %q is not an identifier", i, w)
			}
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	switch tc.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterStdout, tracing.ExporterFile, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"stdout\", \"file\", or \"otlp\", got %q", tc.Exporter)
	}

	// Path requirements only matter once tracing is on.
	if tc.Enabled && tc.Exporter == tracing.ExporterFile && tc.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# argnoun configuration

# Text examined around each cursor when resolving an argument
window:
  multiline: true      # Scan neighbouring lines so calls can span lines
  line_radius: 10      # Lines before and after the cursor line
  byte_radius: 4000    # Hard cap in bytes on each side of the cursor

# Argument resolution
resolver:
  # Operator keywords never treated as the end of an unclosed call.
  # Replace with your language's word operators.
  reserved_words: [mod, div, and, or, xor, not, if, unless, else, const]

# Playground settings
ui:
  show_status_bar: true  # Show mode, position and register at the bottom
  watch_file: true       # Reload the file when it changes on disk

# OpenTelemetry tracing around argument expansion
tracing:
  enabled: false
  exporter: stdout      # "none", "stdout" (stderr), "file", or "otlp"
  # file_path: ~/.config/argnoun/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  sample_rate: 1.0
  # service_name: argnoun
  #
  # Example: Send traces to Jaeger via OTLP
  # tracing:
  #   enabled: true
  #   exporter: otlp
  #   otlp_endpoint: jaeger.internal:4317
  #   sample_rate: 0.1
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
