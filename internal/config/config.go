// Package config loads the simdfix command configuration from defaults, an
// optional YAML file, SIMDFIX_* environment variables and command flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/nnnkkk7/go-simdfix"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SIMDFIX"

// Output formats accepted by the file command.
const (
	OutputText   = "text"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
	OutputStats  = "stats"
)

// Config is the effective configuration of a simdfix run.
type Config struct {
	Delimiter    string        `mapstructure:"delimiter" yaml:"delimiter"`
	Strategy     string        `mapstructure:"strategy" yaml:"strategy"`
	Workers      int           `mapstructure:"workers" yaml:"workers"`
	MaxInputSize int64         `mapstructure:"max_input_size" yaml:"max_input_size"`
	Output       string        `mapstructure:"output" yaml:"output"`
	Log          LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics      MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Trace        TraceConfig   `mapstructure:"trace" yaml:"trace"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// TraceConfig toggles span export to stderr.
type TraceConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Delimiter:    "|",
		Strategy:     "auto",
		Workers:      0,
		MaxInputSize: simdfix.DefaultMaxInputSize,
		Output:       OutputText,
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// NewViper returns a viper instance carrying the defaults and reading
// SIMDFIX_* variables, with nested keys joined by '_' (SIMDFIX_LOG_LEVEL).
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("max_input_size", d.MaxInputSize)
	v.SetDefault("output", d.Output)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("trace.enabled", d.Trace.Enabled)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional YAML file at path into v and returns the merged,
// validated configuration.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if d, err := c.DelimiterByte(); err != nil {
		errs = append(errs, err)
	} else if d == simdfix.KeyValueSeparator || d == '\n' || d == '\r' {
		errs = append(errs, fmt.Errorf("delimiter %q collides with the message syntax", d))
	}
	if _, err := c.ParserStrategy(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, fmt.Errorf("max_input_size must be positive, got %d", c.MaxInputSize))
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputNDJSON, OutputStats:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Output))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		errs = append(errs, fmt.Errorf("log.encoding must be json or console, got %q", c.Log.Encoding))
	}

	return errors.Join(errs...)
}

// DelimiterByte decodes the delimiter setting. It accepts a single
// character, "SOH", an escape such as `\x01` or `\t`, or a hex literal
// such as 0x01.
func (c Config) DelimiterByte() (byte, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter decodes a delimiter spelling; see Config.DelimiterByte.
func ParseDelimiter(s string) (byte, error) {
	switch {
	case len(s) == 1:
		return s[0], nil
	case strings.EqualFold(s, "soh"):
		return simdfix.SOH, nil
	case s == `\t`:
		return '\t', nil
	case strings.HasPrefix(s, `\x`), strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid delimiter %q: %w", s, err)
		}
		return byte(v), nil
	}
	return 0, fmt.Errorf("invalid delimiter %q: want one byte, SOH, or a hex escape", s)
}

// ParserStrategy decodes the strategy setting.
func (c Config) ParserStrategy() (simdfix.Strategy, error) {
	return simdfix.ParseStrategy(c.Strategy)
}

// ParserOptions returns the simdfix options matching c. Call Validate first.
func (c Config) ParserOptions() []simdfix.Option {
	d, _ := c.DelimiterByte()
	s, _ := c.ParserStrategy()
	return []simdfix.Option{simdfix.WithDelimiter(d), simdfix.WithStrategy(s)}
}

// Dump writes c as YAML.
func (c Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
