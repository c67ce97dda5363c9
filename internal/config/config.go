// Package config loads engine configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"typemirror/internal/trace"
)

// FileName is the configuration file looked up by Find.
const FileName = "typemirror.toml"

// ErrInvalid marks configuration values outside their allowed range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the engine configuration.
type Config struct {
	Equality Equality `toml:"equality"`
	Closure  Closure  `toml:"closure"`
	Trace    Trace    `toml:"trace"`
}

// Equality configures type equality.
type Equality struct {
	// Annotations makes type annotations significant for Equal and Hash.
	Annotations bool `toml:"annotations"`
}

// Closure configures closure computation.
type Closure struct {
	CacheSize     int  `toml:"cache_size"`
	DedupTypeVars bool `toml:"dedup_type_vars"`
}

// Trace configures the tracer.
type Trace struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Closure: Closure{CacheSize: 4096},
		Trace: Trace{
			Level:    "off",
			Mode:     "ring",
			Output:   "-",
			RingSize: 4096,
		},
	}
}

// Load reads a TOML configuration file. Keys absent from the file keep
// their Default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := finish(&cfg, meta); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration from TOML text.
func Parse(data string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := finish(&cfg, meta); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func finish(cfg *Config, meta toml.MetaData) error {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if meta.IsDefined("trace", "output") && strings.TrimSpace(cfg.Trace.Output) == "" {
		cfg.Trace.Output = "-"
	}
	return cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Closure.CacheSize <= 0 {
		return fmt.Errorf("%w: closure.cache_size must be positive, got %d", ErrInvalid, c.Closure.CacheSize)
	}
	if c.Trace.RingSize <= 0 {
		return fmt.Errorf("%w: trace.ring_size must be positive, got %d", ErrInvalid, c.Trace.RingSize)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("%w: trace.level: %v", ErrInvalid, err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("%w: trace.mode: %v", ErrInvalid, err)
	}
	return nil
}

// TraceConfig converts the [trace] table into a tracer configuration.
func (c Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, fmt.Errorf("%w: trace.level: %v", ErrInvalid, err)
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, fmt.Errorf("%w: trace.mode: %v", ErrInvalid, err)
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}, nil
}
