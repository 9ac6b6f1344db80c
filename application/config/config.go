// Package config loads and validates the script host's configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/stela-engine/scripthost/host"
	"github.com/stela-engine/scripthost/hostfuncs"
	"github.com/stela-engine/scripthost/infrastructure/parser"
	wazeroadapter "github.com/stela-engine/scripthost/infrastructure/wazero"
)

// validate is a package-level singleton; validators cache struct metadata.
var validate = validator.New()

// HostConfig is the scripthost configuration file.
type HostConfig struct {
	Module  ModuleConfig  `toml:"module" yaml:"module" json:"module"`
	Logging LoggingConfig `toml:"logging" yaml:"logging" json:"logging"`
	Runtime RuntimeConfig `toml:"runtime" yaml:"runtime" json:"runtime"`
	Loop    LoopConfig    `toml:"loop" yaml:"loop" json:"loop"`
}

// ModuleConfig selects the script module and how it is reloaded.
type ModuleConfig struct {
	Path          string   `toml:"path" yaml:"path" json:"path,omitempty" jsonschema:"description=Path to the script module image (.wasm)"`
	WatchInterval Duration `toml:"watch_interval" yaml:"watch_interval" json:"watch_interval,omitempty" jsonschema:"description=Poll interval or notify debounce"`
	WatchMode     string   `toml:"watch_mode" yaml:"watch_mode" json:"watch_mode,omitempty" validate:"omitempty,oneof=notify poll" jsonschema:"enum=notify,enum=poll"`
	Watch         bool     `toml:"watch" yaml:"watch" json:"watch,omitempty" jsonschema:"description=Reload the module when the file changes"`
}

// RuntimeConfig configures the coordinator and each session's runtime.
type RuntimeConfig struct {
	ModuleName       string   `toml:"module_name" yaml:"module_name" json:"module_name" validate:"required"`
	HostModuleName   string   `toml:"host_module_name" yaml:"host_module_name" json:"host_module_name" validate:"required"`
	CoordinationType string   `toml:"coordination_type" yaml:"coordination_type" json:"coordination_type" validate:"required"`
	ReservedTypes    []string `toml:"reserved_types" yaml:"reserved_types" json:"reserved_types,omitempty" validate:"dive,required"`
	MemoryLimitPages uint32   `toml:"memory_limit_pages" yaml:"memory_limit_pages" json:"memory_limit_pages,omitempty" validate:"lte=65536"`
	MaxMessageSize   uint32   `toml:"max_message_size" yaml:"max_message_size" json:"max_message_size" validate:"gt=0"`
	ReclaimAttempts  int      `toml:"reclaim_attempts" yaml:"reclaim_attempts" json:"reclaim_attempts" validate:"gt=0,lte=1000"`
	WASI             bool     `toml:"wasi" yaml:"wasi" json:"wasi,omitempty"`
}

// LoopConfig configures the headless frame loop.
type LoopConfig struct {
	TickRate int `toml:"tick_rate" yaml:"tick_rate" json:"tick_rate" validate:"gt=0,lte=1000" jsonschema:"description=Frames per second"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" yaml:"format" json:"format" validate:"oneof=console json"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// JSONSchema describes Duration as a string.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		Description: "Go duration, e.g. 250ms",
	}
}

// Default returns the configuration used when no file is given.
func Default() HostConfig {
	return HostConfig{
		Module: ModuleConfig{
			WatchInterval: Duration{250 * time.Millisecond},
			WatchMode:     "notify",
		},
		Runtime: RuntimeConfig{
			ModuleName:       host.DefaultModuleName,
			HostModuleName:   wazeroadapter.DefaultModuleName,
			CoordinationType: host.DefaultCoordinationType,
			ReservedTypes:    []string{"ScriptAPI", "Input"},
			MaxMessageSize:   hostfuncs.DefaultMaxMessageSize,
			ReclaimAttempts:  host.DefaultReclaimAttempts,
			WASI:             true,
		},
		Loop: LoopConfig{
			TickRate: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
// The format is chosen by extension.
func Load(path string) (HostConfig, error) {
	cfg := Default()

	p, err := parser.ForPath(path)
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := p.Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s config %s: %w", p.Format(), path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration against its validation tags.
func (c HostConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Module.Watch && c.Module.WatchInterval.Duration <= 0 {
		return fmt.Errorf("config validation failed: module.watch_interval must be positive when watch is enabled")
	}
	return nil
}

// TickInterval is the frame period of the headless loop.
func (c HostConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Loop.TickRate)
}

// Options converts the runtime section into coordinator options.
func (c HostConfig) Options() []host.Option {
	r := c.Runtime
	return []host.Option{
		host.WithModuleName(r.ModuleName),
		host.WithHostModuleName(r.HostModuleName),
		host.WithCoordinationType(r.CoordinationType),
		host.WithReservedTypes(r.ReservedTypes...),
		host.WithMemoryLimitPages(r.MemoryLimitPages),
		host.WithMaxMessageSize(r.MaxMessageSize),
		host.WithReclaimAttempts(r.ReclaimAttempts),
		host.WithWASI(r.WASI),
	}
}
