// File: config.go
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"cgrCore/internal/reactor"
)

// Config is the resolved server configuration.
type Config struct {
	Listen      string
	CGRType     string
	ExtraLabels bool
	Templates   []string
	LogLevel    string
	LogFormat   string
	Render      Render
	Reactor     Reactor
}

type Render struct {
	Size int // longer canvas side in pixels
}

// Reactor selects the optional match criteria and search options.
type Reactor struct {
	Stereo    bool
	Hyb       bool
	Neighbors bool
	Isotope   bool
	Element   bool
	Speed     bool
}

// Default returns the configuration used for absent settings.
func Default() Config {
	return Config{
		Listen:    ":28416",
		CGRType:   "0",
		LogLevel:  "info",
		LogFormat: "text",
		Render:    Render{Size: 600},
		Reactor:   Reactor{Element: true},
	}
}

// Policy returns the reactor match policy.
func (c Config) Policy() reactor.Policy {
	return reactor.Policy{
		Stereo:    c.Reactor.Stereo,
		Hyb:       c.Reactor.Hyb,
		Neighbors: c.Reactor.Neighbors,
		Isotope:   c.Reactor.Isotope,
		Element:   c.Reactor.Element,
	}
}

// hclFile is the decoding target; every setting is optional.
type hclFile struct {
	Listen      *string         `hcl:"listen,optional"`
	CGRType     *string         `hcl:"cgr_type,optional"`
	ExtraLabels *bool           `hcl:"extralabels,optional"`
	Templates   []string        `hcl:"templates,optional"`
	LogLevel    *string         `hcl:"log_level,optional"`
	LogFormat   *string         `hcl:"log_format,optional"`
	Render      *hclRenderBlock `hcl:"render,block"`
	Reactor     *hclReactor     `hcl:"reactor,block"`
}

type hclRenderBlock struct {
	Size *int `hcl:"size,optional"`
}

type hclReactor struct {
	Stereo    *bool `hcl:"stereo,optional"`
	Hyb       *bool `hcl:"hyb,optional"`
	Neighbors *bool `hcl:"neighbors,optional"`
	Isotope   *bool `hcl:"isotope,optional"`
	Element   *bool `hcl:"element,optional"`
	Speed     *bool `hcl:"speed,optional"`
}

// Load reads an HCL configuration file. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(src, path)
}

// Parse decodes HCL source. Expressions may read environment variables as
// env.NAME.
func Parse(src []byte, filename string) (Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", filename, diags)
	}

	var raw hclFile
	diags = gohcl.DecodeBody(f.Body, evalContext(), &raw)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode config file %s: %w", filename, diags)
	}

	cfg := Default()
	set(&cfg.Listen, raw.Listen)
	set(&cfg.CGRType, raw.CGRType)
	set(&cfg.ExtraLabels, raw.ExtraLabels)
	set(&cfg.LogLevel, raw.LogLevel)
	set(&cfg.LogFormat, raw.LogFormat)
	if raw.Templates != nil {
		cfg.Templates = raw.Templates
	}
	if r := raw.Render; r != nil {
		set(&cfg.Render.Size, r.Size)
	}
	if r := raw.Reactor; r != nil {
		set(&cfg.Reactor.Stereo, r.Stereo)
		set(&cfg.Reactor.Hyb, r.Hyb)
		set(&cfg.Reactor.Neighbors, r.Neighbors)
		set(&cfg.Reactor.Isotope, r.Isotope)
		set(&cfg.Reactor.Element, r.Element)
		set(&cfg.Reactor.Speed, r.Speed)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks the settings that have a closed set of values.
func (c Config) Validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format %q is not text or json", c.LogFormat)
	}
	if c.Render.Size <= 0 {
		return fmt.Errorf("render size must be positive, got %d", c.Render.Size)
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is empty")
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// evalContext exposes the process environment as the env object.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !hclIdentifier(name) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vars)},
	}
}

func hclIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}
