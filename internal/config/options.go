package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Listing colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Options controls a generation run.
type Options struct {
	// Trace logs every emitted instruction and every resolved member to stderr.
	Trace bool `yaml:"trace,omitempty"`

	// ListingColor selects whether instruction listings are coloured:
	// "auto" (only on terminals), "always" or "never". Defaults to "auto".
	ListingColor string `yaml:"listing_color,omitempty"`

	// MaxStack is the deepest operand stack (in slots) a method may reach.
	MaxStack int `yaml:"max_stack,omitempty"`

	// MaxLocals is the largest local slot table a method may allocate.
	MaxLocals int `yaml:"max_locals,omitempty"`
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() *Options {
	o := &Options{}
	o.setDefaults()
	return o
}

// LoadOptions reads and parses an options file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options %s: %w", path, err)
	}
	return ParseOptions(data, path)
}

// ParseOptions parses options content from bytes.
// The path argument is used only for error messages.
func ParseOptions(data []byte, path string) (*Options, error) {
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	opts.setDefaults()
	if err := opts.validate(path); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (o *Options) setDefaults() {
	if o.ListingColor == "" {
		o.ListingColor = ColorAuto
	}
	if o.MaxStack == 0 {
		o.MaxStack = DefaultMaxStack
	}
	if o.MaxLocals == 0 {
		o.MaxLocals = DefaultMaxLocals
	}
}

func (o *Options) validate(path string) error {
	switch o.ListingColor {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: listing_color must be one of auto, always, never (got %q)", path, o.ListingColor)
	}
	if o.MaxStack < 0 || o.MaxStack > DefaultMaxStack {
		return fmt.Errorf("%s: max_stack must be between 1 and %d (got %d)", path, DefaultMaxStack, o.MaxStack)
	}
	if o.MaxLocals < 0 || o.MaxLocals > DefaultMaxLocals {
		return fmt.Errorf("%s: max_locals must be between 1 and %d (got %d)", path, DefaultMaxLocals, o.MaxLocals)
	}
	return nil
}
