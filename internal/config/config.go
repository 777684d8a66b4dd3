// Package config holds the FlameCrafter configuration record (spec.md §3)
// and its functional-option builders.
package config

import "github.com/theSprog/FlameCrafter/internal/errs"

// Config mirrors spec.md §3's Configuration record.
type Config struct {
	Title    string
	Subtitle string
	Notes    string

	Width       int
	FrameHeight int
	XPad        int
	FontType    string
	FontSize    int
	FontWidth   float64

	Colors       string
	BGColor1     string
	BGColor2     string
	SearchColor  string
	NameType     string
	CountName    string

	Reverse  bool
	Inverted bool

	MinWidth         float64
	MaxDepth         int
	MinHeatThreshold float64

	Interactive      bool
	WriteFoldedFile  bool
	MinCountThreshold uint64
}

// Option mutates a Config during construction.
type Option func(*Config)

// Default returns the baseline configuration used when no options override
// it: a title of "Flame Graph" and the classic flamegraph.pl dimensions.
func Default() Config {
	return Config{
		Title:       "Flame Graph",
		Width:       1200,
		FrameHeight: 16,
		XPad:        10,
		FontType:    "Verdana",
		FontSize:    12,
		FontWidth:   0.59,
		Colors:      "hot",
		BGColor1:    "#eeeeee",
		BGColor2:    "#eeeeb0",
		SearchColor: "#e600e6",
		NameType:    "Function:",
		CountName:   "samples",
		MinWidth:    0.1,
		Interactive: true,
	}
}

// New builds a Config from Default() plus any supplied options.
func New(opts ...Option) Config {
	c := Default()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithTitle(title string) Option       { return func(c *Config) { c.Title = title } }
func WithSubtitle(subtitle string) Option { return func(c *Config) { c.Subtitle = subtitle } }
func WithNotes(notes string) Option       { return func(c *Config) { c.Notes = notes } }
func WithWidth(w int) Option              { return func(c *Config) { c.Width = w } }
func WithFrameHeight(h int) Option        { return func(c *Config) { c.FrameHeight = h } }
func WithXPad(p int) Option               { return func(c *Config) { c.XPad = p } }
func WithFont(fontType string, size int, width float64) Option {
	return func(c *Config) { c.FontType = fontType; c.FontSize = size; c.FontWidth = width }
}
func WithColors(tag string) Option     { return func(c *Config) { c.Colors = tag } }
func WithReverse(v bool) Option        { return func(c *Config) { c.Reverse = v } }
func WithInverted(v bool) Option       { return func(c *Config) { c.Inverted = v } }
func WithMinWidth(v float64) Option    { return func(c *Config) { c.MinWidth = v } }
func WithMaxDepth(v int) Option        { return func(c *Config) { c.MaxDepth = v } }
func WithMinHeatThreshold(v float64) Option {
	return func(c *Config) { c.MinHeatThreshold = v }
}
func WithInteractive(v bool) Option       { return func(c *Config) { c.Interactive = v } }
func WithWriteFoldedFile(v bool) Option   { return func(c *Config) { c.WriteFoldedFile = v } }
func WithMinCountThreshold(v uint64) Option {
	return func(c *Config) { c.MinCountThreshold = v }
}

// Validate rejects non-positive dimensions or out-of-range font ratios, per
// spec.md §3.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return errs.New(errs.ConfigInvalid, "width must be > 0, got %d", c.Width)
	}
	if c.FrameHeight <= 0 {
		return errs.New(errs.ConfigInvalid, "frame_height must be > 0, got %d", c.FrameHeight)
	}
	if c.XPad < 0 {
		return errs.New(errs.ConfigInvalid, "xpad must be >= 0, got %d", c.XPad)
	}
	if c.FontSize <= 0 {
		return errs.New(errs.ConfigInvalid, "font_size must be > 0, got %d", c.FontSize)
	}
	if c.FontWidth <= 0 || c.FontWidth > 1 {
		return errs.New(errs.ConfigInvalid, "font_width must satisfy 0 < v <= 1, got %v", c.FontWidth)
	}
	if c.MinWidth < 0 {
		return errs.New(errs.ConfigInvalid, "min_width must be >= 0, got %v", c.MinWidth)
	}
	if c.MaxDepth < 0 {
		return errs.New(errs.ConfigInvalid, "max_depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.MinHeatThreshold < 0 || c.MinHeatThreshold > 1 {
		return errs.New(errs.ConfigInvalid, "min_heat_threshold must be within [0,1], got %v", c.MinHeatThreshold)
	}
	return nil
}
