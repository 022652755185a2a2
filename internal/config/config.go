// Package config provides configuration types, defaults, and
// persistence for sidediff.
package config

import (
	"github.com/zjrosen/sidediff/internal/tracing"
)

// Config holds all configuration options for sidediff.
type Config struct {
	// Context is the number of unchanged lines kept around changes in
	// each hunk.
	Context int `mapstructure:"context" yaml:"context"`

	// TabWidth is the number of spaces a tab expands to before layout.
	TabWidth int `mapstructure:"tab_width" yaml:"tab_width"`

	// Display selects the layout: "side-by-side" (default) or
	// "side-by-side-show-both".
	Display string `mapstructure:"display" yaml:"display"`

	// SyntaxHighlight toggles syntax coloring of unchanged code.
	SyntaxHighlight bool `mapstructure:"syntax_highlight" yaml:"syntax_highlight"`

	// Width overrides the detected terminal width when positive.
	Width int `mapstructure:"width" yaml:"width"`

	Theme   ThemeConfig    `mapstructure:"theme" yaml:"theme"`
	Watch   WatchConfig    `mapstructure:"watch" yaml:"watch"`
	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing"`
}

// ThemeConfig holds color-related options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal
	// detection. Valid values: "light", "dark", "".
	Mode string `mapstructure:"mode" yaml:"mode"`

	// Color controls coloring: "auto" (default), "always", "never".
	Color string `mapstructure:"color" yaml:"color"`
}

// WatchConfig holds watch-mode options.
type WatchConfig struct {
	// DebounceMs is the quiet period after a file change before the
	// comparison is re-rendered, in milliseconds.
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Context:         3,
		TabWidth:        8,
		Display:         "side-by-side",
		SyntaxHighlight: true,
		Width:           0,
		Theme: ThemeConfig{
			Mode:  "",
			Color: "auto",
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
		Tracing: tracing.DefaultConfig(),
	}
}
