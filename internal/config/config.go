// Package config is the command-line configuration surface, grounded on
// mad-ca/internal/app.Config (ui/internal/app/flags.go) and cuda/src/config.h's
// defaults/ranges.
package config

import (
	"flag"
	"fmt"

	"github.com/pozyx/cae-go/internal/ca"
)

// Defaults, verbatim from cuda/src/config.h.
const (
	DefaultRule       = 30
	DefaultWidth      = 1280
	DefaultHeight     = 960
	DefaultCacheTiles = 64
	DefaultTileSize   = 256
	DefaultCellSize   = 10
	ZoomMin           = 0.1
	ZoomMax           = 50.0
	DebounceMillis    = 100
	MaxDebounceMillis = 5000
	MinWidthOrHeight  = 500
	MaxWidthOrHeight  = 8192
	MinCacheTiles     = 0
	MaxCacheTiles     = 256
	MinTileSizeCells  = 64
	MaxTileSizeCells  = 1024
)

// Config is the full set of command-line parameters, spec.md §6's table.
type Config struct {
	Rule         uint
	Width        uint
	Height       uint
	CacheTiles   uint
	TileSize     uint
	InitialState string
	DebounceMS   uint
}

// DefaultConfig returns a Config populated with cuda/src/config.h's defaults.
func DefaultConfig() *Config {
	return &Config{
		Rule:       DefaultRule,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		CacheTiles: DefaultCacheTiles,
		TileSize:   DefaultTileSize,
		DebounceMS: DebounceMillis,
	}
}

// Bind attaches the configuration to fs, mirroring
// mad-ca/ui/internal/app.Config.Bind.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.UintVar(&c.Rule, "rule", c.Rule, "elementary CA rule number (0-255)")
	fs.UintVar(&c.Width, "width", c.Width, "window width in pixels")
	fs.UintVar(&c.Height, "height", c.Height, "window height in pixels")
	fs.UintVar(&c.CacheTiles, "cache-tiles", c.CacheTiles, "max tiles held in the LRU cache (0 disables caching)")
	fs.UintVar(&c.TileSize, "tile-size", c.TileSize, "tile side length in cells")
	fs.StringVar(&c.InitialState, "initial-state", c.InitialState, "initial row as a string of 0/1 (empty = single centred cell)")
	fs.UintVar(&c.DebounceMS, "debounce-ms", c.DebounceMS, "milliseconds to wait after a pan/zoom before recomputing")
}

// Seed folds the empty string to ca.NoSeed(), spec.md §9's sum-typed
// optionality boundary between the flat CLI surface and the core.
func (c *Config) Seed() ca.Seed {
	return ca.NewSeed(c.InitialState)
}

// CacheEnabled reports whether the configured cache size permits caching at
// all; cache_tiles=0 routes every request through the direct path instead.
func (c *Config) CacheEnabled() bool {
	return c.CacheTiles > 0
}

// Validate reproduces the range checks cuda/src/main.cpp performs via CLI11
// before starting the renderer. It returns one message per violation; an
// empty slice means cfg is valid.
func (c *Config) Validate() []string {
	var errs []string

	if c.Rule > 255 {
		errs = append(errs, fmt.Sprintf("rule %d out of range [0, 255]", c.Rule))
	}
	if c.Width < MinWidthOrHeight || c.Width > MaxWidthOrHeight {
		errs = append(errs, fmt.Sprintf("width %d out of range [%d, %d]", c.Width, MinWidthOrHeight, MaxWidthOrHeight))
	}
	if c.Height < MinWidthOrHeight || c.Height > MaxWidthOrHeight {
		errs = append(errs, fmt.Sprintf("height %d out of range [%d, %d]", c.Height, MinWidthOrHeight, MaxWidthOrHeight))
	}
	if c.CacheTiles > MaxCacheTiles {
		errs = append(errs, fmt.Sprintf("cache-tiles %d out of range [%d, %d]", c.CacheTiles, MinCacheTiles, MaxCacheTiles))
	}
	if c.TileSize < MinTileSizeCells || c.TileSize > MaxTileSizeCells {
		errs = append(errs, fmt.Sprintf("tile-size %d out of range [%d, %d]", c.TileSize, MinTileSizeCells, MaxTileSizeCells))
	}
	if c.DebounceMS > MaxDebounceMillis {
		errs = append(errs, fmt.Sprintf("debounce-ms %d out of range [0, %d]", c.DebounceMS, MaxDebounceMillis))
	}
	for _, r := range c.InitialState {
		if r != '0' && r != '1' {
			errs = append(errs, fmt.Sprintf("initial-state contains non-binary character %q", r))
			break
		}
	}

	return errs
}
