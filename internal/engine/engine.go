// Package engine is the public facade over the compute-and-cache core:
// the two entry points spec.md §6 names, run and run_with_cache.
package engine

import (
	"fmt"

	"github.com/pozyx/cae-go/internal/assemble"
	"github.com/pozyx/cae-go/internal/ca"
	"github.com/pozyx/cae-go/internal/gpu"
	"github.com/pozyx/cae-go/internal/tile"
)

// Params bundles the parameter list spec.md §6 names for run/run_with_cache.
type Params struct {
	Rule             uint8
	StartGeneration  uint32
	Iterations       uint32
	VisibleWidth     uint32
	HorizontalOffset int32
	Seed             ca.Seed
}

// Run computes p's viewport with no tile caching — the oracle path used for
// ablation and cache_tiles=0, grounded on cuda/src/compute.cpp's run_ca.
func Run(dev gpu.Device, p Params) (*ca.OutputBuffer, error) {
	out, err := ca.Run(dev, p.Rule, p.StartGeneration, p.Iterations, p.VisibleWidth, p.HorizontalOffset, p.Seed)
	if err != nil {
		return nil, fmt.Errorf("engine.Run: %w", err)
	}
	return out, nil
}

// RunWithCache computes p's viewport through cache, realising any tiles it
// is missing, grounded on cuda/src/compute.cpp's run_ca_with_cache.
func RunWithCache(dev gpu.Device, p Params, cache *tile.Cache) (*ca.OutputBuffer, error) {
	out, err := assemble.RunWithCache(dev, p.Rule, p.StartGeneration, p.Iterations, p.VisibleWidth, p.HorizontalOffset, p.Seed, cache)
	if err != nil {
		return nil, fmt.Errorf("engine.RunWithCache: %w", err)
	}
	return out, nil
}
