package ca

import (
	"fmt"

	"github.com/pozyx/cae-go/internal/gpu"
)

// Run computes the CA over a viewport without any tile caching — the
// oracle path used for ablation (cache_tiles=0) and for correctness
// cross-checks (spec.md §4.7, §8). Grounded on cuda/src/compute.cpp's
// run_ca.
func Run(dev gpu.Device, rule uint8, startGeneration, iterations, visibleWidth uint32, horizontalOffset int32, seed Seed) (*OutputBuffer, error) {
	totalGenerations := startGeneration + iterations
	padding := totalGenerations
	simulatedWidth := visibleWidth + 2*padding

	initialRow := BuildInitialRow(simulatedWidth, padding, horizontalOffset, seed)

	driver := NewBufferDriver(dev)
	full, err := driver.Run(rule, initialRow, simulatedWidth, totalGenerations)
	if err != nil {
		return nil, fmt.Errorf("ca.Run: %w", err)
	}
	defer full.Release()

	visibleHeight := iterations + 1
	out, err := dev.NewBuffer(simulatedWidth, visibleHeight)
	if err != nil {
		return nil, fmt.Errorf("ca.Run: allocating output: %w", err)
	}
	if err := dev.CopyRows(full, startGeneration, out, 0, visibleHeight); err != nil {
		out.Release()
		return nil, fmt.Errorf("ca.Run: extracting visible rows: %w", err)
	}

	return &OutputBuffer{
		Buffer:         out,
		SimulatedWidth: simulatedWidth,
		VisibleWidth:   visibleWidth,
		Height:         visibleHeight,
		PaddingLeft:    padding,
		SizeBytes:      uint64(simulatedWidth) * uint64(visibleHeight) * 4,
	}, nil
}
