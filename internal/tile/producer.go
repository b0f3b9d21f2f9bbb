package tile

import (
	"fmt"

	"github.com/pozyx/cae-go/internal/ca"
	"github.com/pozyx/cae-go/internal/gpu"
)

// Produce computes a single fresh tile for key, covering world columns
// [tx*S, (tx+1)*S) and generations [ty*S, (ty+1)*S), with enough padding to
// be correct at its column edges over its full generation range —
// spec.md §4.4. Grounded on the tile-computing branch of
// cuda/src/compute.cpp's run_ca_with_cache.
func Produce(dev gpu.Device, key Key, seed ca.Seed, tileSize uint32) (*Tile, error) {
	tx, ty := key.TX, key.TY

	totalGens := uint32(ty+1) * tileSize
	tilePadding := totalGens
	simWidth := tileSize + 2*tilePadding

	initialRow := ca.BuildInitialRow(simWidth, tilePadding, tx*int32(tileSize), seed)

	driver := ca.NewBufferDriver(dev)
	full, err := driver.Run(key.Rule, initialRow, simWidth, totalGens)
	if err != nil {
		return nil, fmt.Errorf("tile.Produce(%d,%d): %w", tx, ty, err)
	}
	defer full.Release()

	tileBuf, err := dev.NewBuffer(simWidth, tileSize)
	if err != nil {
		return nil, fmt.Errorf("tile.Produce(%d,%d): allocating tile buffer: %w", tx, ty, err)
	}
	generationStart := uint32(ty) * tileSize
	if err := dev.CopyRows(full, generationStart, tileBuf, 0, tileSize); err != nil {
		tileBuf.Release()
		return nil, fmt.Errorf("tile.Produce(%d,%d): extracting rows: %w", tx, ty, err)
	}

	return &Tile{Buffer: tileBuf, SimulatedWidth: simWidth, PaddingLeft: tilePadding}, nil
}
