package assemble

import (
	"fmt"

	"github.com/pozyx/cae-go/internal/ca"
	"github.com/pozyx/cae-go/internal/gpu"
	"github.com/pozyx/cae-go/internal/tile"
)

// RunWithCache implements spec.md §4.6's three-phase viewport assembly —
// grounded on cuda/src/compute.cpp's run_ca_with_cache:
//
//  1. Realise every tile the viewport needs, in row-major order, producing
//     and inserting whatever the cache is missing.
//  2. Allocate the output buffer and blit each tile's intersection with the
//     viewport into it. A tile that a cache smaller than the viewport's
//     tile set evicted during phase 1 is produced again just before its
//     blit.
//  3. Synchronise once with the device.
//
// Like ca.Run, the output holds iterations+1 rows: generations vy0 through
// vy1 inclusive, where vy1 = startGeneration+iterations.
//
// The output buffer's padding equals the total generation count vy1 even
// though only the central visibleWidth columns are ever written — spec.md
// §9's documented renderer-compatibility convention, preserved here.
func RunWithCache(dev gpu.Device, rule uint8, startGeneration, iterations, visibleWidth uint32, horizontalOffset int32, seed ca.Seed, cache *tile.Cache) (*ca.OutputBuffer, error) {
	tileSize := cache.TileSize()

	box := Box{
		VX0: int64(horizontalOffset),
		VX1: int64(horizontalOffset) + int64(visibleWidth),
		VY0: int64(startGeneration),
		VY1: int64(startGeneration) + int64(iterations),
	}
	// genEnd is the exclusive end of the generations the output holds.
	genEnd := box.VY1 + 1
	tileBox := box
	tileBox.VY1 = genEnd
	tx0, tx1, ty0, ty1 := TileRange(tileBox, tileSize)

	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			key := tile.NewKey(rule, seed, int32(tx), int32(ty))
			if _, ok := cache.Get(key); ok {
				continue
			}
			t, err := tile.Produce(dev, key, seed, tileSize)
			if err != nil {
				return nil, fmt.Errorf("assemble.RunWithCache: %w", err)
			}
			cache.Insert(key, t)
		}
	}

	paddingOut := uint32(box.VY1)
	simulatedWidthOut := visibleWidth + 2*paddingOut
	height := iterations + 1

	out, err := dev.NewBuffer(simulatedWidthOut, height)
	if err != nil {
		return nil, fmt.Errorf("assemble.RunWithCache: allocating output: %w", err)
	}

	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			key := tile.NewKey(rule, seed, int32(tx), int32(ty))
			t, ok := cache.Get(key)
			if !ok {
				t, err = tile.Produce(dev, key, seed, tileSize)
				if err != nil {
					out.Release()
					return nil, fmt.Errorf("assemble.RunWithCache: %w", err)
				}
				cache.Insert(key, t)
			}

			tileWorldX0 := tx * int64(tileSize)
			tileWorldX1 := tileWorldX0 + int64(tileSize)
			tileGenY0 := ty * int64(tileSize)
			tileGenY1 := tileGenY0 + int64(tileSize)

			cx0 := max64(box.VX0, tileWorldX0)
			cx1 := min64(box.VX1, tileWorldX1)
			cy0 := max64(box.VY0, tileGenY0)
			cy1 := min64(genEnd, tileGenY1)
			if cx1 <= cx0 || cy1 <= cy0 {
				continue
			}

			width := uint32(cx1 - cx0)
			srcCol := uint32(cx0-tileWorldX0) + t.PaddingLeft
			dstCol := uint32(cx0-box.VX0) + paddingOut

			for g := cy0; g < cy1; g++ {
				srcRow := uint32(g - tileGenY0)
				dstRow := uint32(g - box.VY0)
				if err := dev.CopySlice(t.Buffer, srcRow, srcCol, out, dstRow, dstCol, width); err != nil {
					out.Release()
					return nil, fmt.Errorf("assemble.RunWithCache: blitting tile (%d,%d): %w", tx, ty, err)
				}
			}
		}
	}

	if err := dev.Sync(); err != nil {
		out.Release()
		return nil, fmt.Errorf("assemble.RunWithCache: %w", err)
	}

	return &ca.OutputBuffer{
		Buffer:         out,
		SimulatedWidth: simulatedWidthOut,
		VisibleWidth:   visibleWidth,
		Height:         height,
		PaddingLeft:    paddingOut,
		SizeBytes:      uint64(simulatedWidthOut) * uint64(height) * 4,
	}, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
