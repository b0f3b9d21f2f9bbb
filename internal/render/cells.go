package render

import (
	"fmt"

	"github.com/pozyx/cae-go/internal/ca"
	"github.com/pozyx/cae-go/internal/gpu"
)

// VisibleCells reads out's visible window off the device into a flat
// row-major byte slice of length VisibleWidth*Height, ready for
// fillBinaryRGBA/GridPainter.Blit.
func VisibleCells(dev gpu.Device, out *ca.OutputBuffer) ([]uint8, error) {
	cells := make([]uint8, uint64(out.VisibleWidth)*uint64(out.Height))
	for g := uint32(0); g < out.Height; g++ {
		row, err := dev.ReadRow(out.Buffer, g)
		if err != nil {
			return nil, fmt.Errorf("render.VisibleCells: reading row %d: %w", g, err)
		}
		visible := row[out.PaddingLeft : out.PaddingLeft+out.VisibleWidth]
		dst := cells[uint64(g)*uint64(out.VisibleWidth):]
		for x, v := range visible {
			dst[x] = uint8(v)
		}
	}
	return cells, nil
}
