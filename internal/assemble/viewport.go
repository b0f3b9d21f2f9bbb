// Package assemble decomposes a viewport over (cell-column x generation)
// space into tiles, and stitches their fragments into a single output
// buffer — spec.md §4.6.
package assemble

// Viewport is a floating-point anchor in world (column, generation)
// coordinates plus a zoom factor, mirroring cuda/src/render.cpp's
// RenderApp::viewport_. Quantize does not read Zoom; it takes the on-screen
// pixel size of one cell as a separate argument.
type Viewport struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64
}

// Limits bounds how large a quantised viewport may be before Quantize
// refuses it, per spec.md §7's oversize guard. Grounded on the
// MAX_CELLS_X/MAX_CELLS_Y/MAX_TOTAL_CELLS/MIN_CELL_SIZE constants in
// cuda/src/config.h.
type Limits struct {
	MaxCellsX     uint32
	MaxCellsY     uint32
	MaxTotalCells uint64
	MinCellSize   float64
}

// DefaultLimits reproduces cuda/src/config.h's constants verbatim.
func DefaultLimits() Limits {
	return Limits{
		MaxCellsX:     5000,
		MaxCellsY:     5000,
		MaxTotalCells: 10_000_000,
		MinCellSize:   2,
	}
}

// Box is the quantised integer viewport handed to RunWithCache/ca.Run:
// world columns [VX0, VX1) and generations [VY0, VY1).
type Box struct {
	VX0, VX1 int64
	VY0, VY1 int64
}

// Quantize turns the floating viewport plus the visible pixel dimensions
// into an integer Box, exactly as RenderApp::computeCA does: visible cell
// counts are the ceiling of pixels/cellSize, offset_y is clamped to be
// non-negative (generation 0 is the floor of the world), and the request is
// rejected if it would be too large to compute. Grounded on
// cuda/src/render.cpp's computeCA.
func (v Viewport) Quantize(pixelWidth, pixelHeight uint32, cellSize float64, limits Limits) (Box, bool) {
	if cellSize < limits.MinCellSize {
		return Box{}, false
	}

	visibleCellsX := ceilDiv(pixelWidth, cellSize)
	visibleCellsY := ceilDiv(pixelHeight, cellSize)

	if visibleCellsX > limits.MaxCellsX || visibleCellsY > limits.MaxCellsY {
		return Box{}, false
	}
	// The x3 factor mirrors computeCA's own headroom estimate (it budgets
	// for the simulated buffer's horizontal padding, not just the visible
	// width).
	totalCells := uint64(visibleCellsX) * 3 * uint64(visibleCellsY)
	if totalCells > limits.MaxTotalCells {
		return Box{}, false
	}

	clampedOffsetY := v.OffsetY
	if clampedOffsetY < 0 {
		clampedOffsetY = 0
	}

	vx0 := int64(v.OffsetX)
	vy0 := int64(clampedOffsetY)

	return Box{
		VX0: vx0,
		VX1: vx0 + int64(visibleCellsX),
		VY0: vy0,
		VY1: vy0 + int64(visibleCellsY),
	}, true
}

func ceilDiv(pixels uint32, cellSize float64) uint32 {
	cells := float64(pixels) / cellSize
	whole := uint32(cells)
	if float64(whole) < cells {
		whole++
	}
	return whole
}

// divEuclid is Euclidean (floor) division: the quotient always rounds
// toward negative infinity, so negative world columns map to the correct
// tile regardless of sign — spec.md §4.6.
func divEuclid(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a%b < 0) != (b < 0) {
		q--
	}
	return q
}

// TileRange returns the inclusive tile-coordinate range [tx0,tx1] x
// [ty0,ty1] that covers box under a tile side of tileSize.
func TileRange(box Box, tileSize uint32) (tx0, tx1, ty0, ty1 int64) {
	s := int64(tileSize)
	tx0 = divEuclid(box.VX0, s)
	tx1 = divEuclid(box.VX1-1, s)
	ty0 = divEuclid(box.VY0, s)
	ty1 = divEuclid(box.VY1-1, s)
	return
}
