package assemble

import "testing"

func TestQuantizeBasic(t *testing.T) {
	v := Viewport{OffsetX: -5, OffsetY: 3, Zoom: 10}
	box, ok := v.Quantize(100, 50, 10, DefaultLimits())
	if !ok {
		t.Fatalf("expected Quantize to accept a small viewport")
	}
	if box.VX0 != -5 || box.VX1 != 5 {
		t.Fatalf("unexpected x range: %+v", box)
	}
	if box.VY0 != 3 || box.VY1 != 8 {
		t.Fatalf("unexpected y range: %+v", box)
	}
}

func TestQuantizeCeilsPartialCells(t *testing.T) {
	v := Viewport{OffsetX: 0, OffsetY: 0, Zoom: 10}
	box, ok := v.Quantize(101, 95, 10, DefaultLimits())
	if !ok {
		t.Fatalf("expected Quantize to accept")
	}
	if box.VX1-box.VX0 != 11 {
		t.Fatalf("expected ceil(101/10)=11 visible columns, got %d", box.VX1-box.VX0)
	}
	if box.VY1-box.VY0 != 10 {
		t.Fatalf("expected ceil(95/10)=10 visible rows, got %d", box.VY1-box.VY0)
	}
}

func TestQuantizeClampsNegativeOffsetY(t *testing.T) {
	v := Viewport{OffsetX: 0, OffsetY: -50, Zoom: 10}
	box, ok := v.Quantize(100, 100, 10, DefaultLimits())
	if !ok {
		t.Fatalf("expected Quantize to accept")
	}
	if box.VY0 != 0 {
		t.Fatalf("expected offset_y to be clamped to 0, got %d", box.VY0)
	}
}

func TestQuantizeRejectsTooSmallCellSize(t *testing.T) {
	v := Viewport{Zoom: 1}
	if _, ok := v.Quantize(100, 100, 1, DefaultLimits()); ok {
		t.Fatalf("expected rejection of a cell size below MinCellSize")
	}
}

func TestQuantizeRejectsOversizeDimensions(t *testing.T) {
	v := Viewport{}
	limits := DefaultLimits()
	limits.MinCellSize = 1
	if _, ok := v.Quantize(limits.MaxCellsX*2, 100, 1, limits); ok {
		t.Fatalf("expected rejection when visible_cells_x exceeds MaxCellsX")
	}
}

func TestQuantizeRejectsOversizeTotalCells(t *testing.T) {
	v := Viewport{}
	limits := Limits{MaxCellsX: 5000, MaxCellsY: 5000, MaxTotalCells: 100, MinCellSize: 1}
	if _, ok := v.Quantize(50, 50, 1, limits); ok {
		t.Fatalf("expected rejection when visible_x*3*visible_y exceeds MaxTotalCells")
	}
}

func TestDivEuclidMatchesFloorDivision(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
		{0, 5, 0},
		{-1, 5, -1},
	}
	for _, c := range cases {
		if got := divEuclid(c.a, c.b); got != c.want {
			t.Errorf("divEuclid(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestTileRangeCoversNegativeColumns(t *testing.T) {
	box := Box{VX0: -20, VX1: 5, VY0: 0, VY1: 10}
	tx0, tx1, ty0, ty1 := TileRange(box, 8)
	if tx0 != -3 {
		t.Fatalf("expected tx0 = floor(-20/8) = -3, got %d", tx0)
	}
	if tx1 != 0 {
		t.Fatalf("expected tx1 = floor(4/8) = 0, got %d", tx1)
	}
	if ty0 != 0 || ty1 != 1 {
		t.Fatalf("unexpected y tile range: ty0=%d ty1=%d", ty0, ty1)
	}
}
