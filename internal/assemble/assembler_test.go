package assemble

import (
	"testing"

	"github.com/pozyx/cae-go/internal/ca"
	"github.com/pozyx/cae-go/internal/gpu/swbackend"
	"github.com/pozyx/cae-go/internal/tile"
)

func readVisible(t *testing.T, dev *swbackend.Device, out *ca.OutputBuffer) [][]uint32 {
	t.Helper()
	rows := make([][]uint32, out.Height)
	for g := uint32(0); g < out.Height; g++ {
		full, err := dev.ReadRow(out.Buffer, g)
		if err != nil {
			t.Fatalf("ReadRow(%d): %v", g, err)
		}
		rows[g] = full[out.PaddingLeft : out.PaddingLeft+out.VisibleWidth]
	}
	return rows
}

// TestAssemblerAgreesWithDirect checks spec.md §8 invariant 5: any
// viewport assembled through the cache matches the direct/uncached oracle
// pixel-for-pixel.
func TestAssemblerAgreesWithDirect(t *testing.T) {
	const rule = 90
	seed := ca.NoSeed()

	dev := swbackend.New()
	c := tile.NewCache(8, 8)

	cached, err := RunWithCache(dev, rule, 5, 20, 30, -7, seed, c)
	if err != nil {
		t.Fatalf("RunWithCache: %v", err)
	}
	defer cached.Release()

	direct, err := ca.Run(dev, rule, 5, 20, 30, -7, seed)
	if err != nil {
		t.Fatalf("ca.Run: %v", err)
	}
	defer direct.Release()

	got := readVisible(t, dev, cached)
	want := readVisible(t, dev, direct)
	for g := range got {
		for x := range got[g] {
			if got[g][x] != want[g][x] {
				t.Fatalf("row %d col %d: cached=%d direct=%d", g, x, got[g][x], want[g][x])
			}
		}
	}
}

// TestAssemblerIdempotent checks spec.md §8 invariant 7: re-running the
// same viewport against an already-warm cache produces the same bits and
// only adds cache hits, never new misses.
func TestAssemblerIdempotent(t *testing.T) {
	const rule = 110
	seed := ca.NewSeed("10110")

	dev := swbackend.New()
	// Large enough to hold all 42 tiles (tx -2..4, ty 0..5) of the viewport.
	c := tile.NewCache(64, 8)

	first, err := RunWithCache(dev, rule, 0, 40, 50, -10, seed, c)
	if err != nil {
		t.Fatalf("RunWithCache (first): %v", err)
	}
	defer first.Release()
	missesAfterFirst := c.Misses

	second, err := RunWithCache(dev, rule, 0, 40, 50, -10, seed, c)
	if err != nil {
		t.Fatalf("RunWithCache (second): %v", err)
	}
	defer second.Release()

	if c.Misses != missesAfterFirst {
		t.Fatalf("second identical run incurred new misses: %d -> %d", missesAfterFirst, c.Misses)
	}

	a := readVisible(t, dev, first)
	b := readVisible(t, dev, second)
	for g := range a {
		for x := range a[g] {
			if a[g][x] != b[g][x] {
				t.Fatalf("row %d col %d differs between runs: %d vs %d", g, x, a[g][x], b[g][x])
			}
		}
	}
}

// TestAssemblerTileBoundaryContinuity checks spec.md §8 invariant 6: no
// discontinuity at tile-column boundaries when the viewport spans several
// tiles, by comparing against the direct oracle at every column including
// multiples of the tile size.
func TestAssemblerTileBoundaryContinuity(t *testing.T) {
	const rule = 30
	const tileSize = 8
	seed := ca.NoSeed()

	dev := swbackend.New()
	c := tile.NewCache(32, tileSize)

	// Span several tile columns: world x in [-10, 22), well past multiple
	// boundaries at x = -8, 0, 8, 16.
	cached, err := RunWithCache(dev, rule, 0, 15, 32, -10, seed, c)
	if err != nil {
		t.Fatalf("RunWithCache: %v", err)
	}
	defer cached.Release()

	direct, err := ca.Run(dev, rule, 0, 15, 32, -10, seed)
	if err != nil {
		t.Fatalf("ca.Run: %v", err)
	}
	defer direct.Release()

	got := readVisible(t, dev, cached)
	want := readVisible(t, dev, direct)
	for g := range got {
		for x := range got[g] {
			if got[g][x] != want[g][x] {
				t.Fatalf("discontinuity at row %d col %d (world x=%d): cached=%d direct=%d", g, x, x-10, got[g][x], want[g][x])
			}
		}
	}
}

// TestAssemblerPansReuseCachedTiles checks that panning a viewport so that
// it overlaps a previously computed tile produces cache hits for the
// overlapping region.
func TestAssemblerPansReuseCachedTiles(t *testing.T) {
	const rule = 30
	seed := ca.NoSeed()

	dev := swbackend.New()
	c := tile.NewCache(16, 8)

	out1, err := RunWithCache(dev, rule, 0, 15, 16, 0, seed, c)
	if err != nil {
		t.Fatalf("RunWithCache (1): %v", err)
	}
	out1.Release()
	missesAfterFirst := c.Misses

	// Pan right by one tile width; the tiles at tx=1, covered by both
	// viewports, should be served from the cache.
	out2, err := RunWithCache(dev, rule, 0, 15, 16, 8, seed, c)
	if err != nil {
		t.Fatalf("RunWithCache (2): %v", err)
	}
	defer out2.Release()

	if c.Hits == 0 {
		t.Fatalf("expected the overlapping pan to reuse at least one cached tile")
	}
	if c.Misses > missesAfterFirst+2 {
		t.Fatalf("expected at most a couple of new tiles on the pan, got %d new misses", c.Misses-missesAfterFirst)
	}
}
