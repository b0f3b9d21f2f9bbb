package tile

import (
	"testing"

	"github.com/pozyx/cae-go/internal/ca"
	"github.com/pozyx/cae-go/internal/gpu/swbackend"
)

// TestProducerAgreesWithDirect checks that a cache-backed tile, decoded at
// its own column/generation window, matches the uncached direct path run
// over the same window — spec.md §8's cache-correctness invariant.
func TestProducerAgreesWithDirect(t *testing.T) {
	const rule = 30
	const tileSize = 8
	seed := ca.NoSeed()

	dev := swbackend.New()

	key := NewKey(rule, seed, 0, 1) // second tile row: generations [8,16)
	tl, err := Produce(dev, key, seed, tileSize)
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	defer tl.Release()

	if tl.Buffer.Width() != tl.SimulatedWidth {
		t.Fatalf("tile buffer width %d != SimulatedWidth %d", tl.Buffer.Width(), tl.SimulatedWidth)
	}
	if tl.Buffer.Height() != tileSize {
		t.Fatalf("tile buffer height %d != tileSize %d", tl.Buffer.Height(), tileSize)
	}

	// Ask the direct path for the same world columns [0, tileSize) over the
	// same total generation count the tile internally simulates to, so the
	// two padding computations land on identical influence cones.
	direct, err := ca.Run(dev, rule, tileSize, tileSize, tileSize, 0, seed)
	if err != nil {
		t.Fatalf("ca.Run: %v", err)
	}
	defer direct.Release()

	for row := uint32(0); row < tileSize; row++ {
		got, err := dev.ReadRow(tl.Buffer, row)
		if err != nil {
			t.Fatalf("ReadRow(tile, %d): %v", row, err)
		}
		want, err := dev.ReadRow(direct.Buffer, row)
		if err != nil {
			t.Fatalf("ReadRow(direct, %d): %v", row, err)
		}

		gotVisible := got[tl.PaddingLeft : tl.PaddingLeft+tileSize]
		wantVisible := want[direct.PaddingLeft : direct.PaddingLeft+tileSize]
		for x := range gotVisible {
			if gotVisible[x] != wantVisible[x] {
				t.Fatalf("row %d col %d: tile=%d direct=%d", row, x, gotVisible[x], wantVisible[x])
			}
		}
	}
}

// TestProducerPaddingCoversInfluenceCone checks spec.md §3's padding
// sufficiency invariant: padding_left >= ty*S + S.
func TestProducerPaddingCoversInfluenceCone(t *testing.T) {
	const tileSize = 16
	for ty := int32(0); ty < 4; ty++ {
		key := NewKey(90, ca.NoSeed(), 2, ty)
		dev := swbackend.New()
		tl, err := Produce(dev, key, ca.NoSeed(), tileSize)
		if err != nil {
			t.Fatalf("Produce(ty=%d): %v", ty, err)
		}
		minPadding := uint32(ty)*tileSize + tileSize
		if tl.PaddingLeft < minPadding {
			t.Fatalf("ty=%d: padding_left %d < required %d", ty, tl.PaddingLeft, minPadding)
		}
		tl.Release()
	}
}
