package engine

import (
	"testing"

	"github.com/pozyx/cae-go/internal/ca"
	"github.com/pozyx/cae-go/internal/gpu/swbackend"
	"github.com/pozyx/cae-go/internal/tile"
)

func TestRunAndRunWithCacheAgree(t *testing.T) {
	dev := swbackend.New()
	p := Params{
		Rule:             110,
		StartGeneration:  3,
		Iterations:       12,
		VisibleWidth:     24,
		HorizontalOffset: -5,
		Seed:             ca.NoSeed(),
	}

	direct, err := Run(dev, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer direct.Release()

	cache := tile.NewCache(8, 8)
	cached, err := RunWithCache(dev, p, cache)
	if err != nil {
		t.Fatalf("RunWithCache: %v", err)
	}
	defer cached.Release()

	if direct.VisibleWidth != cached.VisibleWidth || direct.Height != cached.Height {
		t.Fatalf("shape mismatch: direct=%dx%d cached=%dx%d", direct.VisibleWidth, direct.Height, cached.VisibleWidth, cached.Height)
	}

	for g := uint32(0); g < direct.Height; g++ {
		a, err := dev.ReadRow(direct.Buffer, g)
		if err != nil {
			t.Fatalf("ReadRow(direct,%d): %v", g, err)
		}
		b, err := dev.ReadRow(cached.Buffer, g)
		if err != nil {
			t.Fatalf("ReadRow(cached,%d): %v", g, err)
		}
		av := a[direct.PaddingLeft : direct.PaddingLeft+direct.VisibleWidth]
		bv := b[cached.PaddingLeft : cached.PaddingLeft+cached.VisibleWidth]
		for x := range av {
			if av[x] != bv[x] {
				t.Fatalf("row %d col %d: direct=%d cached=%d", g, x, av[x], bv[x])
			}
		}
	}
}
