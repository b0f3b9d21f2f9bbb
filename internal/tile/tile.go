package tile

import "github.com/pozyx/cae-go/internal/gpu"

// Tile is a cached S x S (column x generation) region of CA computation,
// owning a device buffer wider than S to protect its edges from the
// influence cone — spec.md §3.
type Tile struct {
	Buffer         gpu.Buffer
	SimulatedWidth uint32
	PaddingLeft    uint32
}

// Release frees the tile's device buffer. Called on eviction or when the
// owning Cache itself is destroyed.
func (t *Tile) Release() {
	if t == nil || t.Buffer == nil {
		return
	}
	t.Buffer.Release()
	t.Buffer = nil
}
