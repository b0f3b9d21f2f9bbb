package ca

import "github.com/pozyx/cae-go/internal/gpu"

// OutputBuffer is the result of Run/RunWithCache — the shape spec.md §6
// names: device_ptr, simulated_width, visible_width, height, padding_left,
// size_bytes. The caller owns Buffer and must call Release when done.
type OutputBuffer struct {
	Buffer         gpu.Buffer
	SimulatedWidth uint32
	VisibleWidth   uint32
	Height         uint32
	PaddingLeft    uint32
	SizeBytes      uint64
}

// Release frees the underlying device buffer.
func (o *OutputBuffer) Release() {
	if o == nil || o.Buffer == nil {
		return
	}
	o.Buffer.Release()
	o.Buffer = nil
}
