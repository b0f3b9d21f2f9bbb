package ca

import (
	"fmt"

	"github.com/pozyx/cae-go/internal/gpu"
)

// BatchSize groups kernel launches before each device synchronisation, to
// keep the command queue bounded. Named COMPUTE_BATCH_SIZE in
// cuda/src/config.h; spec.md §4.2 calls it B ≈ 32.
const BatchSize = 32

// BufferDriver allocates, seeds and batch-iterates the CA step kernel over
// a device, per spec.md §4.2. It holds no state of its own beyond the
// device it drives.
type BufferDriver struct {
	Device gpu.Device
}

// NewBufferDriver constructs a BufferDriver over dev.
func NewBufferDriver(dev gpu.Device) *BufferDriver {
	return &BufferDriver{Device: dev}
}

// Run allocates a simulatedWidth x (totalGenerations+1) buffer, seeds row 0
// with initialRow, and advances totalGenerations generations under rule,
// synchronising once per BatchSize launches. It returns ownership of the
// resulting buffer to the caller. Grounded on cuda/src/compute.cpp's
// compute_ca_buffer.
func (d *BufferDriver) Run(rule uint8, initialRow []uint32, simulatedWidth, totalGenerations uint32) (gpu.Buffer, error) {
	height := totalGenerations + 1
	buf, err := d.Device.NewBuffer(simulatedWidth, height)
	if err != nil {
		return nil, fmt.Errorf("ca: allocating %dx%d buffer: %w", simulatedWidth, height, err)
	}
	if err := d.Device.WriteRow(buf, 0, initialRow); err != nil {
		buf.Release()
		return nil, fmt.Errorf("ca: seeding row 0: %w", err)
	}

	for batchStart := uint32(0); batchStart < totalGenerations; batchStart += BatchSize {
		batchEnd := batchStart + BatchSize
		if batchEnd > totalGenerations {
			batchEnd = totalGenerations
		}
		for g := batchStart; g < batchEnd; g++ {
			if err := d.Device.StepRow(buf, rule, g); err != nil {
				buf.Release()
				return nil, fmt.Errorf("ca: stepping generation %d: %w", g, err)
			}
		}
		if err := d.Device.Sync(); err != nil {
			buf.Release()
			return nil, fmt.Errorf("ca: syncing after batch starting at %d: %w", batchStart, err)
		}
	}

	return buf, nil
}
