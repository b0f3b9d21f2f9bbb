// Package gpu defines the hardware-portability seam every core package in
// cae programs against: a device that owns cell buffers and can run the CA
// step transition over them. internal/gpu/opencl is the production backend;
// internal/gpu/swbackend is a software reference backend used by tests.
package gpu

// Buffer is a device-resident width*height matrix of cells, one machine
// word per cell, row-major. Row g holds generation g.
type Buffer interface {
	// Width returns the buffer's row length in cells.
	Width() uint32
	// Height returns the number of rows the buffer was allocated with.
	Height() uint32
	// Release frees the underlying device allocation. Calling Release more
	// than once, or using the buffer afterwards, is a programming error.
	Release()
}

// Device runs the CA step kernel and manages buffers on one compute
// device. Implementations are not required to be safe for concurrent use;
// the core packages only ever call a Device from a single goroutine at a
// time, per spec.
type Device interface {
	// NewBuffer allocates a zero-filled width*height buffer.
	NewBuffer(width, height uint32) (Buffer, error)

	// WriteRow uploads data (len(data) <= buf.Width()) into row of buf.
	WriteRow(buf Buffer, row uint32, data []uint32) error

	// ReadRow downloads row of buf into a freshly allocated host slice.
	ReadRow(buf Buffer, row uint32) ([]uint32, error)

	// StepRow computes row+1 of buf from row row under rule, using
	// zero-valued neighbours outside [0, buf.Width()). row+1 must be a
	// valid row index.
	StepRow(buf Buffer, rule uint8, row uint32) error

	// CopyRows device-to-device copies numRows full rows, starting at
	// srcRow in src and dstRow in dst, into dst. src and dst must have the
	// same width.
	CopyRows(src Buffer, srcRow uint32, dst Buffer, dstRow uint32, numRows uint32) error

	// CopySlice device-to-device copies a width-wide horizontal slice of a
	// single row from src (at srcRow, srcCol) into dst (at dstRow, dstCol).
	// src and dst may have different widths.
	CopySlice(src Buffer, srcRow, srcCol uint32, dst Buffer, dstRow, dstCol uint32, width uint32) error

	// Sync blocks until all previously enqueued operations complete.
	Sync() error

	// Close releases the device's own resources (queue, compiled kernel,
	// context). It does not release any Buffer.
	Close() error
}
