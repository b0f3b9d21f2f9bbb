// Package swbackend is a software implementation of gpu.Device backed by
// plain Go slices. It exists as the "reference CPU single-threaded
// implementation" spec.md's Testable Properties (§8) call for — the test
// suites in internal/tile, internal/assemble and internal/engine exercise
// the step-kernel contract against it. It is never reachable from
// internal/config or the CLI.
package swbackend

import (
	"fmt"

	"github.com/pozyx/cae-go/internal/gpu"
)

// Device is an in-memory gpu.Device. The zero value is not usable; use New.
type Device struct {
	closed bool
}

// New constructs a software Device.
func New() *Device {
	return &Device{}
}

// Buffer is an in-memory gpu.Buffer: one slice of cells per row.
type Buffer struct {
	width, height uint32
	rows          [][]uint32
	released      bool
}

func (b *Buffer) Width() uint32  { return b.width }
func (b *Buffer) Height() uint32 { return b.height }
func (b *Buffer) Release() {
	b.released = true
	b.rows = nil
}

func (d *Device) NewBuffer(width, height uint32) (gpu.Buffer, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("swbackend: invalid buffer shape %dx%d", width, height)
	}
	rows := make([][]uint32, height)
	for i := range rows {
		rows[i] = make([]uint32, width)
	}
	return &Buffer{width: width, height: height, rows: rows}, nil
}

func (d *Device) WriteRow(buf gpu.Buffer, row uint32, data []uint32) error {
	b, err := asBuffer(buf)
	if err != nil {
		return err
	}
	if row >= b.height {
		return fmt.Errorf("swbackend: row %d out of range (height %d)", row, b.height)
	}
	n := copy(b.rows[row], data)
	for i := n; i < int(b.width); i++ {
		b.rows[row][i] = 0
	}
	return nil
}

func (d *Device) ReadRow(buf gpu.Buffer, row uint32) ([]uint32, error) {
	b, err := asBuffer(buf)
	if err != nil {
		return nil, err
	}
	if row >= b.height {
		return nil, fmt.Errorf("swbackend: row %d out of range (height %d)", row, b.height)
	}
	out := make([]uint32, b.width)
	copy(out, b.rows[row])
	return out, nil
}

// StepRow computes row+1 of buf from row under rule, matching the Wolfram
// encoding bit(rule, l<<2|c<<1|r) with zero-valued out-of-bounds neighbours.
// This is the software equivalent of the OpenCL ca_step kernel
// (internal/gpu/opencl/kernel.go) — see spec.md §4.1.
func (d *Device) StepRow(buf gpu.Buffer, rule uint8, row uint32) error {
	b, err := asBuffer(buf)
	if err != nil {
		return err
	}
	if row+1 >= b.height {
		return fmt.Errorf("swbackend: step source row %d has no row+1 (height %d)", row, b.height)
	}
	src := b.rows[row]
	dst := b.rows[row+1]
	w := int(b.width)
	for x := 0; x < w; x++ {
		var left, right uint32
		if x > 0 {
			left = src[x-1]
		}
		if x < w-1 {
			right = src[x+1]
		}
		idx := (left << 2) | (src[x] << 1) | right
		dst[x] = uint32((rule >> idx) & 1)
	}
	return nil
}

func (d *Device) CopyRows(src gpu.Buffer, srcRow uint32, dst gpu.Buffer, dstRow uint32, numRows uint32) error {
	s, err := asBuffer(src)
	if err != nil {
		return err
	}
	t, err := asBuffer(dst)
	if err != nil {
		return err
	}
	if s.width != t.width {
		return fmt.Errorf("swbackend: CopyRows width mismatch %d != %d", s.width, t.width)
	}
	if srcRow+numRows > s.height || dstRow+numRows > t.height {
		return fmt.Errorf("swbackend: CopyRows out of range")
	}
	for i := uint32(0); i < numRows; i++ {
		copy(t.rows[dstRow+i], s.rows[srcRow+i])
	}
	return nil
}

func (d *Device) CopySlice(src gpu.Buffer, srcRow, srcCol uint32, dst gpu.Buffer, dstRow, dstCol uint32, width uint32) error {
	s, err := asBuffer(src)
	if err != nil {
		return err
	}
	t, err := asBuffer(dst)
	if err != nil {
		return err
	}
	if srcRow >= s.height || dstRow >= t.height {
		return fmt.Errorf("swbackend: CopySlice row out of range")
	}
	if srcCol+width > s.width || dstCol+width > t.width {
		return fmt.Errorf("swbackend: CopySlice column range out of bounds")
	}
	copy(t.rows[dstRow][dstCol:dstCol+width], s.rows[srcRow][srcCol:srcCol+width])
	return nil
}

func (d *Device) Sync() error {
	if d.closed {
		return fmt.Errorf("swbackend: device closed")
	}
	return nil
}

func (d *Device) Close() error {
	d.closed = true
	return nil
}

func asBuffer(buf gpu.Buffer) (*Buffer, error) {
	b, ok := buf.(*Buffer)
	if !ok || b == nil || b.released {
		return nil, fmt.Errorf("swbackend: use of released, nil, or foreign buffer")
	}
	return b, nil
}
