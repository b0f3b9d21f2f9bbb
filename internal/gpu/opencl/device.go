// Package opencl is the production gpu.Device backend for cae. It is
// grounded on the OpenCL binding idiom demonstrated in
// other_examples/Distortions81-Acoustic-Space-Rendering__opencl_wave.go
// (github.com/jgillich/go-opencl/cl: Context/CommandQueue/Program/Kernel,
// MemObject buffers with explicit Release()) and on the kernel-launch and
// batching contract of cuda/src/compute.cpp's launch_ca_step/
// compute_ca_buffer.
package opencl

import (
	"fmt"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"github.com/pozyx/cae-go/internal/gpu"
)

const cellBytes = int(unsafe.Sizeof(uint32(0)))

// Device owns one OpenCL context, command queue and compiled step kernel.
type Device struct {
	device  *cl.Device
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel
	name    string
}

// New picks a GPU device if one is available, falling back to a CPU
// OpenCL device, compiles the step kernel, and returns a ready Device.
func New() (*Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return nil, fmt.Errorf("opencl: querying platforms: %w", err)
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("opencl: no platforms available")
	}

	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, fmt.Errorf("opencl: no suitable devices found")
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("opencl: creating context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("opencl: creating command queue: %w", err)
	}
	program, err := context.CreateProgramWithSource([]string{caStepSource})
	if err != nil {
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("opencl: creating program: %w", err)
	}
	if err := program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		buildLog, _ := program.GetProgramBuildLog(device)
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("opencl: building program: %w\n%s", err, buildLog)
	}
	kernel, err := program.CreateKernel("ca_step")
	if err != nil {
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("opencl: creating kernel: %w", err)
	}

	return &Device{
		device:  device,
		context: context,
		queue:   queue,
		program: program,
		kernel:  kernel,
		name:    device.Name(),
	}, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

// Name returns the underlying OpenCL device's name, for diagnostics.
func (d *Device) Name() string { return d.name }

// Buffer wraps one OpenCL MemObject. It owns that allocation exclusively;
// Release frees it. See spec.md §3's Tile/OutputBuffer ownership invariant.
type Buffer struct {
	mem           *cl.MemObject
	width, height uint32
}

func (b *Buffer) Width() uint32  { return b.width }
func (b *Buffer) Height() uint32 { return b.height }

// Release frees the device allocation. Using the Buffer afterwards is a
// programming error, matching cache.cpp's Tile destructor discipline.
func (b *Buffer) Release() {
	if b.mem != nil {
		b.mem.Release()
		b.mem = nil
	}
}

func (d *Device) NewBuffer(width, height uint32) (gpu.Buffer, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("opencl: invalid buffer shape %dx%d", width, height)
	}
	size := int(width) * int(height) * cellBytes
	mem, err := d.context.CreateEmptyBuffer(cl.MemReadWrite, size)
	if err != nil {
		return nil, fmt.Errorf("opencl: allocating %dx%d buffer: %w", width, height, err)
	}
	zero := make([]uint32, int(width)*int(height))
	if _, err := d.queue.EnqueueWriteBuffer(mem, true, 0, size, unsafe.Pointer(&zero[0]), nil); err != nil {
		mem.Release()
		return nil, fmt.Errorf("opencl: zeroing buffer: %w", err)
	}
	return &Buffer{mem: mem, width: width, height: height}, nil
}

func (d *Device) WriteRow(buf gpu.Buffer, row uint32, data []uint32) error {
	b, err := asBuffer(buf)
	if err != nil {
		return err
	}
	if row >= b.height {
		return fmt.Errorf("opencl: row %d out of range (height %d)", row, b.height)
	}
	n := uint32(len(data))
	if n > b.width {
		n = b.width
	}
	offset := int(row*b.width) * cellBytes
	if n > 0 {
		if _, err := d.queue.EnqueueWriteBuffer(b.mem, true, offset, int(n)*cellBytes, unsafe.Pointer(&data[0]), nil); err != nil {
			return fmt.Errorf("opencl: writing row %d: %w", row, err)
		}
	}
	if n < b.width {
		pad := make([]uint32, b.width-n)
		padOffset := offset + int(n)*cellBytes
		if _, err := d.queue.EnqueueWriteBuffer(b.mem, true, padOffset, len(pad)*cellBytes, unsafe.Pointer(&pad[0]), nil); err != nil {
			return fmt.Errorf("opencl: zero-padding row %d: %w", row, err)
		}
	}
	return nil
}

func (d *Device) ReadRow(buf gpu.Buffer, row uint32) ([]uint32, error) {
	b, err := asBuffer(buf)
	if err != nil {
		return nil, err
	}
	if row >= b.height {
		return nil, fmt.Errorf("opencl: row %d out of range (height %d)", row, b.height)
	}
	out := make([]uint32, b.width)
	offset := int(row*b.width) * cellBytes
	if _, err := d.queue.EnqueueReadBuffer(b.mem, true, offset, int(b.width)*cellBytes, unsafe.Pointer(&out[0]), nil); err != nil {
		return nil, fmt.Errorf("opencl: reading row %d: %w", row, err)
	}
	return out, nil
}

func (d *Device) StepRow(buf gpu.Buffer, rule uint8, row uint32) error {
	b, err := asBuffer(buf)
	if err != nil {
		return err
	}
	if row+1 >= b.height {
		return fmt.Errorf("opencl: step source row %d has no row+1 (height %d)", row, b.height)
	}
	if err := d.kernel.SetArgs(uint32(b.width), uint32(rule), uint32(row), b.mem); err != nil {
		return fmt.Errorf("opencl: setting kernel args: %w", err)
	}
	global := []int{int(b.width)}
	if _, err := d.queue.EnqueueNDRangeKernel(d.kernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("opencl: enqueueing ca_step: %w", err)
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
		return fmt.Errorf("opencl: CopyRows width mismatch %d != %d", s.width, t.width)
	}
	if srcRow+numRows > s.height || dstRow+numRows > t.height {
		return fmt.Errorf("opencl: CopyRows out of range")
	}
	srcOffset := int(srcRow*s.width) * cellBytes
	dstOffset := int(dstRow*t.width) * cellBytes
	size := int(numRows*s.width) * cellBytes
	if _, err := d.queue.EnqueueCopyBuffer(s.mem, t.mem, srcOffset, dstOffset, size, nil); err != nil {
		return fmt.Errorf("opencl: CopyRows: %w", err)
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
		return fmt.Errorf("opencl: CopySlice row out of range")
	}
	if srcCol+width > s.width || dstCol+width > t.width {
		return fmt.Errorf("opencl: CopySlice column range out of bounds")
	}
	srcOffset := int(srcRow*s.width+srcCol) * cellBytes
	dstOffset := int(dstRow*t.width+dstCol) * cellBytes
	size := int(width) * cellBytes
	if _, err := d.queue.EnqueueCopyBuffer(s.mem, t.mem, srcOffset, dstOffset, size, nil); err != nil {
		return fmt.Errorf("opencl: CopySlice: %w", err)
	}
	return nil
}

// Sync blocks until the command queue has drained, mirroring
// cudaDeviceSynchronize in cuda/src/compute.cpp.
func (d *Device) Sync() error {
	if err := d.queue.Finish(); err != nil {
		return fmt.Errorf("opencl: finishing queue: %w", err)
	}
	return nil
}

func (d *Device) Close() error {
	if d.kernel != nil {
		d.kernel.Release()
		d.kernel = nil
	}
	if d.program != nil {
		d.program.Release()
		d.program = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.context != nil {
		d.context.Release()
		d.context = nil
	}
	return nil
}

func asBuffer(buf gpu.Buffer) (*Buffer, error) {
	b, ok := buf.(*Buffer)
	if !ok || b == nil || b.mem == nil {
		return nil, fmt.Errorf("opencl: use of released, nil, or foreign buffer")
	}
	return b, nil
}
