package opencl

// caStepSource is the OpenCL C step kernel: one generation transition under
// a Wolfram rule over a single row, with zero-valued out-of-bounds
// neighbours at the extreme columns. It is embarrassingly parallel over
// columns — see spec.md §4.1.
//
// state is the flat, row-major cell buffer; row g starts at offset
// g*width. The kernel reads row and writes row+1, so it must only ever be
// enqueued for a single source row at a time (rows must settle in order).
const caStepSource = `
__kernel void ca_step(
    const uint width,
    const uint rule,
    const uint row,
    __global uint* state)
{
    uint x = get_global_id(0);
    if (x >= width) {
        return;
    }

    __global const uint* src = state + (size_t)row * width;
    __global uint* dst = state + (size_t)(row + 1) * width;

    uint left = (x > 0) ? src[x - 1] : 0u;
    uint center = src[x];
    uint right = (x + 1 < width) ? src[x + 1] : 0u;

    uint idx = (left << 2) | (center << 1) | right;
    dst[x] = (rule >> idx) & 1u;
}
`
