package ca

// Seed is the sum-typed optional initial state spec.md §9 calls for: either
// absent (single-centre-cell default) or a bitstring, represented as a
// two-field struct rather than treating "" as a sentinel. NewSeed folds ""
// to the absent case explicitly, at the boundary, so the distinction stays
// an interface decision rather than an accident.
type Seed struct {
	bits string
	ok   bool
}

// NoSeed is the absent initial state.
func NoSeed() Seed { return Seed{} }

// NewSeed wraps a binary string as the initial state. An empty string is
// folded to NoSeed(), per spec.md §8's boundary behaviour
// ("initial_state = "" behaves as None").
func NewSeed(bits string) Seed {
	if bits == "" {
		return NoSeed()
	}
	return Seed{bits: bits, ok: true}
}

// Present reports whether a custom bitstring was supplied.
func (s Seed) Present() bool { return s.ok }

// Bits returns the bitstring and whether one was present.
func (s Seed) Bits() (string, bool) { return s.bits, s.ok }

// BuildInitialRow synthesises the first row of a simulated_width-wide
// buffer, placing the seed so that world column 0 lands at row-index
// padding-horizontalOffset, per spec.md §4.3:
//
//   - with a seed string, bits[i] lands at padding-horizontalOffset+i, and
//     is discarded if that index falls outside [0, simulatedWidth);
//   - without one, a single 1 lands at padding-horizontalOffset (world
//     column 0), if in range.
//
// Grounded on cuda/src/compute.cpp's init_first_row.
func BuildInitialRow(simulatedWidth, padding uint32, horizontalOffset int32, seed Seed) []uint32 {
	row := make([]uint32, simulatedWidth)
	base := int64(padding) - int64(horizontalOffset)

	if bits, ok := seed.Bits(); ok {
		for i, ch := range []byte(bits) {
			pos := base + int64(i)
			if pos < 0 || pos >= int64(simulatedWidth) {
				continue
			}
			if ch == '1' {
				row[pos] = 1
			}
		}
		return row
	}

	if base >= 0 && base < int64(simulatedWidth) {
		row[base] = 1
	}
	return row
}
