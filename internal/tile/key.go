package tile

import (
	"hash/fnv"

	"github.com/pozyx/cae-go/internal/ca"
)

// Key is the content address of a cached tile: (rule, init_hash, tx, ty),
// per spec.md §3. It is a plain comparable struct used directly as a Go
// map key — because Go hashes map keys field-by-field, this mixes all four
// fields without a hand-rolled combiner, satisfying spec.md §9's "TileKey
// hashing must mix all four fields."
type Key struct {
	Rule     uint8
	InitHash uint64
	TX       int32
	TY       int32
}

// NewKey builds a Key for (rule, seed, tx, ty). The empty/absent initial
// state hashes to 0, per spec.md §3.
func NewKey(rule uint8, seed ca.Seed, tx, ty int32) Key {
	return Key{Rule: rule, InitHash: hashSeed(seed), TX: tx, TY: ty}
}

// hashSeed computes a stable 64-bit digest of the seed string with FNV-1a,
// so identical seeds always produce identical keys regardless of process
// or hasher seed — spec.md §9 explicitly forbids a randomly seeded hash
// here. The absent seed hashes to 0 by convention.
func hashSeed(seed ca.Seed) uint64 {
	bits, ok := seed.Bits()
	if !ok {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(bits))
	return h.Sum64()
}
