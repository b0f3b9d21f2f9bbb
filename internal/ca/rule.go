package ca

// StepRow computes one generation transition under the standard Wolfram
// encoding: for cell c with left neighbour l and right neighbour r, the new
// cell is bit (l<<2|c<<1|r) of rule. Out-of-bounds neighbours at the
// extreme columns read as 0. This is the pure host-side reference the
// OpenCL and software backends must both agree with (spec.md §4.1, §8) —
// generalised from internal/sims/elementary/elementary.go's Step, which
// wraps at the edges instead of zero-padding and bakes the rule into the
// receiver rather than taking it as a parameter.
func StepRow(rule uint8, row []uint32) []uint32 {
	w := len(row)
	next := make([]uint32, w)
	for x := 0; x < w; x++ {
		var left, right uint32
		if x > 0 {
			left = row[x-1]
		}
		if x+1 < w {
			right = row[x+1]
		}
		idx := (left << 2) | (row[x] << 1) | right
		next[x] = uint32((rule >> idx) & 1)
	}
	return next
}
