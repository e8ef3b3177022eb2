package virtual

// prefixSums caches cumulative item heights so that offset lookups are
// O(log n) and distances O(1). sums[i] is the height of items [0, i), so the
// slice holds len(items)+1 entries.
//
// The cache cannot see changes inside a HeightFunc; the engine invalidates it
// when the collection or the height model is replaced, and callers that change
// what a HeightFunc returns must call Engine.Invalidate.
type prefixSums[T any] struct {
	sums  []float64
	valid bool
}

func (p *prefixSums[T]) invalidate() {
	p.valid = false
}

func (p *prefixSums[T]) get(items []T, h Height[T]) []float64 {
	if p.valid && len(p.sums) == len(items)+1 {
		return p.sums
	}

	if cap(p.sums) < len(items)+1 {
		p.sums = make([]float64, 0, len(items)+1)
	}
	sums := append(p.sums[:0], 0)
	// accumulate in index order, exactly as the linear scans do
	var running float64
	for i := range items {
		running += h.Of(items, i)
		sums = append(sums, running)
	}

	p.sums = sums
	p.valid = true
	return p.sums
}
