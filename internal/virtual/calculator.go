package virtual

import (
	"math"
	"sort"
)

// Calculator converts scroll geometry into a Window. All methods are pure
// given the current Items and Height; a Calculator is cheap to build and is
// rebuilt from the latest inputs on every recomputation.
type Calculator[T any] struct {
	Items  []T
	Height Height[T]

	// prefix, when set, caches cumulative heights for computed models.
	prefix *prefixSums[T]
}

// OffsetIndex returns the index of the first item whose cumulative height
// reaches scroll, plus one. The extra row means the top of the viewport is
// never under-covered, even when scroll lands exactly on an item boundary.
//
// For computed heights the result is len(Items) when scroll lies beyond the
// total extent.
func (c Calculator[T]) OffsetIndex(scroll float64) int {
	scroll = max(0, scroll)
	if c.Height.IsConstant() {
		return int(math.Floor(scroll/c.Height.Constant())) + 1
	}
	n := len(c.Items)
	if sums := c.sums(); sums != nil {
		i := sort.Search(n, func(i int) bool {
			return sums[i+1] >= scroll
		})
		if i == n {
			return n
		}
		return i + 1
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += c.Height.Of(c.Items, i)
		if sum >= scroll {
			return i + 1
		}
	}
	return n
}

// VisibleCount returns how many whole items starting at from are needed to
// cover extent. For computed heights the count stops at the end of Items.
func (c Calculator[T]) VisibleCount(extent float64, from int) int {
	if c.Height.IsConstant() {
		return int(math.Ceil(extent / c.Height.Constant()))
	}
	// The forward scan is bounded by the viewport, so it is kept even when
	// prefix sums are available: differences of prefix sums would not be
	// bit-identical to a fresh accumulation.
	n := len(c.Items)
	var sum float64
	for i := from; i < n; i++ {
		sum += c.Height.Of(c.Items, i)
		if sum >= extent {
			return i - from + 1
		}
	}
	return max(0, n-from)
}

// DistanceTo returns the cumulative height of items [0, index).
func (c Calculator[T]) DistanceTo(index int) float64 {
	if c.Height.IsConstant() {
		return float64(index) * c.Height.Constant()
	}
	if sums := c.sums(); sums != nil {
		return sums[index]
	}
	var sum float64
	for i := 0; i < index; i++ {
		sum += c.Height.Of(c.Items, i)
	}
	return sum
}

// TotalExtent returns the height of the whole collection.
func (c Calculator[T]) TotalExtent() float64 {
	return c.DistanceTo(len(c.Items))
}

// Window computes the materialized range for the given geometry. It returns
// false without computing anything when extent is not positive, which is how
// an unmeasured container is represented.
func (c Calculator[T]) Window(scroll, extent float64, overscan int) (Window[T], bool) {
	if extent <= 0 {
		return Window[T]{}, false
	}
	overscan = max(0, overscan)
	n := len(c.Items)

	offset := c.OffsetIndex(scroll)
	count := c.VisibleCount(extent, offset)

	start := max(0, offset-overscan)
	end := min(n, offset+count+overscan)
	// scrolled past the end: keep 0 <= start <= end <= n
	start = min(start, end)

	items := make([]Item[T], 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, Item[T]{Index: i, Data: c.Items[i]})
	}

	return Window[T]{
		Start:         start,
		End:           end,
		Items:         items,
		TotalExtent:   c.TotalExtent(),
		LeadingOffset: c.DistanceTo(start),
	}, true
}

func (c Calculator[T]) sums() []float64 {
	if c.prefix == nil || c.Height.IsConstant() {
		return nil
	}
	return c.prefix.get(c.Items, c.Height)
}
