package virtual

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func heightsOf(hs ...float64) Calculator[float64] {
	return Calculator[float64]{
		Items:  hs,
		Height: Computed(func(_ int, h float64) float64 { return h }),
	}
}

func TestConstantHeight(t *testing.T) {
	t.Parallel()

	t.Run("should compute the initial window", func(t *testing.T) {
		t.Parallel()
		c := Calculator[int]{Items: ints(100000), Height: Constant[int](60)}

		w, ok := c.Window(0, 300, 10)
		require.True(t, ok)
		assert.Equal(t, 0, w.Start)
		assert.Equal(t, 16, w.End)
		assert.Equal(t, 0.0, w.LeadingOffset)
		assert.Equal(t, 6000000.0, w.TotalExtent)
		require.Len(t, w.Items, 16)
		for i, item := range w.Items {
			assert.Equal(t, i, item.Index)
			assert.Equal(t, i, item.Data)
		}
	})

	t.Run("should add one row on exact boundaries", func(t *testing.T) {
		t.Parallel()
		c := Calculator[int]{Items: ints(10), Height: Constant[int](60)}

		assert.Equal(t, 1, c.OffsetIndex(0))
		assert.Equal(t, 1, c.OffsetIndex(59))
		assert.Equal(t, 2, c.OffsetIndex(60))
		assert.Equal(t, 2, c.OffsetIndex(61))
	})

	t.Run("should round visible count up", func(t *testing.T) {
		t.Parallel()
		c := Calculator[int]{Items: ints(10), Height: Constant[int](60)}

		assert.Equal(t, 5, c.VisibleCount(300, 0))
		assert.Equal(t, 6, c.VisibleCount(301, 7))
		assert.Equal(t, 1, c.VisibleCount(1, 3))
	})

	t.Run("should measure distances", func(t *testing.T) {
		t.Parallel()
		c := Calculator[int]{Items: ints(10), Height: Constant[int](60)}

		assert.Equal(t, 0.0, c.DistanceTo(0))
		assert.Equal(t, 6000.0, c.DistanceTo(100))
		assert.Equal(t, 600.0, c.TotalExtent())
	})

	t.Run("should clamp end to the collection", func(t *testing.T) {
		t.Parallel()
		c := Calculator[int]{Items: ints(100), Height: Constant[int](10)}

		w, ok := c.Window(960, 50, 5)
		require.True(t, ok)
		assert.Equal(t, 92, w.Start)
		assert.Equal(t, 100, w.End)
		assert.Len(t, w.Items, 8)
	})

	t.Run("should stay ordered when scrolled past the end", func(t *testing.T) {
		t.Parallel()
		c := Calculator[int]{Items: ints(10), Height: Constant[int](10)}

		w, ok := c.Window(1000, 50, 5)
		require.True(t, ok)
		assert.Equal(t, 10, w.Start)
		assert.Equal(t, 10, w.End)
		assert.Empty(t, w.Items)
		assert.Equal(t, w.TotalExtent, w.LeadingOffset)
		assert.Equal(t, 0.0, w.BlockExtent())
	})

	t.Run("should clamp start without underflow", func(t *testing.T) {
		t.Parallel()
		c := Calculator[int]{Items: ints(50), Height: Constant[int](10)}

		w, ok := c.Window(0, 50, 100)
		require.True(t, ok)
		assert.Equal(t, 0, w.Start)
		assert.Equal(t, 50, w.End)
	})

	t.Run("should treat negative overscan as zero", func(t *testing.T) {
		t.Parallel()
		c := Calculator[int]{Items: ints(50), Height: Constant[int](10)}

		w, ok := c.Window(100, 50, -3)
		require.True(t, ok)
		assert.Equal(t, 11, w.Start)
		assert.Equal(t, 16, w.End)
	})
}

func TestComputedHeight(t *testing.T) {
	t.Parallel()

	t.Run("should find the first item reaching the offset", func(t *testing.T) {
		t.Parallel()
		c := heightsOf(10, 20, 30, 40)

		assert.Equal(t, 1, c.OffsetIndex(0))
		assert.Equal(t, 1, c.OffsetIndex(10))
		assert.Equal(t, 2, c.OffsetIndex(11))
		assert.Equal(t, 3, c.OffsetIndex(60))
		assert.Equal(t, 4, c.OffsetIndex(61))
		assert.Equal(t, 4, c.OffsetIndex(100))
	})

	t.Run("should return the length past the total extent", func(t *testing.T) {
		t.Parallel()
		c := heightsOf(10, 20, 30, 40)

		assert.Equal(t, 4, c.OffsetIndex(101))
	})

	t.Run("should count items covering the viewport", func(t *testing.T) {
		t.Parallel()
		c := heightsOf(10, 20, 30, 40)

		assert.Equal(t, 3, c.VisibleCount(45, 0))
		assert.Equal(t, 3, c.VisibleCount(60, 0))
		assert.Equal(t, 1, c.VisibleCount(20, 1))
		assert.Equal(t, 1, c.VisibleCount(100, 3))
		assert.Equal(t, 0, c.VisibleCount(100, 4))
	})

	t.Run("should sum heights before an index", func(t *testing.T) {
		t.Parallel()
		c := heightsOf(10, 20, 30, 40)

		assert.Equal(t, 0.0, c.DistanceTo(0))
		assert.Equal(t, 60.0, c.DistanceTo(3))
		assert.Equal(t, 100.0, c.TotalExtent())
	})

	t.Run("should pass the item of each index", func(t *testing.T) {
		t.Parallel()
		items := []string{"a", "bb", "ccc"}
		var seen []string
		c := Calculator[string]{
			Items: items,
			Height: Computed(func(i int, s string) float64 {
				assert.Equal(t, items[i], s)
				seen = append(seen, s)
				return float64(len(s))
			}),
		}

		assert.Equal(t, 3.0, c.DistanceTo(2))
		assert.Equal(t, []string{"a", "bb"}, seen)
	})

	t.Run("should build the window", func(t *testing.T) {
		t.Parallel()
		c := heightsOf(10, 20, 30, 40, 10, 10, 10)

		w, ok := c.Window(35, 30, 1)
		require.True(t, ok)
		// offset 3, count 1 (item 3 alone covers 30)
		assert.Equal(t, 2, w.Start)
		assert.Equal(t, 5, w.End)
		assert.Equal(t, 30.0, w.LeadingOffset)
		assert.Equal(t, 130.0, w.TotalExtent)
		assert.Equal(t, 100.0, w.BlockExtent())
	})
}

func TestWindowEdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("should skip unmeasured viewports", func(t *testing.T) {
		t.Parallel()
		c := Calculator[int]{Items: ints(10), Height: Constant[int](10)}

		_, ok := c.Window(0, 0, 5)
		assert.False(t, ok)
		_, ok = c.Window(0, -1, 5)
		assert.False(t, ok)
	})

	t.Run("should produce an empty window for an empty collection", func(t *testing.T) {
		t.Parallel()
		for _, c := range []Calculator[float64]{
			{Height: Constant[float64](10)},
			heightsOf(),
		} {
			for _, overscan := range []int{0, 5} {
				w, ok := c.Window(500, 100, overscan)
				require.True(t, ok)
				assert.Equal(t, 0, w.Start)
				assert.Equal(t, 0, w.End)
				assert.Empty(t, w.Items)
				assert.Equal(t, 0.0, w.TotalExtent)
				assert.Equal(t, 0.0, w.LeadingOffset)
			}
		}
	})
}

func TestWindowProperties(t *testing.T) {
	t.Parallel()

	const (
		n        = 1000
		h        = 7.0
		extent   = 93.0
		overscan = 3
	)
	c := Calculator[int]{Items: ints(n), Height: Constant[int](h)}
	minCount := int(math.Ceil(extent / h))

	prevStart := 0
	for scroll := 0.0; scroll <= n*h; scroll += 2.5 {
		w, ok := c.Window(scroll, extent, overscan)
		require.True(t, ok)

		offset := c.OffsetIndex(scroll)
		assert.LessOrEqual(t, 0, w.Start)
		assert.LessOrEqual(t, w.Start, w.End)
		assert.LessOrEqual(t, w.End, n)
		assert.Len(t, w.Items, w.End-w.Start)

		unclamped := offset-overscan >= 0 && offset+minCount+overscan <= n
		if unclamped {
			assert.LessOrEqual(t, w.Start, offset, "scroll %v", scroll)
			assert.LessOrEqual(t, offset, w.End, "scroll %v", scroll)
			assert.GreaterOrEqual(t, w.End-w.Start, minCount, "scroll %v", scroll)
		}

		assert.Equal(t, c.DistanceTo(w.Start), w.LeadingOffset)
		assert.Equal(t, w.TotalExtent, w.LeadingMargin()+w.BlockExtent())

		again, _ := c.Window(scroll, extent, overscan)
		assert.Equal(t, w.Start, again.Start)
		assert.Equal(t, w.End, again.End)
		assert.Equal(t, w.LeadingOffset, again.LeadingOffset)

		assert.GreaterOrEqual(t, w.Start, prevStart, "start must not decrease")
		prevStart = w.Start
	}
}

func TestPrefixSumsEquivalence(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	heights := make([]float64, 2000)
	for i := range heights {
		// mix of whole and fractional heights
		if i%3 == 0 {
			heights[i] = float64(1 + rng.Intn(80))
		} else {
			heights[i] = 0.1 + rng.Float64()*40
		}
	}

	linear := heightsOf(heights...)
	cached := heightsOf(heights...)
	cached.prefix = &prefixSums[float64]{}

	total := linear.TotalExtent()
	require.Equal(t, total, cached.TotalExtent())

	for i := 0; i <= len(heights); i += 7 {
		require.Equal(t, linear.DistanceTo(i), cached.DistanceTo(i), "distance to %d", i)
	}

	for scroll := 0.0; scroll <= total+50; scroll += total / 997 {
		require.Equal(t, linear.OffsetIndex(scroll), cached.OffsetIndex(scroll), "offset at %v", scroll)

		lw, ok := linear.Window(scroll, 333.3, 4)
		require.True(t, ok)
		cw, ok := cached.Window(scroll, 333.3, 4)
		require.True(t, ok)
		require.Equal(t, lw, cw, "window at %v", scroll)
	}
}

func TestPrefixSumsInvalidate(t *testing.T) {
	t.Parallel()

	p := &prefixSums[float64]{}
	c := heightsOf(1, 2, 3)
	c.prefix = p
	assert.Equal(t, 6.0, c.TotalExtent())

	c.Items = []float64{1, 2, 3, 4}
	// a length change is detected without invalidation
	assert.Equal(t, 10.0, c.TotalExtent())

	c.Items = []float64{5, 5, 5, 5}
	assert.Equal(t, 10.0, c.TotalExtent(), "stale until invalidated")
	p.invalidate()
	assert.Equal(t, 20.0, c.TotalExtent())
}

func BenchmarkOffsetIndex(b *testing.B) {
	heights := make([]float64, 100000)
	for i := range heights {
		heights[i] = float64(1 + i%5)
	}
	linear := heightsOf(heights...)
	cached := heightsOf(heights...)
	cached.prefix = &prefixSums[float64]{}
	scroll := linear.TotalExtent() * 0.9

	b.Run("Linear", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			linear.OffsetIndex(scroll)
		}
	})
	b.Run("PrefixSums", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			cached.OffsetIndex(scroll)
		}
	})
}
