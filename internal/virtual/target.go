package virtual

// Ref resolves a logical target to a concrete element. It returns false while
// the element does not exist yet (not mounted).
type Ref[E any] interface {
	Resolve() (E, bool)
}

// RefFunc adapts a function to Ref.
type RefFunc[E any] func() (E, bool)

// Resolve implements Ref.
func (f RefFunc[E]) Resolve() (E, bool) {
	return f()
}

// Static returns a Ref that always resolves to e.
func Static[E any](e E) Ref[E] {
	return RefFunc[E](func() (E, bool) { return e, true })
}

// Container is the scrollable viewport.
type Container interface {
	// ScrollOffset is the distance scrolled from the top.
	ScrollOffset() float64
	// SetScrollOffset scrolls the container. Hosts are expected to deliver a
	// scroll notification for the change, like a browser does when scrollTop
	// is written.
	SetScrollOffset(offset float64)
	// ViewportExtent is the visible height.
	ViewportExtent() float64
}

// Content is the element holding the materialized items. It receives the two
// layout hints on every committed recomputation.
type Content interface {
	SetLayout(blockExtent, leadingMargin float64)
}

// ScrollSource delivers native scroll notifications. The returned function
// removes the listener.
type ScrollSource interface {
	AddScrollListener(handler func()) (remove func())
}

// Size is the measured size of the container.
type Size struct {
	Width, Height float64
}

// Empty reports whether the container has not been laid out yet.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}
