package virtual

import (
	"log/slog"
)

// DefaultOverscan is the number of extra items materialized on each side of
// the visible range.
const DefaultOverscan = 5

type options[T any] struct {
	height     Height[T]
	overscan   int
	content    Ref[Content]
	scroll     ScrollSource
	onChange   func(Window[T])
	prefixSums bool
}

type Option[T any] func(*options[T])

// WithHeight sets the height model.
func WithHeight[T any](h Height[T]) Option[T] {
	return func(o *options[T]) {
		o.height = h
	}
}

// WithConstantHeight makes every item h tall.
func WithConstantHeight[T any](h float64) Option[T] {
	return func(o *options[T]) {
		o.height = Constant[T](h)
	}
}

// WithComputedHeight asks fn for the height of every item.
func WithComputedHeight[T any](fn HeightFunc[T]) Option[T] {
	return func(o *options[T]) {
		o.height = Computed(fn)
	}
}

// WithOverscan sets the number of buffer items on each side of the window.
func WithOverscan[T any](n int) Option[T] {
	return func(o *options[T]) {
		o.overscan = n
	}
}

// WithContent sets the element that receives the layout hints. Recomputation
// waits until it resolves.
func WithContent[T any](ref Ref[Content]) Option[T] {
	return func(o *options[T]) {
		o.content = ref
	}
}

// WithScrollSource subscribes the engine to native scroll notifications. The
// listener is removed by Close.
func WithScrollSource[T any](src ScrollSource) Option[T] {
	return func(o *options[T]) {
		o.scroll = src
	}
}

// WithOnChange registers a callback invoked after every committed
// recomputation.
func WithOnChange[T any](fn func(Window[T])) Option[T] {
	return func(o *options[T]) {
		o.onChange = fn
	}
}

// WithPrefixSums caches cumulative heights for computed height models.
func WithPrefixSums[T any]() Option[T] {
	return func(o *options[T]) {
		o.prefixSums = true
	}
}

// Engine keeps the materialized window of a collection in sync with a
// scrollable container.
//
// An Engine is driven by discrete notifications (Resize, HandleScroll,
// SetItems, ScrollTo) and is not safe for concurrent use; hosts deliver
// notifications from a single goroutine, in order.
type Engine[T any] struct {
	*options[T]

	items     []T
	container Ref[Container]
	prefix    *prefixSums[T]

	sync     scrollSync
	size     Size
	window   Window[T]
	computed bool

	recomputes     int
	removeListener func()
	scrollTo       *Latest[int]
	closed         bool
}

// New creates an engine for items. Nothing is computed until the container
// reports a non-empty size through Resize.
func New[T any](items []T, container Ref[Container], opts ...Option[T]) *Engine[T] {
	e := &Engine[T]{
		options: &options[T]{
			height:   Constant[T](1),
			overscan: DefaultOverscan,
		},
		items:     items,
		container: container,
	}
	for _, opt := range opts {
		opt(e.options)
	}
	if e.prefixSums {
		e.prefix = &prefixSums[T]{}
	}
	e.scrollTo = NewLatest(e.ScrollTo)
	if e.scroll != nil {
		e.removeListener = e.scroll.AddScrollListener(e.HandleScroll)
	}
	return e
}

func (e *Engine[T]) calculator() Calculator[T] {
	return Calculator[T]{
		Items:  e.items,
		Height: e.height,
		prefix: e.prefix,
	}
}

// Resize reports the measured container size. The window is recomputed when
// the size changes to a non-empty value.
func (e *Engine[T]) Resize(size Size) {
	if e.closed || size == e.size {
		return
	}
	e.size = size
	if size.Empty() {
		return
	}
	e.recompute("resize")
}

// HandleScroll is the scroll listener. The notification caused by the last
// ScrollTo is swallowed since ScrollTo already recomputed.
func (e *Engine[T]) HandleScroll() {
	if e.closed {
		return
	}
	if e.sync.consume() {
		slog.Debug("Swallowed synthetic scroll event")
		return
	}
	e.recompute("scroll")
}

// SetItems replaces the collection. Passing the same slice (same backing
// array and length) is not a replacement and does nothing.
func (e *Engine[T]) SetItems(items []T) {
	if e.closed || sameSlice(e.items, items) {
		return
	}
	e.items = items
	if e.prefix != nil {
		e.prefix.invalidate()
	}
	if e.size.Empty() {
		return
	}
	e.recompute("items")
}

// SetHeight swaps the height model. It is read on the next recomputation.
func (e *Engine[T]) SetHeight(h Height[T]) {
	e.height = h
	if e.prefix != nil {
		e.prefix.invalidate()
	}
}

// SetOverscan swaps the overscan. It is read on the next recomputation.
func (e *Engine[T]) SetOverscan(n int) {
	e.overscan = n
}

// Invalidate drops cached heights and recomputes the window if the container
// has been measured. Call it after changing what a HeightFunc returns.
func (e *Engine[T]) Invalidate() {
	if e.closed {
		return
	}
	if e.prefix != nil {
		e.prefix.invalidate()
	}
	if e.size.Empty() {
		return
	}
	e.recompute("invalidate")
}

// ScrollTo scrolls the container so that the item at index is at the top and
// recomputes the window synchronously. index must be within [0, len(items)].
func (e *Engine[T]) ScrollTo(index int) {
	if e.closed {
		return
	}
	c, ok := e.container.Resolve()
	if !ok {
		slog.Debug("Container not resolvable, ignoring scroll", "index", index)
		return
	}

	wasAwaiting := e.sync.awaiting()
	before := c.ScrollOffset()
	// armed before the write, in case the host notifies synchronously
	e.sync.arm()
	c.SetScrollOffset(e.calculator().DistanceTo(index))
	if !wasAwaiting && c.ScrollOffset() == before {
		// the container did not move, no notification will come
		e.sync.disarm()
	}

	e.recompute("scroll-to")
}

// ScrollToFunc returns a ScrollTo function whose identity never changes.
func (e *Engine[T]) ScrollToFunc() func(int) {
	return e.scrollTo.Func()
}

// Window returns the last committed window. It returns false until the first
// recomputation happened.
func (e *Engine[T]) Window() (Window[T], bool) {
	return e.window, e.computed
}

// Items returns the current collection.
func (e *Engine[T]) Items() []T {
	return e.items
}

// HeightOf returns the height of the item at index under the current model.
func (e *Engine[T]) HeightOf(index int) float64 {
	return e.height.Of(e.items, index)
}

// DistanceTo returns the offset of the item at index from the top.
func (e *Engine[T]) DistanceTo(index int) float64 {
	return e.calculator().DistanceTo(index)
}

// Overscan returns the current overscan.
func (e *Engine[T]) Overscan() int {
	return e.overscan
}

// Recomputes returns how many windows have been committed.
func (e *Engine[T]) Recomputes() int {
	return e.recomputes
}

// Close removes the scroll listener and forgets geometry and pending
// synthetic events. The last window stays readable; every other method
// becomes a no-op.
func (e *Engine[T]) Close() {
	if e.closed {
		return
	}
	if e.removeListener != nil {
		e.removeListener()
		e.removeListener = nil
	}
	e.sync.disarm()
	e.size = Size{}
	e.closed = true
}

func (e *Engine[T]) recompute(reason string) bool {
	c, ok := e.container.Resolve()
	if !ok {
		slog.Debug("Container not resolvable, keeping window", "reason", reason)
		return false
	}
	var content Content
	if e.content != nil {
		content, ok = e.content.Resolve()
		if !ok {
			slog.Debug("Content not resolvable, keeping window", "reason", reason)
			return false
		}
	}

	w, ok := e.calculator().Window(c.ScrollOffset(), c.ViewportExtent(), e.overscan)
	if !ok {
		slog.Debug("Viewport not measured, keeping window", "reason", reason)
		return false
	}

	if content != nil {
		content.SetLayout(w.BlockExtent(), w.LeadingMargin())
	}
	e.window = w
	e.computed = true
	e.recomputes++

	if e.onChange != nil {
		e.onChange(w)
	}
	return true
}

func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
