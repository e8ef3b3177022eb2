package list

import (
	"math"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/vlist/internal/virtual"
)

// ScrollMsg is the scroll notification a viewport emits after its offset
// changed. It is delivered asynchronously, like a browser scroll event, and
// changes made within one update are coalesced into a single message.
type ScrollMsg struct {
	viewport int64
}

var viewportIDs atomic.Int64

// viewport is the terminal counterpart of a scrollable element: it owns the
// scroll offset, clamps it to the extent reported by the last layout, and
// notifies listeners when the offset changed.
type viewport struct {
	id     int64
	offset int
	height int

	block, margin float64

	listeners map[int]func()
	nextID    int
	pending   bool
}

var (
	_ virtual.Container    = (*viewport)(nil)
	_ virtual.Content      = (*viewport)(nil)
	_ virtual.ScrollSource = (*viewport)(nil)
)

func newViewport() *viewport {
	return &viewport{
		id:        viewportIDs.Add(1),
		listeners: make(map[int]func()),
	}
}

// ScrollOffset implements virtual.Container.
func (v *viewport) ScrollOffset() float64 {
	return float64(v.offset)
}

// ViewportExtent implements virtual.Container.
func (v *viewport) ViewportExtent() float64 {
	return float64(v.height)
}

// SetScrollOffset implements virtual.Container.
func (v *viewport) SetScrollOffset(offset float64) {
	v.scrollTo(int(math.Round(offset)))
}

// SetLayout implements virtual.Content. A shrinking layout pulls the offset
// back into range, which is itself a scroll.
func (v *viewport) SetLayout(blockExtent, leadingMargin float64) {
	v.block = blockExtent
	v.margin = leadingMargin
	v.scrollTo(v.offset)
}

// AddScrollListener implements virtual.ScrollSource.
func (v *viewport) AddScrollListener(handler func()) func() {
	id := v.nextID
	v.nextID++
	v.listeners[id] = handler
	return func() {
		delete(v.listeners, id)
	}
}

func (v *viewport) total() int {
	return int(math.Ceil(v.block + v.margin))
}

func (v *viewport) maxOffset() int {
	return max(0, v.total()-v.height)
}

func (v *viewport) scrollTo(offset int) bool {
	offset = min(max(0, offset), v.maxOffset())
	if offset == v.offset {
		return false
	}
	v.offset = offset
	v.pending = true
	return true
}

func (v *viewport) scrollBy(delta int) bool {
	return v.scrollTo(v.offset + delta)
}

// handles reports whether msg was emitted by this viewport.
func (v *viewport) handles(msg ScrollMsg) bool {
	return msg.viewport == v.id
}

func (v *viewport) dispatch() {
	for _, h := range v.listeners {
		h()
	}
}

// drain returns the scroll notification queued since the last call, if any.
func (v *viewport) drain() tea.Cmd {
	if !v.pending {
		return nil
	}
	v.pending = false
	id := v.id
	return func() tea.Msg {
		return ScrollMsg{viewport: id}
	}
}
