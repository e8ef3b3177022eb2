package list

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vlist/internal/tui/components/core/layout"
	"github.com/charmbracelet/vlist/internal/tui/components/placeholder"
	"github.com/charmbracelet/vlist/internal/tui/styles"
	"github.com/charmbracelet/vlist/internal/tui/util"
	"github.com/charmbracelet/vlist/internal/virtual"
	"github.com/charmbracelet/x/ansi"
)

// RenderFunc draws the item at index into at most height lines of width
// cells.
type RenderFunc[T any] func(index int, item T, width, height int) string

type List[T any] interface {
	util.Model
	layout.Sizeable

	SetItems([]T) tea.Cmd
	SetHeight(virtual.Height[T]) tea.Cmd
	SetOverscan(int) tea.Cmd
	// ScrollTo puts the item at index at the top of the viewport.
	ScrollTo(index int) tea.Cmd
	// ScrollBy moves the viewport by delta lines.
	ScrollBy(delta int) tea.Cmd
	Window() (virtual.Window[T], bool)
	Offset() int
	Recomputes() int
	Items() []T
	Close()
}

const (
	ViewportDefaultScrollSize = 2
)

type confOptions struct {
	width, height int
	keyMap        KeyMap
	enableMouse   bool
	scrollbar     bool
	overscan      int
	prefixSums    bool
	placeholder   *placeholder.Placeholder
}

type list[T any] struct {
	*confOptions

	vp     *viewport
	engine *virtual.Engine[T]
	render RenderFunc[T]

	// last committed window and the offset it was computed for
	window       virtual.Window[T]
	windowOffset int
	hasWindow    bool
}

type ListOption func(*confOptions)

// WithSize sets the size of the list.
func WithSize(width, height int) ListOption {
	return func(l *confOptions) {
		l.width = width
		l.height = height
	}
}

func WithKeyMap(keyMap KeyMap) ListOption {
	return func(l *confOptions) {
		l.keyMap = keyMap
	}
}

func WithEnableMouse() ListOption {
	return func(l *confOptions) {
		l.enableMouse = true
	}
}

// WithScrollbar toggles the scrollbar column on the right.
func WithScrollbar(enabled bool) ListOption {
	return func(l *confOptions) {
		l.scrollbar = enabled
	}
}

// WithPlaceholder shows message when the list has no items.
func WithPlaceholder(message string) ListOption {
	return func(l *confOptions) {
		l.placeholder = placeholder.New(message)
	}
}

// WithOverscan sets how many items are rendered above and below the viewport.
func WithOverscan(n int) ListOption {
	return func(l *confOptions) {
		l.overscan = n
	}
}

// WithPrefixSums caches cumulative item heights. Only useful with computed
// heights.
func WithPrefixSums() ListOption {
	return func(l *confOptions) {
		l.prefixSums = true
	}
}

func New[T any](items []T, height virtual.Height[T], render RenderFunc[T], opts ...ListOption) List[T] {
	l := &list[T]{
		confOptions: &confOptions{
			keyMap:    DefaultKeyMap(),
			scrollbar: true,
			overscan:  virtual.DefaultOverscan,
		},
		vp:     newViewport(),
		render: render,
	}
	for _, opt := range opts {
		opt(l.confOptions)
	}

	engineOpts := []virtual.Option[T]{
		virtual.WithHeight(height),
		virtual.WithOverscan[T](l.overscan),
		virtual.WithContent[T](virtual.Static[virtual.Content](l.vp)),
		virtual.WithScrollSource[T](l.vp),
		virtual.WithOnChange(l.commit),
	}
	if l.prefixSums {
		engineOpts = append(engineOpts, virtual.WithPrefixSums[T]())
	}
	l.engine = virtual.New(items, virtual.Static[virtual.Container](l.vp), engineOpts...)
	return l
}

// Init implements List.
func (l *list[T]) Init() tea.Cmd {
	if l.width <= 0 || l.height <= 0 {
		return nil
	}
	return l.resize()
}

// Update implements List.
func (l *list[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ScrollMsg:
		if !l.vp.handles(msg) {
			return l, nil
		}
		l.vp.dispatch()
		return l, l.vp.drain()
	case tea.MouseWheelMsg:
		if l.enableMouse {
			return l.handleMouseWheel(msg)
		}
		return l, nil
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, l.keyMap.Down):
			return l, l.ScrollBy(1)
		case key.Matches(msg, l.keyMap.Up):
			return l, l.ScrollBy(-1)
		case key.Matches(msg, l.keyMap.NextItem):
			return l, l.nextItem()
		case key.Matches(msg, l.keyMap.PrevItem):
			return l, l.prevItem()
		case key.Matches(msg, l.keyMap.HalfPageDown):
			return l, l.ScrollBy(l.height / 2)
		case key.Matches(msg, l.keyMap.HalfPageUp):
			return l, l.ScrollBy(-l.height / 2)
		case key.Matches(msg, l.keyMap.PageDown):
			return l, l.ScrollBy(l.height)
		case key.Matches(msg, l.keyMap.PageUp):
			return l, l.ScrollBy(-l.height)
		case key.Matches(msg, l.keyMap.End):
			return l, l.ScrollTo(max(0, len(l.engine.Items())-1))
		case key.Matches(msg, l.keyMap.Home):
			return l, l.ScrollTo(0)
		}
	}
	return l, nil
}

func (l *list[T]) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.Button {
	case tea.MouseWheelDown:
		cmd = l.ScrollBy(ViewportDefaultScrollSize)
	case tea.MouseWheelUp:
		cmd = l.ScrollBy(-ViewportDefaultScrollSize)
	}
	return l, cmd
}

// View implements List.
func (l *list[T]) View() string {
	if l.height <= 0 || l.width <= 0 {
		return ""
	}
	t := styles.CurrentTheme()
	width := l.contentWidth()

	content := strings.Join(l.paint(width), "\n")
	if l.placeholder != nil && len(l.engine.Items()) == 0 {
		content = t.S().Muted.Render(l.placeholder.Render(width, l.height))
	}
	view := t.S().Base.
		Width(width).
		Height(l.height).
		Render(content)

	if !l.scrollbar {
		return view
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, view, l.scrollbarView())
}

// paint lays the materialized items out at their absolute positions and
// returns the lines visible at the committed offset.
func (l *list[T]) paint(width int) []string {
	lines := make([]string, l.height)
	if !l.hasWindow || width <= 0 {
		return lines
	}

	y := int(math.Round(l.window.LeadingMargin())) - l.windowOffset
	for _, item := range l.window.Items {
		if y >= l.height {
			break
		}
		h := int(math.Round(l.engine.HeightOf(item.Index)))
		if h <= 0 {
			continue
		}
		if y+h > 0 {
			view := l.render(item.Index, item.Data, width, h)
			for i, line := range strings.Split(view, "\n") {
				if i >= h {
					break
				}
				if row := y + i; row >= 0 && row < l.height {
					lines[row] = ansi.Truncate(line, width, "…")
				}
			}
		}
		y += h
	}
	return lines
}

func (l *list[T]) scrollbarView() string {
	t := styles.CurrentTheme()
	track := make([]string, l.height)
	for i := range track {
		track[i] = t.S().ScrollbarTrack.Render("│")
	}

	total := int(math.Ceil(l.window.TotalExtent))
	if !l.hasWindow || total <= l.height {
		return strings.Join(track, "\n")
	}

	thumb := max(1, l.height*l.height/total)
	scrollable := total - l.height
	pos := int(math.Round(float64(l.windowOffset) / float64(scrollable) * float64(l.height-thumb)))
	pos = min(max(0, pos), l.height-thumb)
	for i := pos; i < pos+thumb; i++ {
		track[i] = t.S().ScrollbarThumb.Render("┃")
	}
	return strings.Join(track, "\n")
}

func (l *list[T]) contentWidth() int {
	if l.scrollbar {
		return max(0, l.width-1)
	}
	return l.width
}

func (l *list[T]) commit(w virtual.Window[T]) {
	l.window = w
	l.windowOffset = l.vp.offset
	l.hasWindow = true
}

func (l *list[T]) resize() tea.Cmd {
	l.vp.height = l.height
	l.engine.Resize(virtual.Size{
		Width:  float64(l.contentWidth()),
		Height: float64(l.height),
	})
	return l.vp.drain()
}

// topIndex returns the item under the first line of the viewport.
func (l *list[T]) topIndex() int {
	w, ok := l.engine.Window()
	if !ok {
		return 0
	}
	offset := float64(l.vp.offset)
	y := w.LeadingOffset
	for _, item := range w.Items {
		y += l.engine.HeightOf(item.Index)
		if y > offset {
			return item.Index
		}
	}
	return max(w.Start, w.End-1)
}

func (l *list[T]) nextItem() tea.Cmd {
	n := len(l.engine.Items())
	if n == 0 {
		return nil
	}
	return l.ScrollTo(min(l.topIndex()+1, n-1))
}

func (l *list[T]) prevItem() tea.Cmd {
	if len(l.engine.Items()) == 0 {
		return nil
	}
	top := l.topIndex()
	if float64(l.vp.offset) > l.engine.DistanceTo(top) {
		// partially scrolled past, realign on it first
		return l.ScrollTo(top)
	}
	return l.ScrollTo(max(0, top-1))
}

// SetSize implements List.
func (l *list[T]) SetSize(width int, height int) tea.Cmd {
	l.width = width
	l.height = height
	return l.resize()
}

// GetSize implements List.
func (l *list[T]) GetSize() (int, int) {
	return l.width, l.height
}

// SetItems implements List.
func (l *list[T]) SetItems(items []T) tea.Cmd {
	l.engine.SetItems(items)
	return l.vp.drain()
}

// SetHeight implements List.
func (l *list[T]) SetHeight(h virtual.Height[T]) tea.Cmd {
	l.engine.SetHeight(h)
	l.engine.Invalidate()
	return l.vp.drain()
}

// SetOverscan implements List.
func (l *list[T]) SetOverscan(n int) tea.Cmd {
	l.overscan = n
	l.engine.SetOverscan(n)
	l.engine.Invalidate()
	return l.vp.drain()
}

// ScrollTo implements List.
func (l *list[T]) ScrollTo(index int) tea.Cmd {
	index = min(max(0, index), len(l.engine.Items()))
	l.engine.ScrollToFunc()(index)
	return l.vp.drain()
}

// ScrollBy implements List.
func (l *list[T]) ScrollBy(delta int) tea.Cmd {
	l.vp.scrollBy(delta)
	return l.vp.drain()
}

// Window implements List.
func (l *list[T]) Window() (virtual.Window[T], bool) {
	return l.window, l.hasWindow
}

// Offset implements List.
func (l *list[T]) Offset() int {
	return l.vp.offset
}

// Recomputes implements List.
func (l *list[T]) Recomputes() int {
	return l.engine.Recomputes()
}

// Items implements List.
func (l *list[T]) Items() []T {
	return l.engine.Items()
}

// Close implements List.
func (l *list[T]) Close() {
	l.engine.Close()
}
