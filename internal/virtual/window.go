package virtual

// Item is a materialized element tagged with its absolute index in the
// collection.
type Item[T any] struct {
	Index int
	Data  T
}

// Window is the result of one recomputation: the materialized range
// [Start, End) and the offsets that keep scroll geometry identical to the
// full collection.
//
// A Window is never edited after it is produced. Consumers must treat Items
// as read-only.
type Window[T any] struct {
	Start int
	End   int
	Items []Item[T]

	// TotalExtent is the height of the whole collection.
	TotalExtent float64
	// LeadingOffset is the height of items [0, Start).
	LeadingOffset float64
}

// BlockExtent is the size to apply to the rendered block itself. Together with
// LeadingMargin it adds up to TotalExtent, so the scrollbar reflects the full
// collection.
func (w Window[T]) BlockExtent() float64 {
	return w.TotalExtent - w.LeadingOffset
}

// LeadingMargin is the blank space to put before the rendered block.
func (w Window[T]) LeadingMargin() float64 {
	return w.LeadingOffset
}

// Len returns the number of materialized items.
func (w Window[T]) Len() int {
	return w.End - w.Start
}

// Contains reports whether index lies within [Start, End].
func (w Window[T]) Contains(index int) bool {
	return index >= w.Start && index <= w.End
}

// SameRange reports whether both windows materialize the same range with the
// same geometry.
func (w Window[T]) SameRange(o Window[T]) bool {
	return w.Start == o.Start &&
		w.End == o.End &&
		w.TotalExtent == o.TotalExtent &&
		w.LeadingOffset == o.LeadingOffset
}
