package virtual

// HeightFunc returns the height of the item at index.
type HeightFunc[T any] func(index int, item T) float64

// Height resolves the height of any item by index. The zero value is not
// usable; build one with Constant or Computed.
//
// Heights must be strictly positive. Zero or negative heights are a caller
// error and the resulting windows are undefined.
type Height[T any] struct {
	constant float64
	fn       HeightFunc[T]
}

// Constant returns a height model where every item is h tall.
func Constant[T any](h float64) Height[T] {
	return Height[T]{constant: h}
}

// Computed returns a height model that asks fn for every item. fn must return
// the same value for a given index for the duration of one recomputation.
func Computed[T any](fn HeightFunc[T]) Height[T] {
	return Height[T]{fn: fn}
}

// IsConstant reports whether every item has the same height.
func (h Height[T]) IsConstant() bool {
	return h.fn == nil
}

// Constant returns the fixed item height, or 0 for computed models.
func (h Height[T]) Constant() float64 {
	if h.fn != nil {
		return 0
	}
	return h.constant
}

// Of returns the height of items[index].
func (h Height[T]) Of(items []T, index int) float64 {
	if h.fn == nil {
		return h.constant
	}
	return h.fn(index, items[index])
}
