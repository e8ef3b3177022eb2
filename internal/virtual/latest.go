package virtual

// Latest holds the most recent version of a function and hands out a
// trampoline with a fixed identity that always calls it. Long-lived
// subscribers keep the trampoline while the body behind it is replaced.
type Latest[A any] struct {
	fn     func(A)
	stable func(A)
}

// NewLatest returns a holder initialized with fn.
func NewLatest[A any](fn func(A)) *Latest[A] {
	l := &Latest[A]{fn: fn}
	l.stable = func(a A) {
		if l.fn != nil {
			l.fn(a)
		}
	}
	return l
}

// Update replaces the function called by the trampoline.
func (l *Latest[A]) Update(fn func(A)) {
	l.fn = fn
}

// Func returns the trampoline. Every call returns the same function value.
func (l *Latest[A]) Func() func(A) {
	return l.stable
}
