package virtual

// syncState tracks whether a scroll notification caused by ScrollTo is still
// on its way.
type syncState int

const (
	stateIdle syncState = iota
	stateAwaitingSyntheticEvent
)

func (s syncState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitingSyntheticEvent:
		return "awaiting-synthetic-event"
	default:
		return "unknown"
	}
}

// scrollSync swallows the one scroll notification produced by a programmatic
// jump. At most one synthetic event is outstanding: arming twice before the
// notification arrives still swallows a single event.
//
// Only the next notification is swallowed. If the host delivers a jump as
// several notifications (smooth scrolling), the later ones recompute.
type scrollSync struct {
	state syncState
}

func (s *scrollSync) arm() {
	s.state = stateAwaitingSyntheticEvent
}

func (s *scrollSync) disarm() {
	s.state = stateIdle
}

func (s *scrollSync) awaiting() bool {
	return s.state == stateAwaitingSyntheticEvent
}

// consume is called for every scroll notification and reports whether it must
// be swallowed.
func (s *scrollSync) consume() bool {
	if s.state != stateAwaitingSyntheticEvent {
		return false
	}
	s.state = stateIdle
	return true
}
