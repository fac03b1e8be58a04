package capture

import "image"

// Phase is the lifecycle position of a Selection.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
	PhaseDragging
	PhaseCommitting
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseArmed:
		return "armed"
	case PhaseDragging:
		return "dragging"
	case PhaseCommitting:
		return "committing"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Selection tracks one rubber-band drag in surface coordinates.
type Selection struct {
	phase      Phase
	start, cur image.Point
}

func (s *Selection) Phase() Phase { return s.phase }

// Terminal reports whether the selection has committed or been cancelled.
func (s *Selection) Terminal() bool {
	return s.phase == PhaseCommitting || s.phase == PhaseCancelled
}

// Arm makes the selection ready for a press.
func (s *Selection) Arm() {
	if s.phase == PhaseIdle {
		s.phase = PhaseArmed
	}
}

// Press starts a drag at pt. It reports whether a redraw is needed.
func (s *Selection) Press(pt image.Point) bool {
	if s.phase != PhaseArmed && s.phase != PhaseIdle {
		return false
	}
	s.phase = PhaseDragging
	s.start, s.cur = pt, pt
	return true
}

// Move updates the drag end. It reports whether the rectangle changed.
func (s *Selection) Move(pt image.Point) bool {
	if s.phase != PhaseDragging || pt == s.cur {
		return false
	}
	s.cur = pt
	return true
}

// Release ends the drag at pt. The rectangle is returned with ok=true only
// when it has a non-zero area; otherwise the selection is cancelled.
func (s *Selection) Release(pt image.Point) (image.Rectangle, bool) {
	if s.phase != PhaseDragging {
		return image.Rectangle{}, false
	}
	s.cur = pt
	r := s.Rect()
	if r.Empty() {
		s.phase = PhaseCancelled
		return image.Rectangle{}, false
	}
	s.phase = PhaseCommitting
	return r, true
}

// Cancel abandons the selection. It reports whether anything changed.
func (s *Selection) Cancel() bool {
	if s.Terminal() {
		return false
	}
	s.phase = PhaseCancelled
	return true
}

// Rect is the normalized rectangle spanned by the drag, or the zero
// rectangle when no drag is in progress.
func (s *Selection) Rect() image.Rectangle {
	if s.phase != PhaseDragging && s.phase != PhaseCommitting {
		return image.Rectangle{}
	}
	return image.Rectangle{Min: s.start, Max: s.cur}.Canon()
}
