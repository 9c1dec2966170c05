package windowing

import "fmt"

// Align is the policy for where a target item lands in the viewport.
type Align uint8

const (
	// AlignAuto scrolls as little as possible to make the item fully visible.
	AlignAuto Align = iota
	// AlignSmart behaves like AlignAuto for items within one viewport of the
	// current position and like AlignCenter for anything further away.
	AlignSmart
	AlignStart
	AlignEnd
	AlignCenter
)

var alignNames = [...]string{
	AlignAuto:   "auto",
	AlignSmart:  "smart",
	AlignStart:  "start",
	AlignEnd:    "end",
	AlignCenter: "center",
}

func (a Align) String() string {
	if int(a) < len(alignNames) {
		return alignNames[a]
	}
	return fmt.Sprintf("Align(%d)", a)
}

// ParseAlign maps an alignment name to its Align.
func ParseAlign(s string) (Align, error) {
	for i, name := range alignNames {
		if name == s {
			return Align(i), nil
		}
	}
	return AlignAuto, configError("unknown alignment %q", s)
}

// OffsetRequest holds the inputs of ResolveOffset.
type OffsetRequest struct {
	Index         int
	Align         Align
	ScrollOffset  float64
	ContainerSize float64
	// ScrollbarSize is space reserved by a scrollbar on the cross axis; it
	// pushes the end-aligned offset so the item is not hidden behind it.
	ScrollbarSize float64
}

// ResolveOffset returns the scroll offset that places req.Index according
// to req.Align. The result is never below zero nor past the last scrollable
// offset.
func ResolveOffset(m Measurer, req OffsetRequest) (float64, error) {
	if err := checkIndex(req.Index, m.ItemCount()); err != nil {
		return 0, err
	}
	container := req.ContainerSize
	b := m.Bounds(req.Index)

	maxOffset := ClampScroll(m, b.Offset, container)
	minOffset := ClampScroll(m, b.Offset-container+b.Size+req.ScrollbarSize, container)
	current := ClampScroll(m, req.ScrollOffset, container)

	align := req.Align
	if align == AlignSmart {
		if current >= minOffset-container && current <= maxOffset+container {
			align = AlignAuto
		} else {
			align = AlignCenter
		}
	}

	switch align {
	case AlignStart:
		return maxOffset, nil
	case AlignEnd:
		return minOffset, nil
	case AlignCenter:
		return ClampScroll(m, minOffset+(maxOffset-minOffset)/2, container), nil
	default:
		switch {
		case current >= minOffset && current <= maxOffset:
			return current, nil
		case current < minOffset:
			return minOffset, nil
		default:
			return maxOffset, nil
		}
	}
}
