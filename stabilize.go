package windowing

import "math"

// deltaEpsilon absorbs float noise when opposite changes cancel out.
const deltaEpsilon = 1e-9

// stabilizer is the per-session scroll anchoring state. When items above
// the visible window change size after the session has rendered, the scroll
// offset must move by the same amount so the rows the user is looking at
// stay put. Deltas are summed over one measurement burst and applied once.
type stabilizer struct {
	mounted        bool
	sizeDeltaTotal float64
	adjustments    int
}

// record adds the delta of a change that lies strictly before startVisible.
func (s *stabilizer) record(ch SizeChange, startVisible int) {
	if !s.mounted || ch.Index >= startVisible {
		return
	}
	s.sizeDeltaTotal += ch.Delta()
}

// settle returns the net delta of the burst and resets it. A burst whose
// changes cancel out yields zero.
func (s *stabilizer) settle() float64 {
	d := s.sizeDeltaTotal
	s.sizeDeltaTotal = 0
	if math.Abs(d) < deltaEpsilon {
		return 0
	}
	s.adjustments++
	return d
}

// reset forgets the session's rendering history, as after a dataset switch.
func (s *stabilizer) reset() {
	*s = stabilizer{}
}
