package interconnect

// TransmissionData is the fixed per-unit routing entry for one observer id
// (spec.md §4.8): which outgoing link to use, the remaining hop counts to
// reach the destination unit, and the value id to write on arrival.
type TransmissionData struct {
	OutLink     string
	DX, DY      int
	DestValueID int
}

// Route decides the next hop for a payload already carrying remaining hop
// counts (spec.md §4.8: "each hop calls next_link(payload); if Δx=Δy=0 the
// payload has arrived; otherwise the implementation's policy decrements one
// coordinate"). This implementation drains DX before DY; Arrived reports
// whether both coordinates were already zero, in which case DX/DY are left
// untouched and no further hop is needed.
func Route(dx, dy int) (nextDX, nextDY int, arrived bool) {
	if dx == 0 && dy == 0 {
		return dx, dy, true
	}
	if dx != 0 {
		if dx > 0 {
			dx--
		} else {
			dx++
		}
		return dx, dy, false
	}
	if dy > 0 {
		dy--
	} else {
		dy++
	}
	return dx, dy, false
}
