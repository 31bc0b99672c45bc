// Package gesture turns horizontal touch movement into page navigation.
package gesture

// Threshold is the minimum horizontal travel, in the input's coordinate
// units, for a touch to count as a swipe. Travel of exactly Threshold is
// not a swipe.
const Threshold = 50.0

// Direction is the page step a gesture maps to.
type Direction int

const (
	None Direction = 0
	Next Direction = 1
	Prev Direction = -1
)

// Delta returns the cursor step for the direction.
func (d Direction) Delta() int { return int(d) }

func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Prev:
		return "prev"
	}
	return "none"
}

// Touch is one touch interaction. Start is the x coordinate where the
// finger landed and End the last x coordinate seen while it moved. Either
// may be missing (a tap never moves).
type Touch struct {
	Start *float64
	End   *float64
}

// Classify maps a start and end x coordinate to a direction. Moving the
// finger left (start > end) pages forward.
func Classify(start, end float64) Direction {
	distance := start - end
	switch {
	case distance > Threshold:
		return Next
	case distance < -Threshold:
		return Prev
	}
	return None
}

// Route classifies a touch. Incomplete touches, and touches while the
// current view has no paginated list, are ignored.
func Route(t Touch, paged bool) Direction {
	if !paged || t.Start == nil || t.End == nil {
		return None
	}
	return Classify(*t.Start, *t.End)
}
