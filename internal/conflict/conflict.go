// Package conflict implements the admissibility check for candidate
// booking slots.  It is purely computational: the repository layer
// fetches the blocking intervals for a place and day inside the booking
// transaction, and this package decides whether the candidate fits.
package conflict

// Interval is a half-open [Start, End) window expressed in minutes from
// midnight.  Half-open semantics let back-to-back bookings share a
// boundary minute: [09:00,10:00) and [10:00,11:00) do not overlap.
type Interval struct {
	Start int
	End   int
}

// Valid reports whether the interval is non-empty with both endpoints
// inside a single day.
func (iv Interval) Valid() bool {
	return iv.Start >= 0 && iv.End <= 24*60 && iv.Start < iv.End
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Admissible reports whether candidate can be booked against the given
// busy intervals.  The busy slice must already be restricted to
// blocking (pending or confirmed) reservations on the same place and
// day, with the reservation being edited excluded by the caller.
func Admissible(busy []Interval, candidate Interval) bool {
	if !candidate.Valid() {
		return false
	}
	for _, iv := range busy {
		if candidate.Overlaps(iv) {
			return false
		}
	}
	return true
}
