package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mins(h, m int) int { return h*60 + m }

func TestIntervalValid(t *testing.T) {
	assert.True(t, Interval{Start: mins(9, 0), End: mins(10, 0)}.Valid())
	assert.False(t, Interval{Start: mins(10, 0), End: mins(10, 0)}.Valid(), "empty interval")
	assert.False(t, Interval{Start: mins(11, 0), End: mins(10, 0)}.Valid(), "inverted interval")
	assert.False(t, Interval{Start: -1, End: mins(1, 0)}.Valid())
	assert.False(t, Interval{Start: mins(23, 0), End: 24*60 + 1}.Valid())
}

func TestOverlapsHalfOpen(t *testing.T) {
	nineToTen := Interval{Start: mins(9, 0), End: mins(10, 0)}

	cases := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", Interval{mins(9, 0), mins(10, 0)}, true},
		{"straddles start", Interval{mins(8, 30), mins(9, 30)}, true},
		{"straddles end", Interval{mins(9, 30), mins(10, 30)}, true},
		{"contained", Interval{mins(9, 15), mins(9, 45)}, true},
		{"containing", Interval{mins(8, 0), mins(11, 0)}, true},
		{"back to back after", Interval{mins(10, 0), mins(11, 0)}, false},
		{"back to back before", Interval{mins(8, 0), mins(9, 0)}, false},
		{"disjoint", Interval{mins(13, 0), mins(14, 0)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nineToTen.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(nineToTen), "overlap must be symmetric")
		})
	}
}

// Mirrors the booking sequence from the engine's contract: A holds
// 09:00-10:00, B's 09:30-10:30 is rejected regardless of A's approval
// state, and B's 10:00-11:00 is admissible.
func TestAdmissibleScenario(t *testing.T) {
	busy := []Interval{{mins(9, 0), mins(10, 0)}}

	assert.False(t, Admissible(busy, Interval{mins(9, 30), mins(10, 30)}))
	assert.True(t, Admissible(busy, Interval{mins(10, 0), mins(11, 0)}))
	assert.True(t, Admissible(nil, Interval{mins(9, 30), mins(10, 30)}), "no busy slots")
	assert.False(t, Admissible(nil, Interval{mins(10, 0), mins(10, 0)}), "invalid candidate never admissible")
}
