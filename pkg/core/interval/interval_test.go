package interval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Interval
		expected bool
	}{
		{"partial overlap", Interval{9, 15}, Interval{14, 20}, true},
		{"touching endpoints", Interval{9, 15}, Interval{15, 21}, false},
		{"touching endpoints reversed", Interval{15, 21}, Interval{9, 15}, false},
		{"contained", Interval{9, 15}, Interval{12, 14}, true},
		{"identical", Interval{3, 9}, Interval{3, 9}, true},
		{"disjoint", Interval{3, 9}, Interval{15, 21}, false},
		{"crossing midnight vs late evening", Interval{21, 27}, Interval{18, 24}, true},
		{"crossing midnight vs early morning same day", Interval{21, 27}, Interval{3, 9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.expected, Overlaps(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

func TestAnyOverlap(t *testing.T) {
	split := []Interval{{6, 9}, {17, 18.5}}

	assert.True(t, AnyOverlap(split, []Interval{{15, 21}}), "second part of split shift overlaps")
	assert.True(t, AnyOverlap(split, []Interval{{3, 9}}), "first part of split shift overlaps")
	assert.False(t, AnyOverlap(split, []Interval{{9, 15}}))
	assert.False(t, AnyOverlap(split, nil))
	assert.False(t, AnyOverlap(nil, split))
}

func TestGapHours(t *testing.T) {
	assert.Equal(t, 6.0, GapHours(0, Interval{15, 21}, 1, Interval{3, 9}))
	assert.Equal(t, 0.0, GapHours(0, Interval{9, 15}, 0, Interval{15, 21}))
	assert.Equal(t, -18.0, GapHours(1, Interval{3, 9}, 0, Interval{15, 21}))

	// 21:00-03:00 on day 0 ends at hour 27, next day's 09:00 start is hour 33
	assert.Equal(t, 6.0, GapHours(0, Interval{21, 27}, 1, Interval{9, 15}))
}

func TestRestGap_UsesValidOrdering(t *testing.T) {
	// Same value whichever argument comes first
	assert.Equal(t, 6.0, RestGap(0, Interval{15, 21}, 1, Interval{3, 9}))
	assert.Equal(t, 6.0, RestGap(1, Interval{3, 9}, 0, Interval{15, 21}))

	// Far apart shifts are never treated as a violation in the reverse ordering
	assert.Equal(t, 66.0, RestGap(0, Interval{9, 15}, 3, Interval{9, 15}))

	// Overlapping intervals produce a negative gap
	assert.Less(t, RestGap(0, Interval{9, 15}, 0, Interval{12, 14}), 0.0)
}

func TestViolatesRest(t *testing.T) {
	tests := []struct {
		name     string
		dayA     int
		setA     []Interval
		dayB     int
		setB     []Interval
		minRest  float64
		expected bool
	}{
		{"evening then early morning", 0, []Interval{{15, 21}}, 1, []Interval{{3, 9}}, 12, true},
		{"early morning then evening reversed args", 1, []Interval{{3, 9}}, 0, []Interval{{15, 21}}, 12, true},
		{"exact rest is allowed", 0, []Interval{{15, 21}}, 1, []Interval{{3, 9}}, 6, false},
		{"night into next morning", 0, []Interval{{21, 27}}, 1, []Interval{{3, 9}}, 8, true},
		{"same day well separated", 0, []Interval{{3, 9}}, 0, []Interval{{21, 27}}, 8, false},
		{"split shift second part too close", 0, []Interval{{6, 9}, {17, 18.5}}, 0, []Interval{{21, 27}}, 8, true},
		{"a week apart", 0, []Interval{{9, 15}}, 7, []Interval{{9, 15}}, 8, false},
		{"overlap always violates", 2, []Interval{{9, 13}}, 2, []Interval{{9, 15}}, 0, true},
		{"empty set never violates", 0, nil, 0, []Interval{{9, 15}}, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ViolatesRest(tt.dayA, tt.setA, tt.dayB, tt.setB, tt.minRest))
		})
	}
}

func TestTightestGap(t *testing.T) {
	a, b, gap, ok := TightestGap(0, []Interval{{6, 9}, {17, 18.5}}, 1, []Interval{{3, 9}})
	require.True(t, ok)
	assert.Equal(t, Interval{17, 18.5}, a)
	assert.Equal(t, Interval{3, 9}, b)
	assert.Equal(t, 8.5, gap)

	_, _, gap, ok = TightestGap(0, nil, 1, []Interval{{3, 9}})
	assert.False(t, ok)
	assert.True(t, math.IsInf(gap, 1))
}

func TestNew(t *testing.T) {
	iv, err := New(21, 27)
	require.NoError(t, err)
	assert.Equal(t, 6.0, iv.Duration())

	_, err = New(9, 9)
	assert.Error(t, err)

	_, err = New(-1, 3)
	assert.Error(t, err)

	_, err = New(24, 30)
	assert.Error(t, err)
}

func TestEarliestStartAndTotalHours(t *testing.T) {
	set := []Interval{{17, 18.5}, {6, 9}}
	assert.Equal(t, 6.0, EarliestStart(set))
	assert.Equal(t, 4.5, TotalHours(set))
	assert.True(t, math.IsInf(EarliestStart(nil), 1))
}
