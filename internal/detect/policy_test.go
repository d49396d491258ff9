package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scoresWith(vals map[int]float32) []float32 {
	s := make([]float32, NumClasses)
	for id, v := range vals {
		s[id] = v
	}
	return s
}

func TestLabelsCatalogue(t *testing.T) {
	require.Len(t, Labels, NumClasses)
	require.Equal(t, "Stop", Labels[14])
	require.Equal(t, "Speed limit (20km/h)", Labels[0])
	require.Equal(t, "End no passing veh > 3.5 tons", Labels[42])
}

func TestDecideStopSign(t *testing.T) {
	s := scoresWith(map[int]float32{14: 0.98, 1: 0.35, 2: 0.1})

	d := Decide(s, 0.3)

	require.True(t, d.Detected)
	require.NotNil(t, d.Primary)
	require.Equal(t, 14, d.Primary.ClassID)
	require.Equal(t, "Stop", d.Primary.Label)
	require.InDelta(t, 0.98, d.Primary.Confidence, 1e-6)

	// Only the two entries above the threshold survive, best first.
	require.Len(t, d.Top, 2)
	require.Equal(t, 14, d.Top[0].ClassID)
	require.Equal(t, 1, d.Top[1].ClassID)
}

func TestDecideDetectedMatchesMax(t *testing.T) {
	tests := []struct {
		name      string
		max       float32
		threshold float64
		detected  bool
	}{
		{"above threshold", 0.31, 0.3, true},
		{"below threshold", 0.29, 0.3, false},
		{"exactly at threshold is not a detection", 0.3, 0.3, false},
		{"zero threshold, zero scores", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(scoresWith(map[int]float32{7: tt.max}), tt.threshold)
			require.Equal(t, tt.detected, d.Detected)
			if tt.detected {
				require.NotNil(t, d.Primary)
				require.Equal(t, 7, d.Primary.ClassID)
				require.InDelta(t, float64(tt.max), d.Primary.Confidence, 1e-6)
			} else {
				require.Nil(t, d.Primary)
			}
		})
	}
}

func TestDecideAllBelowThreshold(t *testing.T) {
	s := scoresWith(map[int]float32{3: 0.2, 9: 0.15, 30: 0.1})

	d := Decide(s, 0.3)

	require.False(t, d.Detected)
	require.Nil(t, d.Primary)
	require.Empty(t, d.Top)
	require.NotNil(t, d.Top)
}

func TestDecideTieGoesToLowestClassID(t *testing.T) {
	s := scoresWith(map[int]float32{5: 0.7, 21: 0.7, 38: 0.7})

	d := Decide(s, 0.3)

	require.True(t, d.Detected)
	require.Equal(t, 5, d.Primary.ClassID)
	// Equal scores keep ascending class id order in the top list.
	require.Equal(t, []int{5, 21, 38}, classIDs(d.Top))
}

func TestDecideTopIsCappedSortedAndFiltered(t *testing.T) {
	s := scoresWith(map[int]float32{1: 0.9, 2: 0.8, 3: 0.7, 4: 0.6, 5: 0.5})

	d := Decide(s, 0.3)

	require.Len(t, d.Top, 3)
	require.Equal(t, []int{1, 2, 3}, classIDs(d.Top))
	for i := 1; i < len(d.Top); i++ {
		require.GreaterOrEqual(t, d.Top[i-1].Confidence, d.Top[i].Confidence)
	}
	for _, p := range d.Top {
		require.Greater(t, p.Confidence, 0.3)
		require.Equal(t, Labels[p.ClassID], p.Label)
	}
}

func TestDecideTopMayBeShorterThanThree(t *testing.T) {
	// Only the argmax clears the threshold: detected, single entry.
	s := scoresWith(map[int]float32{10: 0.6, 11: 0.2, 12: 0.1})

	d := Decide(s, 0.3)

	require.True(t, d.Detected)
	require.Equal(t, []int{10}, classIDs(d.Top))
}

func classIDs(ds []Detection) []int {
	ids := make([]int, len(ds))
	for i, d := range ds {
		ids[i] = d.ClassID
	}
	return ids
}
