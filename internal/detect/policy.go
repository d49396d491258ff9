package detect

import "sort"

// Decision is the outcome of thresholding one score vector.
type Decision struct {
	Detected bool
	Primary  *Detection
	Top      []Detection
}

// Decide converts a raw score vector into a thresholded decision. A class
// counts only when its score is strictly greater than threshold; a score
// exactly equal to it is not a detection. When two classes tie for the
// maximum, the lowest class id wins. Top holds at most the 3 best classes
// above threshold, ordered by descending score, ascending class id on ties.
// scores must have one entry per catalogue label.
func Decide(scores []float32, threshold float64) Decision {
	if len(scores) == 0 {
		return Decision{Top: []Detection{}}
	}

	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}

	ids := make([]int, len(scores))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(a, b int) bool {
		if scores[ids[a]] != scores[ids[b]] {
			return scores[ids[a]] > scores[ids[b]]
		}
		return ids[a] < ids[b]
	})

	top := make([]Detection, 0, 3)
	for _, id := range ids[:min(3, len(ids))] {
		if float64(scores[id]) > threshold {
			top = append(top, Detection{
				ClassID:    id,
				Label:      Labels[id],
				Confidence: float64(scores[id]),
			})
		}
	}

	d := Decision{Top: top}
	if float64(scores[best]) > threshold {
		d.Detected = true
		d.Primary = &Detection{
			ClassID:    best,
			Label:      Labels[best],
			Confidence: float64(scores[best]),
		}
	}
	return d
}
