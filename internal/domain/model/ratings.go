package model

import "math"

// NeutralRating is the cold-start prior for any team or conference.
const NeutralRating = 0.5

// Ratings maps team or conference ids to scalar ratings in (0,1).
// A PageRank output additionally sums to 1 within tolerance.
type Ratings map[string]float64

// UniformRatings assigns NeutralRating to every id.
func UniformRatings(ids []string) Ratings {
	r := make(Ratings, len(ids))
	for _, id := range ids {
		r[id] = NeutralRating
	}
	return r
}

// Clone returns an independent copy.
func (r Ratings) Clone() Ratings {
	out := make(Ratings, len(r))
	for id, v := range r {
		out[id] = v
	}
	return out
}

// Get returns the rating for id, or NeutralRating when absent.
func (r Ratings) Get(id string) float64 {
	if v, ok := r[id]; ok {
		return v
	}
	return NeutralRating
}

// Mean returns the arithmetic mean rating, or 0 for an empty map.
func (r Ratings) Mean() float64 {
	if len(r) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r {
		sum += v
	}
	return sum / float64(len(r))
}

// Normalize rescales ratings to sum to 1. An all-zero or empty map is
// returned unchanged rather than dividing by zero.
func (r Ratings) Normalize() Ratings {
	sum := 0.0
	for _, v := range r {
		sum += v
	}
	if sum == 0 {
		return r
	}
	out := make(Ratings, len(r))
	for id, v := range r {
		out[id] = v / sum
	}
	return out
}

// MaxDelta returns the largest absolute rating change over ids present in
// both maps. Disjoint maps yield 0.
func (r Ratings) MaxDelta(other Ratings) float64 {
	maxDelta := 0.0
	for id, v := range r {
		o, ok := other[id]
		if !ok {
			continue
		}
		if d := math.Abs(v - o); d > maxDelta {
			maxDelta = d
		}
	}
	return maxDelta
}
