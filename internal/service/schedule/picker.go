package schedule

import (
	"math/rand"
	"time"
)

// PickInstant selects a random instant from the clipped intervals.
//
// It consumes exactly two draws from rnd, in a fixed order: first a uniform
// interval index (uniform over the list, not weighted by duration), then a
// uniform whole second within [Start, End] inclusive. The order is part of
// the contract; reproducibility with a seeded source depends on it.
//
// The second return value is false when no interval remains; callers treat
// that as a normal skip, not an error.
func PickInstant(rnd *rand.Rand, intervals []Interval) (time.Time, bool) {
	if len(intervals) == 0 {
		return time.Time{}, false
	}

	interval := intervals[rnd.Intn(len(intervals))]

	start := interval.Start.Unix()
	end := interval.End.Unix()
	second := start + rnd.Int63n(end-start+1)

	return time.Unix(second, 0).In(interval.Start.Location()), true
}
