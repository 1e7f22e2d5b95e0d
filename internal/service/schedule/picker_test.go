package schedule

import (
	"math/rand"
	"testing"
	"time"
)

func TestPickInstantEmpty(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	if _, ok := PickInstant(rnd, nil); ok {
		t.Error("expected no instant from empty interval list")
	}
}

func TestPickInstantWithinBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	intervals := []Interval{
		{
			Start: time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 1, 7, 14, 0, 0, 0, time.UTC),
		},
		{
			Start: time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 1, 9, 14, 0, 0, 0, time.UTC),
		},
	}

	for i := 0; i < 1000; i++ {
		instant, ok := PickInstant(rnd, intervals)
		if !ok {
			t.Fatal("expected an instant")
		}

		inside := false
		for _, interval := range intervals {
			if !instant.Before(interval.Start) && !instant.After(interval.End) {
				inside = true
				break
			}
		}
		if !inside {
			t.Fatalf("instant %v outside every interval", instant)
		}
	}
}

func TestPickInstantDeterministicWithSeed(t *testing.T) {
	intervals := []Interval{
		{
			Start: time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 1, 7, 14, 0, 0, 0, time.UTC),
		},
		{
			Start: time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 1, 9, 14, 0, 0, 0, time.UTC),
		},
	}

	first, ok := PickInstant(rand.New(rand.NewSource(42)), intervals)
	if !ok {
		t.Fatal("expected an instant")
	}
	second, ok := PickInstant(rand.New(rand.NewSource(42)), intervals)
	if !ok {
		t.Fatal("expected an instant")
	}

	if !first.Equal(second) {
		t.Errorf("same seed produced different instants: %v vs %v", first, second)
	}
}

func TestPickInstantPointInterval(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	point := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)

	instant, ok := PickInstant(rnd, []Interval{{Start: point, End: point}})
	if !ok {
		t.Fatal("expected an instant")
	}
	if !instant.Equal(point) {
		t.Errorf("expected %v, got %v", point, instant)
	}
}
