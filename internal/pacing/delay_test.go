package pacing

import (
	"reflect"
	"testing"
)

func TestDelaysWithinBounds(t *testing.T) {
	s := NewScheduler(1)
	for i := 0; i < 200; i++ {
		for _, d := range s.Delays(3, 500, 2000) {
			if d < 500 || d > 2000 {
				t.Fatalf("delay %d outside [500, 2000]", d)
			}
		}
	}
}

func TestDelaysSwapsInvertedBounds(t *testing.T) {
	s := NewScheduler(1)
	for _, d := range s.Delays(5, 2000, 500) {
		if d < 500 || d > 2000 {
			t.Fatalf("delay %d outside [500, 2000] after swap", d)
		}
	}
}

func TestDelaysDegenerateRange(t *testing.T) {
	s := NewScheduler(1)
	for _, d := range s.Delays(4, 700, 700) {
		if d != 700 {
			t.Fatalf("delay = %d, want 700", d)
		}
	}
}

func TestDelaysZeroParts(t *testing.T) {
	if got := NewScheduler(1).Delays(0, 500, 2000); got != nil {
		t.Fatalf("Delays(0, ...) = %v, want nil", got)
	}
}

func TestDelaysSeededReproducible(t *testing.T) {
	a := NewScheduler(99).Delays(6, 500, 2000)
	b := NewScheduler(99).Delays(6, 500, 2000)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced %v and %v", a, b)
	}
}
