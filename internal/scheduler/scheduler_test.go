package scheduler

import (
	"reflect"
	"testing"
)

func TestScheduleKnapsackTightFit(t *testing.T) {
	items := []Item{
		{Value: 10, CostBW: 3, CostEnergy: 3},
		{Value: 8, CostBW: 2, CostEnergy: 2},
		{Value: 7, CostBW: 1, CostEnergy: 4},
	}

	got, err := Schedule(items, 5, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScheduleIndicesStrictlyIncreasingAndWithinCapacity(t *testing.T) {
	items := []Item{
		{Value: 4, CostBW: 2, CostEnergy: 1},
		{Value: 3, CostBW: 1, CostEnergy: 2},
		{Value: 5, CostBW: 2, CostEnergy: 2},
		{Value: 2, CostBW: 1, CostEnergy: 1},
	}

	got, err := Schedule(items, 4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sumBW, sumEnergy int
	for i, idx := range got {
		if i > 0 && got[i-1] >= idx {
			t.Fatalf("indices not strictly increasing: %v", got)
		}
		sumBW += items[idx].CostBW
		sumEnergy += items[idx].CostEnergy
	}
	if sumBW > 4 || sumEnergy > 4 {
		t.Fatalf("selection %v exceeds capacity: bw=%d energy=%d", got, sumBW, sumEnergy)
	}
}

func TestScheduleNegativeValueItemsNeverSelected(t *testing.T) {
	items := []Item{
		{Value: -1, CostBW: 0, CostEnergy: 0},
		{Value: -5, CostBW: 1, CostEnergy: 1},
	}

	got, err := Schedule(items, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no items selected, got %v", got)
	}
}

func TestScheduleEmptyInput(t *testing.T) {
	got, err := Schedule(nil, 5, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil selection for empty input, got %v", got)
	}
}

func TestScheduleRejectsNegativeCapacity(t *testing.T) {
	_, err := Schedule([]Item{{Value: 1}}, -1, 5)
	if err != ErrNegativeCapacity {
		t.Fatalf("expected ErrNegativeCapacity, got %v", err)
	}
}
