// Package scheduler selects a subset of packets to forward under two
// independent cost budgets using a two-dimensional 0/1 knapsack dynamic
// program.
package scheduler

import "errors"

// ErrNegativeCapacity is returned when either capacity is negative.
var ErrNegativeCapacity = errors.New("scheduler: capacity must be nonnegative")

// Item is one packet's scheduling inputs: its objective value and its two
// resource costs. Value may be negative; a negative-value item is never
// selected, since including it can only reduce the objective.
type Item struct {
	Value      float64
	CostBW     int
	CostEnergy int
}

// Schedule runs the two-constraint 0/1 knapsack over items and returns the
// strictly-increasing indices of the selected subset. Costs that exceed
// either capacity individually are never selectable.
func Schedule(items []Item, capBW, capEnergy int) ([]int, error) {
	if capBW < 0 || capEnergy < 0 {
		return nil, ErrNegativeCapacity
	}
	n := len(items)
	if n == 0 {
		return nil, nil
	}

	// keep[i][c1][c2] records whether item i-1 was taken to reach the
	// optimum at (i, c1, c2); sized once up front rather than folded into
	// two rolling planes, since reconstruction needs every row's decision.
	keep := make([][][]bool, n+1)
	for i := range keep {
		keep[i] = make([][]bool, capBW+1)
		for c1 := range keep[i] {
			keep[i][c1] = make([]bool, capEnergy+1)
		}
	}

	// prev/curr are the rolling value planes indexed by (c1, c2); only two
	// rows of the prefix dimension are ever live at once.
	prev := make([][]float64, capBW+1)
	curr := make([][]float64, capBW+1)
	for c1 := 0; c1 <= capBW; c1++ {
		prev[c1] = make([]float64, capEnergy+1)
		curr[c1] = make([]float64, capEnergy+1)
	}

	for i := 1; i <= n; i++ {
		item := items[i-1]
		for c1 := 0; c1 <= capBW; c1++ {
			for c2 := 0; c2 <= capEnergy; c2++ {
				skipValue := prev[c1][c2]
				takeValue := skipValue
				canTake := item.Value > 0 && item.CostBW <= c1 && item.CostEnergy <= c2
				if canTake {
					candidate := prev[c1-item.CostBW][c2-item.CostEnergy] + item.Value
					if candidate > skipValue {
						takeValue = candidate
					}
				}
				if canTake && takeValue > skipValue {
					curr[c1][c2] = takeValue
					keep[i][c1][c2] = true
				} else {
					curr[c1][c2] = skipValue
					keep[i][c1][c2] = false
				}
			}
		}
		prev, curr = curr, prev
	}

	var selected []int
	c1, c2 := capBW, capEnergy
	for i := n; i >= 1; i-- {
		if keep[i][c1][c2] {
			selected = append(selected, i-1)
			c1 -= items[i-1].CostBW
			c2 -= items[i-1].CostEnergy
		}
	}

	// Reverse into strictly-increasing index order.
	for l, r := 0, len(selected)-1; l < r; l, r = l+1, r-1 {
		selected[l], selected[r] = selected[r], selected[l]
	}
	return selected, nil
}
