package collect

import (
	"errors"
	"math"
)

// Item is one entry of the weighted pool.
type Item struct {
	ID     int  `json:"id"`     // 1-based, input order
	Weight int  `json:"weight"` // relative draw mass
	Target bool `json:"target"` // must be collected for a trial to finish
}

// ItemSet is an immutable weighted pool. Build it with NewItemSet.
type ItemSet struct {
	items       []Item
	weightSum   int
	targetCount int
}

// NewItemSet builds the pool from weights (item i gets weights[i-1]) and
// 1-based target indices. Duplicate target indices are collapsed.
//
// Any target index outside 1..len(weights) rejects the whole set, and so
// does a target of weight 0: such a set could never finish a trial.
// Weights whose total does not fit in an int are rejected as well.
func NewItemSet(weights []int, targets []int) (*ItemSet, error) {
	if len(weights) == 0 {
		return nil, &ParseError{Field: "weights", Err: errors.New("at least one weight is required")}
	}

	want := make(map[int]bool, len(targets))
	for _, idx := range targets {
		if idx < 1 || idx > len(weights) {
			return nil, &InvalidSelectionError{Index: idx, Items: len(weights)}
		}
		want[idx] = true
	}

	set := &ItemSet{items: make([]Item, len(weights))}
	for i, w := range weights {
		id := i + 1
		if w < 0 {
			return nil, &ParseError{Field: "weights", Pos: id, Token: itoa(w), Err: errNegative}
		}
		it := Item{ID: id, Weight: w, Target: want[id]}
		if it.Target {
			if w == 0 {
				return nil, &UnreachableTargetError{ID: id}
			}
			set.targetCount++
		}
		if w > math.MaxInt-set.weightSum {
			return nil, &ParseError{Field: "weights", Pos: id, Token: itoa(w), Err: ErrWeightSumOverflow}
		}
		set.weightSum += w
		set.items[i] = it
	}
	return set, nil
}

// Items returns a copy of the pool in draw order.
func (s *ItemSet) Items() []Item {
	return append([]Item(nil), s.items...)
}

func (s *ItemSet) Len() int         { return len(s.items) }
func (s *ItemSet) WeightSum() int   { return s.weightSum }
func (s *ItemSet) TargetCount() int { return s.targetCount }

// Weights returns the weights in item order.
func (s *ItemSet) Weights() []int {
	ws := make([]int, len(s.items))
	for i, it := range s.items {
		ws[i] = it.Weight
	}
	return ws
}

// Targets returns the target ids in ascending order.
func (s *ItemSet) Targets() []int {
	ids := make([]int, 0, s.targetCount)
	for _, it := range s.items {
		if it.Target {
			ids = append(ids, it.ID)
		}
	}
	return ids
}
