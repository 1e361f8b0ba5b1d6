package collect

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemSet(t *testing.T) {
	set, err := NewItemSet([]int{5, 10, 15, 20, 25}, []int{2, 4, 4})
	require.NoError(t, err)

	assert.Equal(t, 5, set.Len())
	assert.Equal(t, 75, set.WeightSum())
	assert.Equal(t, 2, set.TargetCount())
	assert.Equal(t, []int{2, 4}, set.Targets())
	assert.Equal(t, []int{5, 10, 15, 20, 25}, set.Weights())

	items := set.Items()
	for i, it := range items {
		assert.Equal(t, i+1, it.ID)
	}
	assert.False(t, items[0].Target)
	assert.True(t, items[1].Target)

	// Items hands out a copy.
	items[0].Weight = 999
	assert.Equal(t, 5, set.Items()[0].Weight)
}

func TestNewItemSet_NoTargets(t *testing.T) {
	set, err := NewItemSet([]int{0, 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, set.WeightSum())
	assert.Equal(t, 0, set.TargetCount())
}

func TestNewItemSet_Errors(t *testing.T) {
	t.Run("zero weight target", func(t *testing.T) {
		_, err := NewItemSet([]int{5, 0, 15}, []int{1, 2})
		var unreachable *UnreachableTargetError
		require.ErrorAs(t, err, &unreachable)
		assert.Equal(t, 2, unreachable.ID)
	})

	t.Run("zero weight non-target is fine", func(t *testing.T) {
		_, err := NewItemSet([]int{5, 0, 15}, []int{1, 3})
		assert.NoError(t, err)
	})

	for _, idx := range []int{0, 4, -1} {
		_, err := NewItemSet([]int{1, 2, 3}, []int{1, idx})
		var sel *InvalidSelectionError
		require.ErrorAs(t, err, &sel, "index %d", idx)
		assert.Equal(t, idx, sel.Index)
		assert.Equal(t, 3, sel.Items)
	}

	t.Run("negative weight", func(t *testing.T) {
		_, err := NewItemSet([]int{1, -2}, nil)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.Pos)
		assert.Equal(t, "-2", perr.Token)
	})

	t.Run("empty pool", func(t *testing.T) {
		_, err := NewItemSet(nil, nil)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "weights", perr.Field)
	})
}

func TestNewItemSet_WeightSumOverflow(t *testing.T) {
	// MaxInt+1 would wrap to MinInt and make every draw panic.
	_, err := NewItemSet([]int{math.MaxInt, 1}, []int{1})
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "weights", perr.Field)
	assert.Equal(t, 2, perr.Pos)
	assert.ErrorIs(t, err, ErrWeightSumOverflow)

	// Wrapping twice lands back on a small positive sum.
	_, err = NewItemSet([]int{math.MaxInt, math.MaxInt, 3}, []int{3})
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Pos)
	assert.ErrorIs(t, err, ErrWeightSumOverflow)

	set, err := NewItemSet([]int{math.MaxInt - 1, 1}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, set.WeightSum())

	_, err = ParseItemSet(strconv.Itoa(math.MaxInt)+",1", "1")
	assert.ErrorIs(t, err, ErrWeightSumOverflow)
}

func TestParseItemSet_TokenErrors(t *testing.T) {
	_, err := ParseItemSet("99999999999999999999", "1")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Pos)
	assert.ErrorIs(t, err, strconv.ErrRange)

	_, err = ParseItemSet("1,abc", "1")
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.NotContains(t, err.Error(), "non-negative")

	_, err = ParseItemSet("1,-3", "1")
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "non-negative")
	var numErr *strconv.NumError
	assert.False(t, errors.As(err, &numErr))
}

func TestParseItemSet(t *testing.T) {
	set, err := ParseItemSet("5, 10, 15, 20, 25", "1,2,3,4,5,")
	require.NoError(t, err)
	assert.Equal(t, 65, set.WeightSum())
	assert.Equal(t, 5, set.TargetCount())

	tests := []struct {
		name    string
		weights string
		targets string
		field   string
		token   string
	}{
		{name: "word weight", weights: "5,abc", targets: "1", field: "weights", token: "abc"},
		{name: "negative weight", weights: "5,-3", targets: "1", field: "weights", token: "-3"},
		{name: "float weight", weights: "5,1.5", targets: "1", field: "weights", token: "1.5"},
		{name: "bad target", weights: "5,1", targets: "1,x", field: "targets", token: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItemSet(tt.weights, tt.targets)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.field, perr.Field)
			assert.Equal(t, tt.token, perr.Token)
		})
	}

	_, err = ParseItemSet(" , ", "")
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)

	_, err = ParseItemSet("1,2", "3")
	var sel *InvalidSelectionError
	assert.ErrorAs(t, err, &sel)
}
