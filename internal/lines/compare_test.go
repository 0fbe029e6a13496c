package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCountsMatches(t *testing.T) {
	predictions := []Line{{Main: []int{17, 19, 20, 23, 27}, Bonus: []int{2, 3}}}
	reports := Compare(predictions, Draw{Main: []int{17, 19, 1, 2, 3}, Bonus: []int{2, 3}})

	require.Len(t, reports, 1)
	assert.Equal(t, MatchReport{
		Position:     1,
		Main:         []int{17, 19, 20, 23, 27},
		Bonus:        []int{2, 3},
		MainMatches:  2,
		BonusMatches: 2,
	}, reports[0])
}

func TestComparePreservesOrder(t *testing.T) {
	l1 := Line{Main: []int{1, 2, 3, 4, 5}, Bonus: []int{1, 2}}
	l2 := Line{Main: []int{6, 7, 8, 9, 10}, Bonus: []int{3, 4}}
	l3 := Line{Main: []int{1, 2, 3, 4, 5}, Bonus: []int{1, 2}}

	reports := Compare([]Line{l1, l2, l3}, Draw{Main: []int{6, 7, 8}, Bonus: []int{4}})

	require.Len(t, reports, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{reports[0].Position, reports[1].Position, reports[2].Position})
	assert.Equal(t, l2.Main, reports[1].Main)
	assert.Equal(t, 0, reports[0].MainMatches)
	assert.Equal(t, 3, reports[1].MainMatches)
	assert.Equal(t, 1, reports[1].BonusMatches)
	assert.Equal(t, reports[0], MatchReport{Position: 1, Main: l3.Main, Bonus: l3.Bonus}, "repeated lines score the same")
}

func TestCompareEmptyDraw(t *testing.T) {
	reports := Compare([]Line{{Main: []int{17, 19, 20, 23, 27}, Bonus: []int{2, 3}}}, Draw{})
	require.Len(t, reports, 1)
	assert.Zero(t, reports[0].MainMatches)
	assert.Zero(t, reports[0].BonusMatches)
}

func TestCompareDuplicatesDoNotDoubleCount(t *testing.T) {
	line := Line{Main: []int{17, 19, 20, 23, 27}, Bonus: []int{2, 3}}
	reports := Compare([]Line{line}, Draw{Main: []int{17, 17, 17, 19}, Bonus: []int{2, 2, 2}})
	assert.Equal(t, 2, reports[0].MainMatches)
	assert.Equal(t, 1, reports[0].BonusMatches)
}

func TestCompareIgnoresDrawOrder(t *testing.T) {
	line := Line{Main: []int{17, 19, 20, 23, 27}, Bonus: []int{2, 3}}
	a := Compare([]Line{line}, Draw{Main: []int{27, 23, 20}, Bonus: []int{3, 2}})
	b := Compare([]Line{line}, Draw{Main: []int{20, 23, 27}, Bonus: []int{2, 3}})
	assert.Equal(t, a, b)
}

func TestCompareIsIdempotent(t *testing.T) {
	gen := NewGenerator(DefaultPool(), WithSource(seeded(5)))
	batch, err := gen.GenerateLines(8)
	require.NoError(t, err)
	draw := Draw{Main: []int{17, 23, 40, 44, 50}, Bonus: []int{8, 10}}

	first := Compare(batch, draw)
	second := Compare(batch, draw)
	assert.Equal(t, first, second)
}

func TestCompareNoPredictions(t *testing.T) {
	assert.Empty(t, Compare(nil, Draw{Main: []int{1}}))
}
