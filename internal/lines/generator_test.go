package lines

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// fixedSource returns the identity permutation reversed, so the generator
// always takes the last k numbers of the filtered pool.
type fixedSource struct{ calls int }

func (f *fixedSource) Perm(n int) []int {
	f.calls++
	p := make([]int, n)
	for i := range p {
		p[i] = n - 1 - i
	}
	return p
}

func TestNumberSetFiltered(t *testing.T) {
	tests := []struct {
		name string
		set  NumberSet
		want []int
	}{
		{
			name: "disjoint pools leave preferred untouched",
			set:  NumberSet{Preferred: []int{17, 19, 20}, Disfavored: []int{1, 22}},
			want: []int{17, 19, 20},
		},
		{
			name: "overlap is removed",
			set:  NumberSet{Preferred: []int{5, 6, 7, 8}, Disfavored: []int{8, 6}},
			want: []int{5, 7},
		},
		{
			name: "duplicates in preferred collapse",
			set:  NumberSet{Preferred: []int{3, 3, 4, 3}},
			want: []int{3, 4},
		},
		{
			name: "everything excluded",
			set:  NumberSet{Preferred: []int{1, 2}, Disfavored: []int{2, 1}},
			want: []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.Filtered())
		})
	}
}

func TestDefaultPoolFilteringHasNoEffect(t *testing.T) {
	pool := DefaultPool()
	assert.Equal(t, []int{17, 19, 20, 23, 27, 35, 38, 40, 44, 50}, pool.Main.Filtered())
	assert.Len(t, pool.Main.Filtered(), 10)
	assert.Equal(t, []int{2, 3, 8, 9, 10}, pool.Bonus.Filtered())
	require.NoError(t, pool.Validate())
}

func TestGenerateLineProperties(t *testing.T) {
	pool := Pool{
		Main:  NumberSet{Preferred: []int{3, 9, 12, 17, 21, 28, 30, 41}, Disfavored: []int{12, 50}},
		Bonus: NumberSet{Preferred: []int{1, 4, 7, 11}, Disfavored: []int{7}},
	}
	gen := NewGenerator(pool, WithSource(seeded(7)))

	for i := 0; i < 500; i++ {
		line, err := gen.GenerateLine()
		require.NoError(t, err)

		require.Len(t, line.Main, MainPicks)
		require.Len(t, line.Bonus, BonusPicks)
		assertStrictlyAscending(t, line.Main)
		assertStrictlyAscending(t, line.Bonus)
		for _, n := range line.Main {
			assert.Contains(t, pool.Main.Filtered(), n)
			assert.NotContains(t, pool.Main.Disfavored, n)
		}
		for _, n := range line.Bonus {
			assert.Contains(t, pool.Bonus.Filtered(), n)
			assert.NotContains(t, pool.Bonus.Disfavored, n)
		}
	}
}

func TestGenerateLineExactPopulation(t *testing.T) {
	pool := Pool{
		Main:  NumberSet{Preferred: []int{44, 2, 31, 9, 18, 5}, Disfavored: []int{5}},
		Bonus: NumberSet{Preferred: []int{12, 1}},
	}
	gen := NewGenerator(pool, WithSource(seeded(1)))

	for i := 0; i < 20; i++ {
		line, err := gen.GenerateLine()
		require.NoError(t, err)
		assert.Equal(t, []int{2, 9, 18, 31, 44}, line.Main)
		assert.Equal(t, []int{1, 12}, line.Bonus)
	}
}

func TestGenerateLineUsesInjectedSource(t *testing.T) {
	src := &fixedSource{}
	gen := NewGenerator(DefaultPool(), WithSource(src))

	line, err := gen.GenerateLine()
	require.NoError(t, err)
	assert.Equal(t, []int{35, 38, 40, 44, 50}, line.Main)
	assert.Equal(t, []int{9, 10}, line.Bonus)
	assert.Equal(t, 2, src.calls)
}

func TestGenerateLinePoolExhausted(t *testing.T) {
	t.Run("main", func(t *testing.T) {
		pool := Pool{
			Main:  NumberSet{Preferred: []int{1, 2, 3, 4, 5, 6}, Disfavored: []int{2, 4}},
			Bonus: NumberSet{Preferred: []int{1, 2}},
		}
		_, err := NewGenerator(pool).GenerateLine()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPoolExhausted))
		assert.Contains(t, err.Error(), "main pool has 4 numbers")
		assert.ErrorIs(t, pool.Validate(), ErrPoolExhausted)
	})

	t.Run("bonus", func(t *testing.T) {
		pool := Pool{
			Main:  NumberSet{Preferred: []int{1, 2, 3, 4, 5}},
			Bonus: NumberSet{Preferred: []int{6, 11}, Disfavored: []int{11}},
		}
		_, err := NewGenerator(pool).GenerateLine()
		assert.ErrorIs(t, err, ErrPoolExhausted)
		assert.Contains(t, err.Error(), "bonus pool")
	})
}

func TestGenerateLines(t *testing.T) {
	gen := NewGenerator(DefaultPool(), WithSource(seeded(3)))

	t.Run("zero returns empty batch", func(t *testing.T) {
		got, err := gen.GenerateLines(0)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("returns exactly n lines", func(t *testing.T) {
		for _, n := range []int{1, DefaultBatchSize, 37} {
			got, err := gen.GenerateLines(n)
			require.NoError(t, err)
			assert.Len(t, got, n)
		}
	})

	t.Run("negative count", func(t *testing.T) {
		_, err := gen.GenerateLines(-1)
		assert.ErrorIs(t, err, ErrInvalidCount)
	})

	t.Run("exhausted pool fails the batch", func(t *testing.T) {
		bad := NewGenerator(Pool{Main: NumberSet{Preferred: []int{1}}})
		_, err := bad.GenerateLines(3)
		assert.ErrorIs(t, err, ErrPoolExhausted)
	})
}

func TestGenerateLinesReproducibleWithSeed(t *testing.T) {
	a, err := NewGenerator(DefaultPool(), WithSource(seeded(99))).GenerateLines(10)
	require.NoError(t, err)
	b, err := NewGenerator(DefaultPool(), WithSource(seeded(99))).GenerateLines(10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateLinesCoversWholePool(t *testing.T) {
	gen := NewGenerator(DefaultPool(), WithSource(seeded(11)))
	batch, err := gen.GenerateLines(2000)
	require.NoError(t, err)

	seenMain := map[int]bool{}
	seenBonus := map[int]bool{}
	for _, line := range batch {
		for _, n := range line.Main {
			seenMain[n] = true
		}
		for _, n := range line.Bonus {
			seenBonus[n] = true
		}
	}
	assert.Len(t, seenMain, 10)
	assert.Len(t, seenBonus, 5)
}

func TestNewGeneratorIgnoresLaterPoolMutation(t *testing.T) {
	pool := DefaultPool()
	gen := NewGenerator(pool, WithSource(&fixedSource{}))
	pool.Main.Preferred[9] = 99

	line, err := gen.GenerateLine()
	require.NoError(t, err)
	assert.NotContains(t, line.Main, 99)
}

func assertStrictlyAscending(t *testing.T, nums []int) {
	t.Helper()
	assert.True(t, slices.IsSorted(nums), "not sorted: %v", nums)
	assert.Len(t, slices.Compact(slices.Clone(nums)), len(nums), "duplicates in %v", nums)
}
