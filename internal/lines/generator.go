package lines

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// DefaultBatchSize is the number of lines generated when a caller does not ask
// for a specific count.
const DefaultBatchSize = 5

// Source supplies random permutations. *rand.Rand satisfies it; tests seed one
// for reproducible draws.
type Source interface {
	Perm(n int) []int
}

// globalSource uses the package-level math/rand/v2 generator, which is safe
// for concurrent use.
type globalSource struct{}

func (globalSource) Perm(n int) []int { return rand.Perm(n) }

// Generator draws lines from a fixed pool.
type Generator struct {
	main   []int
	bonus  []int
	source Source
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource injects the randomness source. A non-global source must not be
// shared across goroutines unless it is itself safe for concurrent use.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.source = src
		}
	}
}

// NewGenerator builds a Generator over pool. The pool is filtered once here;
// population checks happen on every draw.
func NewGenerator(pool Pool, opts ...Option) *Generator {
	g := &Generator{
		main:   pool.Main.Filtered(),
		bonus:  pool.Bonus.Filtered(),
		source: globalSource{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateLine draws one line.
func (g *Generator) GenerateLine() (Line, error) {
	main, err := g.sample("main", g.main, MainPicks)
	if err != nil {
		return Line{}, err
	}
	bonus, err := g.sample("bonus", g.bonus, BonusPicks)
	if err != nil {
		return Line{}, err
	}
	return Line{Main: main, Bonus: bonus}, nil
}

// GenerateLines draws n independent lines. Repeats across lines are allowed.
func (g *Generator) GenerateLines(n int) ([]Line, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	out := make([]Line, 0, n)
	for range n {
		line, err := g.GenerateLine()
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

// sample picks k distinct values from population uniformly, sorted ascending.
func (g *Generator) sample(category string, population []int, k int) ([]int, error) {
	if err := checkPopulation(category, population, k); err != nil {
		return nil, err
	}
	perm := g.source.Perm(len(population))
	picked := make([]int, k)
	for i := range k {
		picked[i] = population[perm[i]]
	}
	slices.Sort(picked)
	return picked, nil
}
