package lines

import (
	"errors"
	"fmt"
)

const (
	// MainPicks is the number of main numbers on a line.
	MainPicks = 5
	// BonusPicks is the number of bonus numbers on a line.
	BonusPicks = 2
)

var (
	// ErrPoolExhausted means a filtered pool is smaller than the pick count. It is
	// a configuration defect and must not be retried.
	ErrPoolExhausted = errors.New("pool exhausted")
	// ErrInvalidCount is returned for negative batch sizes.
	ErrInvalidCount = errors.New("invalid line count")
)

// NumberSet is one category of the pool: the numbers to favour and the numbers
// to exclude from them.
type NumberSet struct {
	Preferred  []int `yaml:"preferred" json:"preferred"`
	Disfavored []int `yaml:"disfavored" json:"disfavored"`
}

// Filtered returns Preferred minus Disfavored. Duplicates in Preferred collapse
// and first-seen order is kept.
func (s NumberSet) Filtered() []int {
	excluded := make(map[int]struct{}, len(s.Disfavored))
	for _, n := range s.Disfavored {
		excluded[n] = struct{}{}
	}
	out := make([]int, 0, len(s.Preferred))
	for _, n := range s.Preferred {
		if _, skip := excluded[n]; skip {
			continue
		}
		excluded[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Pool is the static number configuration a Generator samples from.
type Pool struct {
	Main  NumberSet `yaml:"main" json:"main"`
	Bonus NumberSet `yaml:"bonus" json:"bonus"`
}

// DefaultPool returns the EuroMillions hot/cold pools.
func DefaultPool() Pool {
	return Pool{
		Main: NumberSet{
			Preferred:  []int{17, 19, 20, 23, 27, 35, 38, 40, 44, 50},
			Disfavored: []int{1, 22, 26, 33, 43},
		},
		Bonus: NumberSet{
			Preferred:  []int{2, 3, 8, 9, 10},
			Disfavored: []int{6, 11},
		},
	}
}

// Validate checks that both filtered pools can supply a full line.
func (p Pool) Validate() error {
	if err := checkPopulation("main", p.Main.Filtered(), MainPicks); err != nil {
		return err
	}
	return checkPopulation("bonus", p.Bonus.Filtered(), BonusPicks)
}

func checkPopulation(category string, population []int, picks int) error {
	if len(population) < picks {
		return fmt.Errorf("%w: %s pool has %d numbers after filtering, need %d",
			ErrPoolExhausted, category, len(population), picks)
	}
	return nil
}
