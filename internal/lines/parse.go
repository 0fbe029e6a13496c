package lines

import (
	"slices"
	"strconv"

	pstrings "hotpicks/pkg/platform/strings"
)

// ParseNumbers reads a comma-separated list of winning numbers typed by a user.
// Parsing is lenient: empty tokens, tokens that are not plain non-negative
// integers and values that overflow int are dropped without error. The result
// is ascending with duplicates removed.
func ParseNumbers(text string) []int {
	tokens := pstrings.SplitTrim(text, ",")
	nums := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if !pstrings.IsDigits(tok) {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return slices.Compact(nums)
}

// ParseDraw builds a Draw from the two free-text inputs.
func ParseDraw(mainText, bonusText string) Draw {
	return Draw{Main: ParseNumbers(mainText), Bonus: ParseNumbers(bonusText)}
}
