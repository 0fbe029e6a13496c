package lines

import (
	"strconv"
	"strings"
)

// Line is one generated entry. Main and Bonus are ascending and distinct.
type Line struct {
	Main  []int `json:"main"`
	Bonus []int `json:"bonus"`
}

// Draw is an official result. Order and duplicates are irrelevant.
type Draw struct {
	Main  []int `json:"main"`
	Bonus []int `json:"bonus"`
}

// MatchReport scores one line against a draw.
type MatchReport struct {
	Position     int   `json:"line"`
	Main         []int `json:"main"`
	Bonus        []int `json:"bonus"`
	MainMatches  int   `json:"main_matches"`
	BonusMatches int   `json:"bonus_matches"`
}

// FormatNumbers joins numbers with ", ".
func FormatNumbers(nums []int) string {
	var b strings.Builder
	for i, n := range nums {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
