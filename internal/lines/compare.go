package lines

// Compare scores every prediction against draw. Reports keep the input order
// and use 1-based positions; an empty draw scores zero everywhere.
func Compare(predictions []Line, draw Draw) []MatchReport {
	mainSet := toSet(draw.Main)
	bonusSet := toSet(draw.Bonus)

	reports := make([]MatchReport, 0, len(predictions))
	for i, line := range predictions {
		reports = append(reports, MatchReport{
			Position:     i + 1,
			Main:         line.Main,
			Bonus:        line.Bonus,
			MainMatches:  countIn(line.Main, mainSet),
			BonusMatches: countIn(line.Bonus, bonusSet),
		})
	}
	return reports
}

func toSet(nums []int) map[int]struct{} {
	set := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		set[n] = struct{}{}
	}
	return set
}

// countIn counts distinct values of nums present in set.
func countIn(nums []int, set map[int]struct{}) int {
	seen := make(map[int]struct{}, len(nums))
	count := 0
	for _, n := range nums {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if _, ok := set[n]; ok {
			count++
		}
	}
	return count
}
