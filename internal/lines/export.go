package lines

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSV column headers shared by the preview export and the report export.
const (
	ColumnLine         = "Line"
	ColumnMain         = "Main Balls"
	ColumnBonus        = "Lucky Stars"
	ColumnMainMatches  = "Main Matches"
	ColumnBonusMatches = "Star Matches"
)

// PreviewFilename is the attachment name used for CSV downloads.
const PreviewFilename = "euromillions_preview.csv"

// WriteCSV writes lines as UTF-8 CSV with a 1-based Line column.
func WriteCSV(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnLine, ColumnMain, ColumnBonus}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, line := range lines {
		row := []string{strconv.Itoa(i + 1), FormatNumbers(line.Main), FormatNumbers(line.Bonus)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReportCSV writes match reports with their match counts.
func WriteReportCSV(w io.Writer, reports []MatchReport) error {
	cw := csv.NewWriter(w)
	header := []string{ColumnLine, ColumnMain, ColumnBonus, ColumnMainMatches, ColumnBonusMatches}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range reports {
		row := []string{
			strconv.Itoa(r.Position),
			FormatNumbers(r.Main),
			FormatNumbers(r.Bonus),
			strconv.Itoa(r.MainMatches),
			strconv.Itoa(r.BonusMatches),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.Position, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads lines back from a file produced by WriteCSV or WriteReportCSV.
// Unlike ParseNumbers it is strict: a malformed number is an error.
func ReadCSV(r io.Reader) ([]Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read csv: empty file")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	mainCol, bonusCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case ColumnMain:
			mainCol = i
		case ColumnBonus:
			bonusCol = i
		}
	}
	if mainCol < 0 || bonusCol < 0 {
		return nil, fmt.Errorf("read csv: header must contain %q and %q", ColumnMain, ColumnBonus)
	}

	var out []Line
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}
		if len(rec) <= mainCol || len(rec) <= bonusCol {
			return nil, fmt.Errorf("read csv row %d: missing columns", row)
		}
		main, err := parseStrict(rec[mainCol])
		if err != nil {
			return nil, fmt.Errorf("read csv row %d main balls: %w", row, err)
		}
		bonus, err := parseStrict(rec[bonusCol])
		if err != nil {
			return nil, fmt.Errorf("read csv row %d lucky stars: %w", row, err)
		}
		out = append(out, Line{Main: main, Bonus: bonus})
	}
	return out, nil
}

func parseStrict(field string) ([]int, error) {
	parts := strings.Split(field, ",")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", strings.TrimSpace(p))
		}
		nums = append(nums, n)
	}
	return nums, nil
}
