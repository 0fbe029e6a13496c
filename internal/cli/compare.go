package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hotpicks/internal/lines"
)

func newCompareCmd() *cobra.Command {
	var (
		linesFile string
		mainText  string
		bonusText string
		csvOut    bool
	)

	cmd := &cobra.Command{
		Use:     "compare",
		Short:   "Score an exported preview against an official draw",
		Example: `  hotpicks compare --lines euromillions_preview.csv --main "3, 17, 27, 40, 50" --bonus "2, 9"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if linesFile == "" {
				return errors.New("--lines is required")
			}
			f, err := os.Open(linesFile)
			if err != nil {
				return fmt.Errorf("opening lines file: %w", err)
			}
			defer f.Close()

			predictions, err := lines.ReadCSV(f)
			if err != nil {
				return err
			}
			reports := lines.Compare(predictions, lines.ParseDraw(mainText, bonusText))

			if csvOut {
				return lines.WriteReportCSV(cmd.OutOrStdout(), reports)
			}
			out := cmd.OutOrStdout()
			for _, r := range reports {
				fmt.Fprintf(out, "Line %d: Main Balls: %s | Lucky Stars: %s | Main Matches: %d | Star Matches: %d\n",
					r.Position, lines.FormatNumbers(r.Main), lines.FormatNumbers(r.Bonus), r.MainMatches, r.BonusMatches)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&linesFile, "lines", "", "CSV file written by generate --csv or the export endpoint")
	cmd.Flags().StringVar(&mainText, "main", "", "official main numbers, comma separated")
	cmd.Flags().StringVar(&bonusText, "bonus", "", "official lucky stars, comma separated")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "write the report as CSV")
	return cmd
}
