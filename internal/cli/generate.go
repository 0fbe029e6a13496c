package cli

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"hotpicks/internal/lines"
)

func newGenerateCmd() *cobra.Command {
	var (
		count    int
		csvOut   bool
		seed     uint64
		poolFile string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate lines from the hot pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := lines.ResolvePool(poolFile)
			if err != nil {
				return err
			}

			var opts []lines.Option
			if cmd.Flags().Changed("seed") {
				opts = append(opts, lines.WithSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))))
			}
			batch, err := lines.NewGenerator(pool, opts...).GenerateLines(count)
			if err != nil {
				return err
			}

			if csvOut {
				return lines.WriteCSV(cmd.OutOrStdout(), batch)
			}
			return printLines(cmd.OutOrStdout(), batch)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", lines.DefaultBatchSize, "number of lines to generate")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "write CSV instead of text")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible output")
	cmd.Flags().StringVar(&poolFile, "pool", "", "YAML pool file (defaults to the built-in pools)")
	return cmd
}

func printLines(w io.Writer, batch []lines.Line) error {
	for i, line := range batch {
		if _, err := fmt.Fprintf(w, "Line %d: Main Balls: %s | Lucky Stars: %s\n",
			i+1, lines.FormatNumbers(line.Main), lines.FormatNumbers(line.Bonus)); err != nil {
			return err
		}
	}
	return nil
}
