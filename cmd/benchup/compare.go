package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"benchup/internal/bench"

	"github.com/spf13/cobra"
)

var compareOutput string

func init() {
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "write the comparison CSV to a file")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <current-file> <baseline-file>",
	Short: "Compare two local result files without publishing",
	Long: `Parses two benchmark result files, compares the current run against
the baseline and prints the highlighted comparison table. Nothing is
published and no network calls are made.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, args[0], args[1])
	},
}

func runCompare(cmd *cobra.Command, currentPath, baselinePath string) error {
	current, err := parseResultsFile(currentPath)
	if err != nil {
		return err
	}
	baseline, err := parseResultsFile(baselinePath)
	if err != nil {
		return err
	}

	if dropped := bench.Dedupe(current); len(dropped) > 0 {
		slog.Warn("duplicate benchmark names dropped, keeping first occurrence",
			"names", strings.Join(dropped, ", "))
	}

	cmp := bench.Compare(current, baseline)
	fmt.Fprint(cmd.OutOrStdout(), bench.RenderTerminal(cmp))

	if compareOutput != "" {
		if err := os.WriteFile(compareOutput, []byte(bench.RenderCSV(cmp)), 0644); err != nil {
			return fmt.Errorf("writing comparison CSV: %w", err)
		}
	}
	return nil
}

// parseResultsFile accepts both a combined metadata+table results file and
// a bare benchmark CSV.
func parseResultsFile(path string) (*bench.ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	split, err := bench.Split(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rs, err := bench.ParseTable(split.Table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rs.Timestamp = split.Timestamp
	return rs, nil
}
