package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-viz/internal/comparison"
)

var compareOutDir string

var compareCmd = &cobra.Command{
	Use:   "compare <comparison.csv>",
	Short: "Plot planning and execution times of two table variants.",
	Long: `Plot planning and execution times of two table variants run side by side.

The CSV has two header rows, phase (plan, exec) over variant, and one row per
run. Writes planning.png and executing.png.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareOutDir, "out", "o", ".", "output directory")
}

func runCompare(cmd *cobra.Command, args []string) error {
	g, err := comparison.LoadFile(args[0])
	if err != nil {
		return err
	}
	if err := os.MkdirAll(compareOutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	plots := []struct {
		file string
		opts comparison.PlotOptions
	}{
		{"planning.png", comparison.PlanningPreset},
		{"executing.png", comparison.ExecutionPreset},
	}
	for _, p := range plots {
		path := filepath.Join(compareOutDir, p.file)
		if err := comparison.Save(g, p.opts, path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("wrote"), path)
	}
	return nil
}
