package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-viz/internal/adapter/parquet"
	"github.com/couchcryptid/climate-viz/internal/dataset"
	"github.com/couchcryptid/climate-viz/internal/domain"
)

var extremesFlags struct {
	columns []string
	parquet string
	unit    string
}

var extremesCmd = &cobra.Command{
	Use:   "extremes <data.csv>",
	Short: "Print the maxima and minima of each column.",
	Long: `Print the maxima and minima of each column of a CSV table.

The first column is the row label; blank, NA and NaN cells are treated as
missing and never reported as extremes.

Examples:
  climviz extremes temperature.csv --columns Nairobi,Mombasa --unit °C
  climviz extremes temperature.csv --parquet extremes.parquet`,
	Args: cobra.ExactArgs(1),
	RunE: runExtremes,
}

func init() {
	f := extremesCmd.Flags()
	f.StringSliceVar(&extremesFlags.columns, "columns", nil, "columns to summarize (default: all)")
	f.StringVar(&extremesFlags.parquet, "parquet", "", "also write the extremes to this Parquet file")
	f.StringVar(&extremesFlags.unit, "unit", "", "unit appended to values")
}

func runExtremes(cmd *cobra.Command, args []string) error {
	t, err := dataset.LoadTable(args[0])
	if err != nil {
		return err
	}
	if t, err = t.Select(extremesFlags.columns...); err != nil {
		return err
	}
	reports, err := summarizeColumns(t, args[0], extremesFlags.unit)
	if err != nil {
		return err
	}
	if err := printExtremes(cmd.OutOrStdout(), reports); err != nil {
		return err
	}

	if extremesFlags.parquet != "" {
		n, err := parquet.WriteExtremes(reports, extremesFlags.parquet)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s rows to %s\n", color.GreenString("wrote"), humanize.Comma(int64(n)), extremesFlags.parquet)
	}
	return nil
}

// summarizeColumns reports each column; columns with no values are skipped.
func summarizeColumns(t *dataset.Table, source, unit string) ([]domain.ExtremeReport, error) {
	reports := make([]domain.ExtremeReport, 0, len(t.Columns))
	for _, col := range t.Columns {
		s, err := t.Column(col)
		if err != nil {
			return nil, err
		}
		r, err := domain.Summarize(source, col, unit, s)
		if err != nil {
			continue
		}
		reports = append(reports, r)
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("%s: %w", source, domain.ErrEmptySeries)
	}
	return reports, nil
}

func printExtremes(w io.Writer, reports []domain.ExtremeReport) error {
	red := color.New(color.FgRed).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "Count", "Mean", "Max", "Min"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(reports))
	for _, r := range reports {
		data = append(data, []string{
			r.Series,
			strconv.Itoa(r.Count),
			formatValue(r.Mean, r.Unit),
			red(formatObservations(r.Maxima, r.Unit)),
			blue(formatObservations(r.Minima, r.Unit)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func formatObservations(obs []domain.Observation, unit string) string {
	parts := make([]string, len(obs))
	for i, o := range obs {
		parts[i] = fmt.Sprintf("%s (%s)", formatValue(o.Value, unit), o.Label)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v float64, unit string) string {
	return humanize.FtoaWithDigits(v, 2) + unit
}
