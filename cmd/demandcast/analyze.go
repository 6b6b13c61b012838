package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rantau/demandcast/internal/cli"
	"github.com/rantau/demandcast/internal/dataset"
)

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the sales dataset",
		Long: `Show descriptive statistics for the configured sales dataset:
numeric column statistics, weather and promotion distributions, and how
the rows would bin into demand categories.`,
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	table, err := loadDataset()
	if err != nil {
		return err
	}

	summary := dataset.Summarize(table)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.TitleStyle.Render("Dataset Analysis"))
	fmt.Fprintf(out, "Rows: %d    Dates: %s to %s\n\n", summary.Rows, summary.DateMin, summary.DateMax)

	fmt.Fprintln(out, cli.SubtitleStyle.Render("Numeric columns"))
	fmt.Fprintf(out, "%-15s %8s %10s %10s %10s %10s\n", "Column", "Count", "Mean", "Std", "Min", "Max")
	for _, stats := range summary.NumericStats {
		fmt.Fprintf(out, "%-15s %8d %10.2f %10.2f %10.2f %10.2f\n",
			stats.Name, stats.Count, stats.Mean, stats.Std, stats.Min, stats.Max)
	}

	fmt.Fprintln(out, "\n"+cli.SubtitleStyle.Render("Demand category distribution"))
	renderCounts(out, summary.DemandCounts, summary.Rows)

	fmt.Fprintln(out, "\n"+cli.SubtitleStyle.Render("Weather"))
	renderCounts(out, summary.WeatherCounts, summary.Rows)

	fmt.Fprintln(out, "\n"+cli.SubtitleStyle.Render("Promotion"))
	renderCounts(out, summary.PromotionCounts, summary.Rows)

	return nil
}

func renderCounts(out io.Writer, counts []dataset.ValueCount, total int) {
	for _, vc := range counts {
		share := 0.0
		if total > 0 {
			share = float64(vc.Count) / float64(total)
		}
		bar := strings.Repeat("█", int(share*40))
		fmt.Fprintf(out, "%-10s %7d  %5.1f%%  %s\n", vc.Value, vc.Count, share*100, cli.SubtleStyle.Render(bar))
	}
}
