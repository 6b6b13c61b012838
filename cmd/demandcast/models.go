package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/rantau/demandcast/internal/classifier"
	"github.com/rantau/demandcast/internal/cli"
	"github.com/rantau/demandcast/internal/common"
)

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Show the persisted training run and its metrics",
		Long: `Display the current artifact set: run ID, training time, feature
columns, and each model's stored held-out evaluation. Nothing is
retrained; the metrics come from the artifacts saved by the last run.`,
		RunE: runModels,
	}
}

func runModels(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	reg, err := initRegistry(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := reg.Close(); closeErr != nil {
			slog.Warn("Failed to close registry", "error", closeErr)
		}
	}()

	set, err := reg.Load(ctx)
	if errors.Is(err, common.ErrNotTrained) {
		fmt.Fprintln(out, cli.WarningStyle.Render("No trained models found. Run \"demandcast train\" first."))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load artifacts: %w", err)
	}

	fmt.Fprintln(out, cli.TitleStyle.Render("Trained Models"))
	fmt.Fprintf(out, "Run:        %s\n", set.RunID)
	fmt.Fprintf(out, "Trained at: %s\n", set.TrainedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(out, "Classes:    %v\n", set.LabelEncoder.Classes)
	fmt.Fprintf(out, "Features:   %v\n", set.FeatureColumns)
	if set.TestData != nil {
		fmt.Fprintf(out, "Held-out:   %d samples\n", len(set.TestData.Y))
	}
	fmt.Fprintln(out)

	if set.Evaluations == nil {
		fmt.Fprintln(out, cli.SubtleStyle.Render("No stored evaluations for this run."))
		return nil
	}
	for _, family := range classifier.Families() {
		if eval, ok := set.Evaluations[family]; ok {
			renderEvaluation(out, family, eval, set.LabelEncoder.Classes)
		}
	}

	return nil
}
