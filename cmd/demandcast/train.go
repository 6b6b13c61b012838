package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rantau/demandcast/internal/classifier"
	"github.com/rantau/demandcast/internal/cli"
	"github.com/rantau/demandcast/internal/evaluate"
	"github.com/rantau/demandcast/internal/service"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train and persist all demand models",
		Long: `Fully retrain the three demand classifiers on the configured dataset
and replace the persisted artifact set. Every run uses one stratified
80/20 split shared by all models, so their metrics are directly
comparable.`,
		RunE: runTrain,
	}

	cmd.Flags().Int64("seed", 42, "random seed for the train/test split")
	cmd.Flags().Float64("test-size", 0.2, "held-out fraction for evaluation")
	cmd.Flags().Int("neighbors", 5, "number of neighbors for KNN")

	_ = viper.BindPFlag("training.seed", cmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("training.test_size", cmd.Flags().Lookup("test-size"))
	_ = viper.BindPFlag("training.knn_neighbors", cmd.Flags().Lookup("neighbors"))

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	table, err := loadDataset()
	if err != nil {
		return err
	}

	reg, err := initRegistry(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := reg.Close(); closeErr != nil {
			slog.Warn("Failed to close registry", "error", closeErr)
		}
	}()

	trainer := service.NewTrainer(reg, nil, service.TrainerConfig{
		Seed:         viper.GetInt64("training.seed"),
		TestSize:     viper.GetFloat64("training.test_size"),
		KNNNeighbors: viper.GetInt("training.knn_neighbors"),
	})

	bar := progressbar.NewOptions(len(classifier.Families()),
		progressbar.OptionSetDescription("Training models"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	trainer.Progress = func(string) { _ = bar.Add(1) }

	result, err := trainer.Train(ctx, table)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	fmt.Fprintln(out, cli.SuccessStyle.Render("All models trained and saved."))
	fmt.Fprintf(out, "Run %s: %d rows (%d train / %d test)\n\n",
		result.RunID, result.Rows, result.TrainRows, result.TestRows)

	for _, family := range classifier.Families() {
		renderEvaluation(out, family, result.Evaluations[family], result.Classes)
	}

	return nil
}

// renderEvaluation prints one model's held-out metrics: headline accuracy,
// the per-class classification report and the confusion matrix.
func renderEvaluation(out io.Writer, family string, eval *evaluate.Evaluation, classes []string) {
	fmt.Fprintln(out, cli.TitleStyle.Render(family))
	fmt.Fprintf(out, "Accuracy: %s    Macro F1: %.4f    Samples: %d\n\n",
		cli.MetricStyle.Render(fmt.Sprintf("%.2f%%", eval.Accuracy*100)),
		eval.MacroF1, eval.Samples)

	fmt.Fprintf(out, "%-10s %10s %10s %10s %10s\n", "", "precision", "recall", "f1", "support")
	for _, class := range eval.Classes {
		report := eval.PerClass[class]
		fmt.Fprintf(out, "%-10s %10.4f %10.4f %10.4f %10d\n",
			className(classes, class), report.Precision, report.Recall, report.F1, report.Support)
	}

	fmt.Fprintln(out, "\nConfusion matrix (rows: actual, columns: predicted)")
	fmt.Fprintf(out, "%-10s", "")
	for _, class := range eval.Classes {
		fmt.Fprintf(out, "%10s", className(classes, class))
	}
	fmt.Fprintln(out)
	for i, class := range eval.Classes {
		fmt.Fprintf(out, "%-10s", className(classes, class))
		for j := range eval.Classes {
			fmt.Fprintf(out, "%10d", eval.Confusion[i][j])
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}

func className(classes []string, code int) string {
	if code >= 0 && code < len(classes) {
		return classes[code]
	}
	return fmt.Sprintf("class %d", code)
}
