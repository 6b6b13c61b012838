package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rantau/demandcast/internal/classifier"
	"github.com/rantau/demandcast/internal/cli"
	"github.com/rantau/demandcast/internal/common"
	"github.com/rantau/demandcast/internal/model"
	"github.com/rantau/demandcast/internal/service"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the demand category for one record",
		Long: `Score a single product/store/date record against every trained model
family and show each family's predicted demand category.

Example:
  demandcast predict --product P0001 --store S0001 --price 25.50 \
    --discount 0.1 --weather Sunny --promotion Yes --date 2024-03-15`,
		RunE: runPredict,
	}

	cmd.Flags().String("product", "", "product ID")
	cmd.Flags().String("store", "", "store ID")
	cmd.Flags().String("price", "", "product price (>= 0)")
	cmd.Flags().String("discount", "", "discount fraction (0..1)")
	cmd.Flags().String("weather", "", "weather condition (Cloudy, Rainy, Sunny, Snowy)")
	cmd.Flags().String("promotion", "", "promotion active (Yes or No)")
	cmd.Flags().String("date", "", "prediction date (YYYY-MM-DD)")

	return cmd
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	// Only flags the user actually set make it into the record; the
	// prediction path refuses to guess defaults for missing columns.
	flagNames := map[string]string{
		"product":   "ProductID",
		"store":     "StoreID",
		"price":     "Price",
		"discount":  "Discount",
		"weather":   "Weather",
		"promotion": "Promotion",
		"date":      "PredictionDate",
	}
	fields := make(map[string]string)
	for flagName, column := range flagNames {
		if cmd.Flags().Changed(flagName) {
			value, _ := cmd.Flags().GetString(flagName)
			fields[column] = value
		}
	}

	req, missing, err := model.ParseRequest(fields)
	if err != nil {
		return common.NewUserError("invalid prediction request", err)
	}
	if len(missing) > 0 {
		return common.NewSchemaError(missing)
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

	predictor := service.NewPredictor(service.NewAssetCache(reg))
	results, err := predictor.Predict(ctx, req)
	if errors.Is(err, common.ErrNotTrained) {
		fmt.Fprintln(out, cli.WarningStyle.Render("No trained models found. Run \"demandcast train\" first."))
		return nil
	}
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	fmt.Fprintln(out, cli.TitleStyle.Render("Demand Prediction"))
	for _, family := range classifier.Families() {
		fmt.Fprintf(out, "%-30s %s\n", family, cli.MetricStyle.Render(results[family]))
	}

	return nil
}
