package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrovision/cropcast/internal/model"
	"github.com/agrovision/cropcast/internal/predictor"
)

var (
	predictCrop     string
	predictCity     string
	predictYield    float64
	predictPlanting string
	predictDate     string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a crop price and print the advisory report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		planting, err := time.Parse("2006-01-02", predictPlanting)
		if err != nil {
			return eris.Errorf("invalid planting date %q, use YYYY-MM-DD", predictPlanting)
		}
		target, err := time.Parse("2006-01-02", predictDate)
		if err != nil {
			return eris.Errorf("invalid prediction date %q, use YYYY-MM-DD", predictDate)
		}
		if predictYield <= 0 {
			return eris.New("yield must be greater than 0")
		}

		env, err := initServing(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.svc.Predict(ctx, predictCrop, predictCity, target, planting)
		logErr := func(status model.AuditStatus, detail string) {
			entry := model.AuditEntry{
				Crop: predictCrop, City: predictCity,
				PlantingDate: planting, TargetDate: target,
				Status: status, Detail: detail,
			}
			if res != nil {
				entry.Price = res.Price
				entry.PreviousPrice = res.PreviousPrice
			}
			_, _ = env.store.LogPrediction(ctx, entry)
		}
		if err != nil {
			var inputErr *predictor.InputError
			var noData *predictor.NoDataError
			if errors.As(err, &inputErr) || errors.As(err, &noData) {
				logErr(model.AuditStatusRejected, err.Error())
			} else {
				logErr(model.AuditStatusFailed, err.Error())
			}
			return eris.Wrap(err, "predict")
		}
		logErr(model.AuditStatusOK, "")

		adjusted := env.adv.AdjustForInflation(res.Price, planting, target)
		econ := env.adv.Economics(predictCrop, adjusted, predictYield)
		weather := env.adv.Weather(predictCrop, planting)

		fmt.Printf("Prediction for %s in %s on %s\n", predictCrop, predictCity, predictDate)
		fmt.Printf("  Predicted price:          %.2f INR/quintal\n", res.Price)
		fmt.Printf("  Inflation-adjusted price: %.2f INR/quintal\n", adjusted)
		fmt.Printf("  Most recent price used:   %.2f INR/quintal\n", res.PreviousPrice)
		fmt.Printf("  Revenue (%.1f quintals):  %s INR\n", predictYield, econ.Revenue.StringFixed(2))
		fmt.Printf("  Production cost:          %s INR\n", econ.Cost.StringFixed(2))
		fmt.Printf("  Net profit:               %s INR\n", econ.Profit.StringFixed(2))
		fmt.Printf("  Storage: %s\n", env.adv.StorageAdvice(ctx, predictCrop, predictCity, target, planting, adjusted))
		fmt.Printf("  Weather (%s planting): %s - %s\n",
			model.SeasonOf(planting.Month()), weather.Condition, weather.Advice)

		if suggestions := env.adv.Suggestions(ctx, predictCity, predictCrop, target, planting); len(suggestions) > 0 {
			fmt.Println("  Alternative crops for this soil:")
			for _, s := range suggestions {
				fmt.Printf("    %s: %.2f INR/quintal\n", s.Crop, s.Price)
			}
		}

		return nil
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictCrop, "crop", "", "crop name (required)")
	predictCmd.Flags().StringVar(&predictCity, "city", "", "city name (required)")
	predictCmd.Flags().Float64Var(&predictYield, "yield", 1, "expected yield in quintals")
	predictCmd.Flags().StringVar(&predictPlanting, "planting-date", "", "planting date YYYY-MM-DD (required)")
	predictCmd.Flags().StringVar(&predictDate, "prediction-date", "", "prediction date YYYY-MM-DD (required)")
	_ = predictCmd.MarkFlagRequired("crop")
	_ = predictCmd.MarkFlagRequired("city")
	_ = predictCmd.MarkFlagRequired("planting-date")
	_ = predictCmd.MarkFlagRequired("prediction-date")
	rootCmd.AddCommand(predictCmd)
}
