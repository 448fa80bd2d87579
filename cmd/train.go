package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrovision/cropcast/internal/features"
	"github.com/agrovision/cropcast/internal/model"
	"github.com/agrovision/cropcast/internal/regressor"
	"github.com/agrovision/cropcast/internal/store"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Clean the consolidated table and train the price model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.NewSQLite(cfg.Store.DSN)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		rows, err := st.LoadObservations(ctx)
		if err != nil {
			return eris.Wrap(err, "load observations")
		}
		if len(rows) == 0 {
			return eris.New("observation table is empty; run `cropcast ingest` first")
		}

		// Dataset diagnostics go to the console; it is the sole
		// observability surface for training runs.
		fmt.Print(features.Diagnose(rows).String())

		set, err := features.Engineer(rows, cfg.Cleaning.PriceFloor)
		if err != nil {
			return eris.Wrap(err, "engineer features")
		}
		fmt.Printf("training rows after cleaning and lag: %d\n", len(set.Vectors))
		fmt.Printf("crop codes: %v\n", set.Crops.Names())
		fmt.Printf("city codes: %v\n", set.Cities.Names())

		matrix := make([][]float64, len(set.Vectors))
		for i, v := range set.Vectors {
			matrix[i] = v.Floats()
		}

		trainIdx, testIdx := regressor.Split(len(matrix), cfg.Model.TestFraction, cfg.Model.Seed)
		trainX, trainY := subset(matrix, set.Targets, trainIdx)
		testX, testY := subset(matrix, set.Targets, testIdx)

		m, err := regressor.Train(trainX, trainY, model.FeatureNames, regressor.Config{
			Trees:        cfg.Model.Trees,
			LearningRate: cfg.Model.LearningRate,
			MaxDepth:     cfg.Model.MaxDepth,
			Lambda:       cfg.Model.Lambda,
			Alpha:        cfg.Model.Alpha,
			MinLeaf:      1,
		})
		if err != nil {
			return eris.Wrap(err, "train model")
		}

		trainEval, err := m.Evaluate(trainX, trainY)
		if err != nil {
			return eris.Wrap(err, "evaluate train set")
		}
		fmt.Printf("train RMSE=%.2f R2=%.4f\n", trainEval.RMSE, trainEval.RSquared)

		if len(testX) > 0 {
			testEval, err := m.Evaluate(testX, testY)
			if err != nil {
				return eris.Wrap(err, "evaluate test set")
			}
			fmt.Printf("test  RMSE=%.2f R2=%.4f\n", testEval.RMSE, testEval.RSquared)
		}

		if err := m.Save(cfg.Artifacts.ModelPath); err != nil {
			return eris.Wrap(err, "save model")
		}
		if err := saveJSON(cfg.Artifacts.CropCodesPath, set.Crops); err != nil {
			return eris.Wrap(err, "save crop codes")
		}
		if err := saveJSON(cfg.Artifacts.CityCodesPath, set.Cities); err != nil {
			return eris.Wrap(err, "save city codes")
		}

		zap.L().Info("training complete",
			zap.Int("rows", len(set.Vectors)),
			zap.String("model", cfg.Artifacts.ModelPath),
		)
		return nil
	},
}

func subset(matrix [][]float64, targets []float64, idx []int) ([][]float64, []float64) {
	x := make([][]float64, 0, len(idx))
	y := make([]float64, 0, len(idx))
	for _, i := range idx {
		x = append(x, matrix[i])
		y = append(y, targets[i])
	}
	return x, y
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
