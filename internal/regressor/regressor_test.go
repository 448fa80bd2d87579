package regressor

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticSet builds rows where the target is a noiseless function of the
// features, so the ensemble has structure to learn.
func syntheticSet(n int) (rows [][]float64, targets []float64) {
	for i := 0; i < n; i++ {
		x := float64(i % 10)
		y := float64(i % 7)
		rows = append(rows, []float64{x, y})
		targets = append(targets, 1000+120*x+35*y)
	}
	return rows, targets
}

func TestTrain_ReducesErrorOverBase(t *testing.T) {
	rows, targets := syntheticSet(120)
	m, err := Train(rows, targets, []string{"x", "y"}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, m.Trees, 100)

	// Baseline: always predicting the mean.
	var mean float64
	for _, y := range targets {
		mean += y
	}
	mean /= float64(len(targets))
	var baseSS float64
	for _, y := range targets {
		baseSS += (y - mean) * (y - mean)
	}

	var modelSS float64
	for i, row := range rows {
		p, err := m.Predict(row)
		require.NoError(t, err)
		modelSS += (targets[i] - p) * (targets[i] - p)
	}
	assert.Less(t, modelSS, baseSS/10, "boosting should beat the mean baseline by a wide margin")
}

func TestTrain_Deterministic(t *testing.T) {
	rows, targets := syntheticSet(80)
	cfg := DefaultConfig()
	cfg.Trees = 20

	a, err := Train(rows, targets, []string{"x", "y"}, cfg)
	require.NoError(t, err)
	b, err := Train(rows, targets, []string{"x", "y"}, cfg)
	require.NoError(t, err)

	probe := []float64{4, 3}
	pa, err := a.Predict(probe)
	require.NoError(t, err)
	pb, err := b.Predict(probe)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestTrain_Validation(t *testing.T) {
	_, err := Train(nil, nil, []string{"x"}, DefaultConfig())
	assert.Error(t, err)

	_, err = Train([][]float64{{1}}, []float64{1, 2}, []string{"x"}, DefaultConfig())
	assert.Error(t, err)

	_, err = Train([][]float64{{1, 2}}, []float64{1}, []string{"x"}, DefaultConfig())
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Trees = 0
	_, err = Train([][]float64{{1}}, []float64{1}, []string{"x"}, cfg)
	assert.Error(t, err)
}

func TestPredict_Validation(t *testing.T) {
	rows, targets := syntheticSet(40)
	cfg := DefaultConfig()
	cfg.Trees = 5
	m, err := Train(rows, targets, []string{"x", "y"}, cfg)
	require.NoError(t, err)

	_, err = m.Predict([]float64{1})
	assert.Error(t, err)
	_, err = m.Predict([]float64{1, math.NaN()})
	assert.Error(t, err)
	_, err = m.Predict([]float64{math.Inf(1), 1})
	assert.Error(t, err)

	p, err := m.Predict([]float64{5, 2})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(p))
}

func TestEvaluate(t *testing.T) {
	rows, targets := syntheticSet(100)
	m, err := Train(rows, targets, []string{"x", "y"}, DefaultConfig())
	require.NoError(t, err)

	ev, err := m.Evaluate(rows, targets)
	require.NoError(t, err)
	assert.Greater(t, ev.RSquared, 0.9)
	assert.Less(t, ev.RMSE, 150.0)

	_, err = m.Evaluate(nil, nil)
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	rows, targets := syntheticSet(60)
	cfg := DefaultConfig()
	cfg.Trees = 10
	m, err := Train(rows, targets, []string{"x", "y"}, cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Features, loaded.Features)

	probe := []float64{7, 1}
	want, err := m.Predict(probe)
	require.NoError(t, err)
	got, err := loaded.Predict(probe)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	train, test := Split(100, 0.2, 42)
	assert.Len(t, test, 20)
	assert.Len(t, train, 80)

	// Partition covers [0,100) exactly once.
	seen := make(map[int]bool, 100)
	for _, i := range append(append([]int(nil), train...), test...) {
		assert.False(t, seen[i], "index %d repeated", i)
		seen[i] = true
	}
	assert.Len(t, seen, 100)

	// Same seed reproduces the partition; a different seed does not have to.
	train2, test2 := Split(100, 0.2, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}
