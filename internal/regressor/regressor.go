// Package regressor implements a least-squares gradient-boosted ensemble of
// regression trees. A trained Model is immutable, deterministic, and safe for
// concurrent scoring.
package regressor

import (
	"math"

	"github.com/rotisserie/eris"
)

// Config holds the training parameters. All values are fixed at training
// time; there is no online tuning.
type Config struct {
	Trees        int     // number of boosting rounds
	LearningRate float64 // shrinkage applied to each tree's contribution
	MaxDepth     int     // maximum tree depth
	Lambda       float64 // L2 regularization on leaf values
	Alpha        float64 // L1 regularization on leaf values
	MinLeaf      int     // minimum samples per leaf
}

// DefaultConfig returns the production training parameters.
func DefaultConfig() Config {
	return Config{
		Trees:        100,
		LearningRate: 0.05,
		MaxDepth:     4,
		Lambda:       1.0,
		Alpha:        0.1,
		MinLeaf:      1,
	}
}

// Model is a trained boosted-tree ensemble.
type Model struct {
	Base         float64  `json:"base"`
	LearningRate float64  `json:"learning_rate"`
	Features     []string `json:"features"`
	Trees        []*node  `json:"trees"`
}

// Train fits a boosted ensemble to the given rows. Every row must have
// len(features) columns. Training is fully deterministic for identical
// inputs.
func Train(rows [][]float64, targets []float64, features []string, cfg Config) (*Model, error) {
	if len(rows) == 0 {
		return nil, eris.New("regressor: no training rows")
	}
	if len(rows) != len(targets) {
		return nil, eris.Errorf("regressor: %d rows but %d targets", len(rows), len(targets))
	}
	for i, r := range rows {
		if len(r) != len(features) {
			return nil, eris.Errorf("regressor: row %d has %d columns, want %d", i, len(r), len(features))
		}
	}
	if cfg.Trees <= 0 || cfg.LearningRate <= 0 || cfg.MaxDepth <= 0 {
		return nil, eris.New("regressor: trees, learning rate, and max depth must be positive")
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = 1
	}

	var base float64
	for _, t := range targets {
		base += t
	}
	base /= float64(len(targets))

	m := &Model{
		Base:         base,
		LearningRate: cfg.LearningRate,
		Features:     append([]string(nil), features...),
	}

	pred := make([]float64, len(targets))
	for i := range pred {
		pred[i] = base
	}

	residuals := make([]float64, len(targets))
	indices := make([]int, len(targets))

	for round := 0; round < cfg.Trees; round++ {
		for i := range targets {
			residuals[i] = targets[i] - pred[i]
			indices[i] = i
		}

		t := buildTree(rows, residuals, indices, 0, cfg)
		m.Trees = append(m.Trees, t)

		for i := range pred {
			pred[i] += cfg.LearningRate * t.eval(rows[i])
		}
	}

	return m, nil
}

// Predict scores one feature row. The row width must match the training
// feature set.
func (m *Model) Predict(row []float64) (float64, error) {
	if len(row) != len(m.Features) {
		return 0, eris.Errorf("regressor: row has %d columns, model expects %d", len(row), len(m.Features))
	}
	for i, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, eris.Errorf("regressor: feature %s is not finite", m.Features[i])
		}
	}

	out := m.Base
	for _, t := range m.Trees {
		out += m.LearningRate * t.eval(row)
	}
	return out, nil
}

// Evaluation holds held-out scoring metrics.
type Evaluation struct {
	RMSE     float64 `json:"rmse"`
	RSquared float64 `json:"r_squared"`
}

// Evaluate scores the model against held-out rows.
func (m *Model) Evaluate(rows [][]float64, targets []float64) (Evaluation, error) {
	if len(rows) == 0 || len(rows) != len(targets) {
		return Evaluation{}, eris.New("regressor: evaluation set is empty or misaligned")
	}

	var mean float64
	for _, t := range targets {
		mean += t
	}
	mean /= float64(len(targets))

	var ssRes, ssTot float64
	for i, row := range rows {
		p, err := m.Predict(row)
		if err != nil {
			return Evaluation{}, err
		}
		ssRes += (targets[i] - p) * (targets[i] - p)
		ssTot += (targets[i] - mean) * (targets[i] - mean)
	}

	ev := Evaluation{RMSE: math.Sqrt(ssRes / float64(len(rows)))}
	if ssTot > 0 {
		ev.RSquared = 1 - ssRes/ssTot
	}
	return ev, nil
}
