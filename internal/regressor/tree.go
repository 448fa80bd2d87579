package regressor

import (
	"math"
	"sort"
)

// node is one regression tree node. Serialized as part of the model artifact.
type node struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *node   `json:"left,omitempty"`
	Right     *node   `json:"right,omitempty"`
}

func (n *node) eval(row []float64) float64 {
	for !n.Leaf {
		if row[n.Feature] < n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// leafValue computes the regularized leaf weight: an L1 soft threshold on the
// residual sum, shrunk by the L2 term in the denominator.
func leafValue(sum float64, count int, cfg Config) float64 {
	shrunk := math.Abs(sum) - cfg.Alpha
	if shrunk <= 0 {
		return 0
	}
	return math.Copysign(shrunk, sum) / (float64(count) + cfg.Lambda)
}

// splitScore is the regularized gain term for a set of residuals, following
// the usual squared-loss boosting objective.
func splitScore(sum float64, count int, cfg Config) float64 {
	return sum * sum / (float64(count) + cfg.Lambda)
}

// buildTree fits one regression tree to the residuals of the rows named by
// indices. Splits are chosen greedily to maximize the regularized gain; a
// node becomes a leaf when it reaches max depth, runs out of samples, or no
// split improves the objective.
func buildTree(rows [][]float64, residuals []float64, indices []int, depth int, cfg Config) *node {
	var sum float64
	for _, i := range indices {
		sum += residuals[i]
	}

	if depth >= cfg.MaxDepth || len(indices) < 2*cfg.MinLeaf {
		return &node{Leaf: true, Value: leafValue(sum, len(indices), cfg)}
	}

	feature, threshold, gain := bestSplit(rows, residuals, indices, sum, cfg)
	if gain <= 0 {
		return &node{Leaf: true, Value: leafValue(sum, len(indices), cfg)}
	}

	var left, right []int
	for _, i := range indices {
		if rows[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &node{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(rows, residuals, left, depth+1, cfg),
		Right:     buildTree(rows, residuals, right, depth+1, cfg),
	}
}

// bestSplit scans every feature for the split with the highest gain over
// keeping the node whole. Ties resolve to the lowest feature index and then
// the lowest threshold, keeping training deterministic.
func bestSplit(rows [][]float64, residuals []float64, indices []int, totalSum float64, cfg Config) (feature int, threshold, gain float64) {
	parent := splitScore(totalSum, len(indices), cfg)
	feature = -1

	sorted := make([]int, len(indices))
	for f := 0; f < len(rows[indices[0]]); f++ {
		copy(sorted, indices)
		sort.SliceStable(sorted, func(a, b int) bool {
			return rows[sorted[a]][f] < rows[sorted[b]][f]
		})

		var leftSum float64
		for pos := 1; pos < len(sorted); pos++ {
			leftSum += residuals[sorted[pos-1]]

			prev := rows[sorted[pos-1]][f]
			cur := rows[sorted[pos]][f]
			if cur == prev {
				continue
			}
			if pos < cfg.MinLeaf || len(sorted)-pos < cfg.MinLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			g := splitScore(leftSum, pos, cfg) + splitScore(rightSum, len(sorted)-pos, cfg) - parent
			if g > gain {
				feature = f
				threshold = (prev + cur) / 2
				gain = g
			}
		}
	}
	return feature, threshold, gain
}
