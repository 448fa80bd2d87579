package regressor

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// Save writes the trained model artifact as JSON.
func (m *Model) Save(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "regressor: marshal model")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "regressor: write model %s", path)
	}
	return nil
}

// Load reads a model artifact written by Save.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "regressor: read model %s", path)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "regressor: unmarshal model %s", path)
	}
	if len(m.Features) == 0 || len(m.Trees) == 0 {
		return nil, eris.Errorf("regressor: model %s is empty", path)
	}
	return &m, nil
}

// Split partitions [0,n) into train and test index sets by a seeded shuffle.
// The same seed always produces the same partition.
func Split(n int, testFraction float64, seed int64) (train, test []int) {
	perm := seededPerm(n, seed)
	cut := int(float64(n) * testFraction)
	if cut >= n {
		cut = n - 1
	}
	test = perm[:cut]
	train = perm[cut:]
	return train, test
}
