package regressor

import "math/rand"

// seededPerm returns a reproducible permutation of [0,n).
func seededPerm(n int, seed int64) []int {
	r := rand.New(rand.NewSource(seed))
	return r.Perm(n)
}
