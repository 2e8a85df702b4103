package adrclass

import (
	"fmt"
	"math/rand"
	"sort"
)

// StratifiedKFold splits example indices into k test
// folds. Each class is shuffled with rng and dealt
// round-robin over the folds, so every fold keeps roughly
// the class balance of the whole set. The returned folds
// are sorted.
func StratifiedKFold(classes []int, k int, rng *rand.Rand) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", k)
	}
	if len(classes) < k {
		return nil, fmt.Errorf("cannot split %d examples into %d folds", len(classes), k)
	}

	byClass := map[int][]int{}
	for i, c := range classes {
		byClass[c] = append(byClass[c], i)
	}
	labels := make([]int, 0, len(byClass))
	for c := range byClass {
		labels = append(labels, c)
	}
	sort.Ints(labels)

	folds := make([][]int, k)
	var next int
	for _, c := range labels {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, i := range idx {
			folds[next] = append(folds[next], i)
			next = (next + 1) % k
		}
	}
	for _, f := range folds {
		sort.Ints(f)
	}
	return folds, nil
}

// complement returns the indices in [0, n) that are not
// in the sorted fold.
func complement(n int, fold []int) []int {
	res := make([]int, 0, n-len(fold))
	var j int
	for i := 0; i < n; i++ {
		if j < len(fold) && fold[j] == i {
			j++
			continue
		}
		res = append(res, i)
	}
	return res
}
