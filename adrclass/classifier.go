package adrclass

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

type Classifier interface {
	Classify(vec []float64) int
}

// A TrainableClassifier is fit once on a sample matrix,
// one row per example, and the matching class labels.
type TrainableClassifier interface {
	Classifier
	Train(samples *mat.Dense, classes []int) error
}

// A ClassifierMaker creates an untrained classifier.
// Cross-validation calls it once per fold so that no
// state leaks between folds.
type ClassifierMaker func(inputCount, classCount int, rng *rand.Rand) (TrainableClassifier, error)

var ClassifierMakers = map[string]ClassifierMaker{
	"linearsvm": func(in, cc int, rng *rand.Rand) (TrainableClassifier, error) {
		return NewLinearSVM(cc, rng)
	},
	"neuralnet": func(in, cc int, rng *rand.Rand) (TrainableClassifier, error) {
		return NewNeuralNet(in, cc, rng)
	},
}
