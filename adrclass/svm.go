package adrclass

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultSVMCost    = 1.0
	defaultSVMMaxIter = 1000
	defaultSVMTol     = 0.1
)

// LinearSVM is an L2-regularised linear support vector
// machine with squared hinge loss, trained by dual
// coordinate descent. The bias is learned as an extra
// constant feature of value 1.
//
// With Balanced set, each class's cost is scaled by
// n / (2 * count(class)) so that the rare ADR class is
// not drowned out.
type LinearSVM struct {
	Cost      float64
	Balanced  bool
	MaxIter   int
	Tolerance float64

	rng     *rand.Rand
	weights []float64
	bias    float64
}

// NewLinearSVM creates a class-balanced binary SVM.
// The cost and iteration cap may be overridden through
// the environment.
func NewLinearSVM(classCount int, rng *rand.Rand) (*LinearSVM, error) {
	if classCount != 2 {
		return nil, fmt.Errorf("linear SVM is binary, got %d classes", classCount)
	}
	cost, err := envFloat(SVMCostEnvVar, defaultSVMCost)
	if err != nil {
		return nil, err
	}
	maxIter, err := envInt(SVMMaxIterEnvVar, defaultSVMMaxIter)
	if err != nil {
		return nil, err
	}
	return &LinearSVM{
		Cost:      cost,
		Balanced:  true,
		MaxIter:   maxIter,
		Tolerance: defaultSVMTol,
		rng:       rng,
	}, nil
}

func (s *LinearSVM) Train(samples *mat.Dense, classes []int) error {
	n, d := samples.Dims()
	if n != len(classes) {
		return fmt.Errorf("%d samples but %d classes: %w", n, len(classes), ErrDimensionMismatch)
	}
	if n == 0 {
		return errors.New("linear SVM: no training samples")
	}
	costs, err := s.classCosts(classes)
	if err != nil {
		return err
	}

	w := make([]float64, d)
	var b float64
	alpha := make([]float64, n)
	ys := make([]float64, n)
	diag := make([]float64, n)
	qd := make([]float64, n)
	for i := 0; i < n; i++ {
		row := samples.RawRowView(i)
		ys[i] = -1
		if classes[i] == 1 {
			ys[i] = 1
		}
		diag[i] = 0.5 / costs[classes[i]]
		qd[i] = floats.Dot(row, row) + 1 + diag[i]
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for iter := 0; iter < s.MaxIter; iter++ {
		if s.rng != nil {
			s.rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		maxPG, minPG := math.Inf(-1), math.Inf(1)
		for _, i := range order {
			row := samples.RawRowView(i)
			g := ys[i]*(floats.Dot(w, row)+b) - 1 + diag[i]*alpha[i]
			pg := g
			if alpha[i] == 0 {
				pg = math.Min(g, 0)
			}
			maxPG = math.Max(maxPG, pg)
			minPG = math.Min(minPG, pg)
			if math.Abs(pg) < 1e-12 {
				continue
			}
			old := alpha[i]
			alpha[i] = math.Max(alpha[i]-g/qd[i], 0)
			step := (alpha[i] - old) * ys[i]
			floats.AddScaled(w, step, row)
			b += step
		}
		if maxPG-minPG <= s.Tolerance {
			break
		}
	}

	s.weights = w
	s.bias = b
	return nil
}

func (s *LinearSVM) Classify(vec []float64) int {
	if s.Decision(vec) > 0 {
		return 1
	}
	return 0
}

// Decision returns the signed distance-like score
// w.x + b; positive values mean an ADR mention.
func (s *LinearSVM) Decision(vec []float64) float64 {
	return floats.Dot(s.weights, vec) + s.bias
}

func (s *LinearSVM) classCosts(classes []int) ([2]float64, error) {
	var counts [2]int
	for _, c := range classes {
		if c != 0 && c != 1 {
			return [2]float64{}, fmt.Errorf("linear SVM: invalid class %d", c)
		}
		counts[c]++
	}
	costs := [2]float64{s.Cost, s.Cost}
	if !s.Balanced {
		return costs, nil
	}
	for c, count := range counts {
		if count > 0 {
			costs[c] *= float64(len(classes)) / float64(2*count)
		}
	}
	return costs, nil
}
