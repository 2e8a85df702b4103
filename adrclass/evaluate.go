package adrclass

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/bsm/mlmetrics"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/5l1v3r1/adr-ranker/featmat"
)

// DefaultFolds is the number of cross-validation folds
// used by the experiments.
const DefaultFolds = 10

// ErrDimensionMismatch is returned when a feature matrix
// and its label vector disagree on the number of examples.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// An Evaluator cross-validates a classifier on every
// matrix of a feature set.
type Evaluator struct {
	Maker     ClassifierMaker
	ModelName string
	Folds     int
	Seed      int64
	Log       logrus.FieldLogger
}

// NewEvaluator looks up a classifier by its registry name.
func NewEvaluator(model string, seed int64) (*Evaluator, error) {
	maker, ok := ClassifierMakers[model]
	if !ok {
		return nil, fmt.Errorf("invalid classifier name: %s", model)
	}
	return &Evaluator{
		Maker:     maker,
		ModelName: model,
		Folds:     DefaultFolds,
		Seed:      seed,
		Log:       logrus.WithField("module", "adrclass"),
	}, nil
}

// Evaluate runs stratified cross-validation on each matrix
// of set. A matrix that cannot be evaluated gets no entry
// but does not stop the others; all such errors are joined
// into the returned error. The results table is logged in
// plain and LaTeX form.
func (e *Evaluator) Evaluate(experiment string, classes []int, set *featmat.Set) (*Results, error) {
	res := &Results{Experiment: experiment}
	var errs []error
	set.Each(func(name string, x *mat.Dense) {
		rows, cols := x.Dims()
		e.logger().Infof("Evaluating %s on %s (%d x %d)", e.ModelName, name, rows, cols)
		scores, err := e.CrossValidate(x, classes)
		if err != nil {
			e.logger().WithError(err).Errorf("Evaluation of %s failed", name)
			errs = append(errs, fmt.Errorf("evaluate %s: %w", name, err))
			return
		}
		scores.Name = name
		res.Scores = append(res.Scores, scores)
	})

	if len(res.Scores) > 0 {
		table, err := res.Table()
		if err != nil {
			errs = append(errs, err)
		} else {
			e.logger().Infof("\n%s\n", table)
		}
		e.logger().Infof("\n%s\n", res.LaTeX())
	}
	return res, errors.Join(errs...)
}

// CrossValidate computes per-fold macro precision, recall
// and F1 for one feature matrix. Fold assignment depends
// only on the seed and the labels, so every matrix in an
// experiment sees the same folds.
func (e *Evaluator) CrossValidate(x *mat.Dense, classes []int) (*Scores, error) {
	rows, cols := x.Dims()
	if rows != len(classes) {
		return nil, fmt.Errorf("%d feature rows but %d labels: %w", rows, len(classes),
			ErrDimensionMismatch)
	}
	for i, c := range classes {
		if c < 0 {
			return nil, fmt.Errorf("label %d of example %d is negative", c, i)
		}
	}
	classCount := countClasses(classes)

	folds, err := StratifiedKFold(append([]int(nil), classes...), e.folds(),
		rand.New(rand.NewSource(e.Seed)))
	if err != nil {
		return nil, err
	}

	scores := &Scores{Rows: rows, Cols: cols}
	for i, testIdx := range folds {
		trainIdx := complement(rows, testIdx)
		clf, err := e.Maker(cols, classCount, rand.New(rand.NewSource(e.Seed+int64(i)+1)))
		if err != nil {
			return nil, err
		}
		if err := clf.Train(selectRows(x, trainIdx), selectInts(classes, trainIdx)); err != nil {
			return nil, fmt.Errorf("fold %d: %w", i, err)
		}

		confusion := mlmetrics.NewConfusionMatrix()
		for _, j := range testIdx {
			confusion.Observe(classes[j], clf.Classify(x.RawRowView(j)))
		}
		p, r, f := macroScores(confusion, classCount)
		scores.Precision = append(scores.Precision, p)
		scores.Recall = append(scores.Recall, r)
		scores.F1 = append(scores.F1, f)
	}
	return scores, nil
}

func (e *Evaluator) folds() int {
	if e.Folds == 0 {
		return DefaultFolds
	}
	return e.Folds
}

func (e *Evaluator) logger() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

// macroScores averages the per-class scores. A ratio with
// a zero denominator counts as 0.
func macroScores(confusion *mlmetrics.ConfusionMatrix, classCount int) (p, r, f float64) {
	for c := 0; c < classCount; c++ {
		p += zeroIfNaN(confusion.Precision(c))
		r += zeroIfNaN(confusion.Sensitivity(c))
		f += zeroIfNaN(confusion.F1(c))
	}
	n := float64(classCount)
	return p / n, r / n, f / n
}

func zeroIfNaN(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func countClasses(classes []int) int {
	count := 2
	for _, c := range classes {
		if c+1 > count {
			count = c + 1
		}
	}
	return count
}

func selectRows(x *mat.Dense, idx []int) *mat.Dense {
	_, cols := x.Dims()
	res := mat.NewDense(len(idx), cols, nil)
	for i, j := range idx {
		res.SetRow(i, x.RawRowView(j))
	}
	return res
}

func selectInts(xs []int, idx []int) []int {
	res := make([]int, len(idx))
	for i, j := range idx {
		res[i] = xs[j]
	}
	return res
}
