package adrclass

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLinearSVMSeparable(t *testing.T) {
	samples := mat.NewDense(6, 2, []float64{
		2, 2,
		3, 1,
		2.5, 3,
		-2, -1,
		-3, -2,
		-1.5, -2.5,
	})
	classes := []int{1, 1, 1, 0, 0, 0}

	svm, err := NewLinearSVM(2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, svm.Train(samples, classes))

	for i, c := range classes {
		assert.Equal(t, c, svm.Classify(samples.RawRowView(i)), "sample %d", i)
	}
	assert.Equal(t, 1, svm.Classify([]float64{4, 4}))
	assert.Equal(t, 0, svm.Classify([]float64{-4, -4}))
}

func TestLinearSVMBalancedFindsRareClass(t *testing.T) {
	x, classes := syntheticData(200, 2, 9)

	svm, err := NewLinearSVM(2, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	require.NoError(t, svm.Train(x, classes))

	var predicted int
	for i := range classes {
		predicted += svm.Classify(x.RawRowView(i))
	}
	assert.Greater(t, predicted, 0)
}

func TestLinearSVMErrors(t *testing.T) {
	_, err := NewLinearSVM(3, nil)
	assert.Error(t, err)

	svm, err := NewLinearSVM(2, nil)
	require.NoError(t, err)

	err = svm.Train(mat.NewDense(2, 1, []float64{1, 2}), []int{0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	err = svm.Train(mat.NewDense(2, 1, []float64{1, 2}), []int{0, 2})
	assert.Error(t, err)
}

func TestLinearSVMCostFromEnv(t *testing.T) {
	t.Setenv(SVMCostEnvVar, "0.5")
	svm, err := NewLinearSVM(2, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, svm.Cost)

	t.Setenv(SVMCostEnvVar, "lots")
	_, err = NewLinearSVM(2, nil)
	assert.Error(t, err)
}
