package adrclass

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() *Results {
	folds := func(v float64) []float64 {
		res := make([]float64, DefaultFolds)
		for i := range res {
			res[i] = v
		}
		return res
	}
	return &Results{
		Experiment: "domain-knowledge",
		Scores: []*Scores{
			{Name: "LSA-ADR-LEX", Rows: 100, Cols: 302, Precision: folds(0.5), Recall: folds(0.25), F1: folds(0.375)},
			{Name: "CNN-ADR-TOT-EXTRA", Rows: 100, Cols: 71, Precision: folds(0.75), Recall: folds(0.5), F1: folds(0.625)},
		},
	}
}

func TestResultsTable(t *testing.T) {
	table, err := sampleResults().Table()
	require.NoError(t, err)
	assert.Contains(t, table, "LSA-ADR-LEX")
	assert.Contains(t, table, "CNN-ADR-TOT-EXTRA")
	assert.Contains(t, table, "0.7500")
}

func TestResultsLaTeX(t *testing.T) {
	latex := sampleResults().LaTeX()
	assert.Contains(t, latex, `\begin{tabular}{lrrr}`)
	assert.Contains(t, latex, `LSA-ADR-LEX & 0.5000 $\pm$ 0.0000 & 0.2500 $\pm$ 0.0000 & 0.3750 $\pm$ 0.0000 \\`)
	assert.Contains(t, latex, `\end{tabular}`)
}

func TestLatexEscape(t *testing.T) {
	assert.Equal(t, `CNN\_ADR \& 50\%`, latexEscape("CNN_ADR & 50%"))
}

func TestSerializeRoundTrip(t *testing.T) {
	e := newTestEvaluator(t)
	path := filepath.Join(t.TempDir(), "results.json")

	require.NoError(t, WriteResults(path, e, []*Results{sampleResults()}))
	results, seed, err := ReadResults(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), seed)
	require.Len(t, results, 1)
	assert.Equal(t, sampleResults(), results[0])
}

func TestDeserializeRejectsShortFolds(t *testing.T) {
	_, _, err := Deserialize([]byte(`{"seed":1,"folds":10,"experiments":[
		{"experiment":"x","scores":[{"name":"LSA","precision":[1],"recall":[1],"f1":[1]}]}]}`))
	assert.Error(t, err)

	_, _, err = Deserialize([]byte(`{"seed":1,"folds":10,"experiments":[]}`))
	assert.Error(t, err)
}
