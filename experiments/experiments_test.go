package experiments

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/5l1v3r1/adr-ranker/featmat"
	"github.com/5l1v3r1/adr-ranker/features"
)

func testInput() *features.Input {
	return &features.Input{
		Raw:    []string{"this drug gave me a headache", "not happy, no sleep", "great day"},
		Tokens: [][]string{{"this", "drug", "gave", "me", "a", "headache"}, {"not", "happy", ",", "no", "sleep"}, {"great", "day"}},
		POS:    []string{"this_D drug_N", "not_R happy_A", "great_A day_N"},
		Labels: []int{1, 0, 0},
	}
}

func constant(cols int, v float64) features.Provider {
	return features.ProviderFunc(func(in *features.Input) (*mat.Dense, error) {
		m := mat.NewDense(in.Len(), cols, nil)
		for i := 0; i < in.Len(); i++ {
			for j := 0; j < cols; j++ {
				m.Set(i, j, v)
			}
		}
		return m, nil
	})
}

func testInputs() *Inputs {
	return &Inputs{
		Input:      testInput(),
		CNNADR:     &features.CNN{},
		CNNSSWE:    &features.CNN{},
		Positive:   features.WordList{"happy": true, "great": true},
		Negative:   features.WordList{"headache": true},
		ADRLexicon: features.NewADRLexicon([]string{"headache", "no sleep"}),
		Providers: map[string]features.Provider{
			LSA:      constant(3, 1),
			Doc2Vec:  constant(4, 2),
			CNNADR:   constant(2, 3),
			CNNSSWE:  constant(2, 4),
			CNNADRT:  constant(2, 5),
			CNNSSWET: constant(2, 6),
		},
	}
}

func TestRepresentations(t *testing.T) {
	set, err := Representations(testInputs())
	require.NoError(t, err)
	assert.Equal(t, []string{LSA, Doc2Vec, CNNADR, CNNSSWE}, set.Names())

	m, ok := set.Get(Doc2Vec)
	require.True(t, ok)
	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 4, cols)
}

func TestDomainKnowledge(t *testing.T) {
	in := testInputs()
	exp1, err := Representations(in)
	require.NoError(t, err)

	exp2, err := DomainKnowledge(exp1, in)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"LSA-ADR-LEX", "LSA-SENT", "LSA-TOT-EXTRA",
		"CNN-ADR-ADR-LEX", "CNN-ADR-SENT", "CNN-ADR-TOT-EXTRA",
	}, exp2.Names())

	// ADR lexicon: 3 columns, sentiment: 3, negation: 2.
	wantCols := map[string]int{
		"LSA-ADR-LEX": 6, "LSA-SENT": 8, "LSA-TOT-EXTRA": 11,
		"CNN-ADR-ADR-LEX": 5, "CNN-ADR-SENT": 7, "CNN-ADR-TOT-EXTRA": 10,
	}
	exp2.Each(func(name string, m *mat.Dense) {
		rows, cols := m.Dims()
		assert.Equal(t, 3, rows, name)
		assert.Equal(t, wantCols[name], cols, name)
	})

	_, ok := exp1.Get(LSA)
	assert.False(t, ok, "LSA moves out of experiment 1")
	_, ok = exp1.Get(CNNADR)
	assert.False(t, ok, "CNN-ADR moves out of experiment 1")
	assert.Equal(t, []string{Doc2Vec, CNNSSWE}, exp1.Names())

	lexOnly, _ := exp2.Get("LSA-ADR-LEX")
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, lexOnly.RawRowView(0))
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 2}, lexOnly.RawRowView(1))

	sent, _ := exp2.Get("CNN-ADR-SENT")
	assert.Equal(t, []float64{3, 3}, sent.RawRowView(1)[:2])
	assert.Equal(t, []float64{1, 2}, sent.RawRowView(1)[5:], "negation columns follow sentiment")
}

func TestDomainKnowledgeNegativeLexicon(t *testing.T) {
	negativeCount := func(fix bool) float64 {
		in := testInputs()
		in.FixNegativeLexicon = fix
		exp1 := featmat.NewSet()
		require.NoError(t, exp1.Add(LSA, mat.NewDense(3, 1, nil)))
		require.NoError(t, exp1.Add(CNNADR, mat.NewDense(3, 1, nil)))
		exp2, err := DomainKnowledge(exp1, in)
		require.NoError(t, err)
		m, _ := exp2.Get("LSA-SENT")
		// column 0 is the base, then positive and negative counts
		return m.At(0, 2)
	}
	assert.Equal(t, 0.0, negativeCount(false))
	assert.Equal(t, 1.0, negativeCount(true))
}

func TestDomainKnowledgeMissingBase(t *testing.T) {
	exp1 := featmat.NewSet()
	require.NoError(t, exp1.Add(LSA, mat.NewDense(3, 1, nil)))
	_, err := DomainKnowledge(exp1, testInputs())
	assert.Error(t, err)
	assert.Equal(t, 1, exp1.Len(), "a failed take leaves the set untouched")
}

func TestProviderFailure(t *testing.T) {
	boom := features.ProviderFunc(func(*features.Input) (*mat.Dense, error) {
		return nil, errors.New("boom")
	})

	in := testInputs()
	in.Providers[CNNSSWE] = boom
	_, err := Representations(in)
	assert.ErrorIs(t, err, features.ErrProvider)

	in = testInputs()
	in.Providers[Sentiment] = boom
	exp1, err := Representations(in)
	require.NoError(t, err)
	_, err = DomainKnowledge(exp1, in)
	assert.ErrorIs(t, err, features.ErrProvider)

	in = testInputs()
	in.Providers[CNNADRT] = boom
	_, err = FineTuned(in)
	var perr *features.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, CNNADRT, perr.Provider)
}

func TestFineTuned(t *testing.T) {
	set, err := FineTuned(testInputs())
	require.NoError(t, err)
	assert.Equal(t, []string{CNNADRT, CNNSSWET}, set.Names())

	_, err = FineTuned(&Inputs{Input: testInput()})
	assert.Error(t, err)
}
