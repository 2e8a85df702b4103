package features

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/5l1v3r1/adr-ranker/featmat"
)

var (
	adrWords   = []string{"headache", "nausea", "dizzy", "insomnia", "rash"}
	otherWords = []string{"today", "great", "coffee", "weekend", "work", "music", "rain"}
)

// toyInput builds n tweets; every fourth one mentions an
// ADR word and is labelled 1.
func toyInput(n int) *Input {
	rng := rand.New(rand.NewSource(42))
	in := &Input{}
	for i := 0; i < n; i++ {
		var tokens []string
		label := 0
		if i%4 == 0 {
			label = 1
			tokens = append(tokens, "this", "drug", "gave", "me", adrWords[rng.Intn(len(adrWords))])
		}
		for j := 0; j < 4; j++ {
			tokens = append(tokens, otherWords[rng.Intn(len(otherWords))])
		}
		in.Tokens = append(in.Tokens, tokens)
		in.Raw = append(in.Raw, strings.Join(tokens, " "))
		in.POS = append(in.POS, posTag(tokens))
		in.Labels = append(in.Labels, label)
	}
	return in
}

func posTag(tokens []string) string {
	tagged := make([]string, len(tokens))
	for i, t := range tokens {
		tagged[i] = t + "_N"
	}
	return strings.Join(tagged, " ")
}

func toyEmbeddings(dim int) *Embeddings {
	rng := rand.New(rand.NewSource(3))
	emb := &Embeddings{Dim: dim, Vectors: map[string][]float64{}}
	for _, w := range append(append([]string{}, adrWords...), otherWords...) {
		vec := make([]float64, dim)
		for i := range vec {
			vec[i] = rng.NormFloat64() * 0.1
		}
		emb.Vectors[w] = vec
	}
	return emb
}

func TestLSAProviderShape(t *testing.T) {
	in := toyInput(30)
	m, err := (&LSAProvider{K: 5, MinN: 1, MaxN: 3}).Features(in)
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, 30, rows)
	assert.Equal(t, 5, cols)
}

func TestLSAProviderCapsK(t *testing.T) {
	in := toyInput(6)
	m, err := (&LSAProvider{K: 300, MinN: 1, MaxN: 1}).Features(in)
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, 6, rows)
	assert.LessOrEqual(t, cols, 6)
}

func TestLSAProviderInvalid(t *testing.T) {
	_, err := (&LSAProvider{K: 5, MinN: 2, MaxN: 1}).Features(toyInput(4))
	assert.Error(t, err)
}

func TestNgramTokeniser(t *testing.T) {
	tok := ngramTokeniser{minN: 1, maxN: 2}
	assert.Equal(t, []string{"a_dt", "pill_n", "a_dt pill_n"}, tok.Tokenise("A_DT pill_N"))
}

func TestParagraphVectorProvider(t *testing.T) {
	in := toyInput(20)
	p := NewParagraphVectorProvider(8, 3, 5, 7)
	p.MinCount = 1

	first, err := p.Features(in)
	require.NoError(t, err)
	rows, cols := first.Dims()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 8, cols)

	second, err := p.Features(in)
	require.NoError(t, err)
	assert.True(t, mat.Equal(first, second), "same seed must give the same vectors")
}

func TestCNNFeatures(t *testing.T) {
	in := toyInput(24)
	c := &CNN{
		EmbeddingDim: 6,
		VocabSize:    50,
		NumFilters:   4,
		WindowSizes:  []int{2, 3},
		BatchSize:    8,
		Epochs:       2,
		LearningRate: 0.01,
		Seed:         7,
	}

	for _, mode := range []EmbeddingMode{Static, NonStatic} {
		t.Run(mode.String(), func(t *testing.T) {
			first, err := c.Train(in, toyEmbeddings(6), mode)
			require.NoError(t, err)
			rows, cols := first.Dims()
			assert.Equal(t, 24, rows)
			assert.Equal(t, 8, cols)
			assert.GreaterOrEqual(t, mat.Min(first), 0.0)

			second, err := c.Train(in, toyEmbeddings(6), mode)
			require.NoError(t, err)
			assert.True(t, mat.Equal(first, second))
		})
	}
}

func TestCNNEmbeddingMode(t *testing.T) {
	in := toyInput(8)
	c := &CNN{EmbeddingDim: 6, VocabSize: 50, NumFilters: 4, WindowSizes: []int{2},
		BatchSize: 8, Epochs: 1, LearningRate: 0.05, Seed: 3}
	vocab := NewVocabulary(in.Tokens, c.VocabSize, 1)

	changed := func(mode EmbeddingMode) int {
		m := newCNNModel(c, vocab, toyEmbeddings(6), mode)
		before := append([]float64(nil), m.embedding.w...)
		for i, tokens := range in.Tokens {
			m.backward(vocab.Encode(tokens, 2), in.Labels[i], 1)
		}
		m.step(float64(len(in.Tokens)))

		var count int
		for i, w := range m.embedding.w {
			if w != before[i] {
				count++
			}
		}
		return count
	}

	assert.Zero(t, changed(Static), "static embeddings stay frozen")
	assert.Positive(t, changed(NonStatic), "non-static embeddings are updated")

	static, err := c.Train(in, toyEmbeddings(6), Static)
	require.NoError(t, err)
	nonStatic, err := c.Train(in, toyEmbeddings(6), NonStatic)
	require.NoError(t, err)
	assert.False(t, mat.Equal(static, nonStatic))
}

func TestCNNRejectsBadInput(t *testing.T) {
	c := &CNN{EmbeddingDim: 6, VocabSize: 10, NumFilters: 2, WindowSizes: []int{2},
		BatchSize: 4, Epochs: 1, LearningRate: 0.01}

	_, err := c.Train(toyInput(8), toyEmbeddings(5), Static)
	assert.Error(t, err)

	in := toyInput(8)
	in.Labels = in.Labels[:3]
	_, err = c.Train(in, toyEmbeddings(6), Static)
	assert.Error(t, err)
}

func TestCNNProviderMissingFile(t *testing.T) {
	c := &CNN{EmbeddingDim: 6, VocabSize: 10, NumFilters: 2, WindowSizes: []int{2},
		BatchSize: 4, Epochs: 1, LearningRate: 0.01}
	_, err := Compute("CNN-ADR", c.Provider("/nonexistent/we.txt", Static), toyInput(8))
	assert.ErrorIs(t, err, ErrProvider)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "CNN-ADR", perr.Provider)
}

func TestComputeChecksRows(t *testing.T) {
	short := ProviderFunc(func(in *Input) (*mat.Dense, error) {
		return mat.NewDense(in.Len()-1, 2, nil), nil
	})
	_, err := Compute("short", short, toyInput(4))
	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, featmat.ErrShapeMismatch)

	failing := ProviderFunc(func(in *Input) (*mat.Dense, error) {
		return nil, fmt.Errorf("boom")
	})
	_, err = Compute("failing", failing, toyInput(4))
	assert.ErrorIs(t, err, ErrProvider)
}

func TestReadEmbeddings(t *testing.T) {
	path := writeFile(t, "we.txt", "3 2\nheadache 0.5 -1\nnausea 1 2\nrash 0 0\n")
	emb, err := ReadEmbeddings(path, 2)
	require.NoError(t, err)
	assert.Len(t, emb.Vectors, 3)
	assert.Equal(t, []float64{0.5, -1}, emb.Vectors["headache"])

	_, err = ReadEmbeddings(path, 3)
	assert.Error(t, err)
}

func TestVocabulary(t *testing.T) {
	v := NewVocabulary([][]string{{"b", "a", "b"}, {"c", "a", "b"}}, 2, 1)
	assert.Equal(t, []string{PaddingToken, UnknownToken, "b", "a"}, v.Words)
	assert.Equal(t, 1, v.Index("c"))
	assert.Equal(t, []int{2, 3, 1, 0}, v.Encode([]string{"b", "a", "c"}, 4))
}
