package features

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const unigramPower = 0.75

// ParagraphVectorProvider learns one vector per tweet with
// the distributed-memory paragraph vector model: the mean
// of the tweet vector and the surrounding word vectors
// predicts each word, trained with negative sampling.
// The learned tweet vectors are the features.
type ParagraphVectorProvider struct {
	Size     int
	Window   int
	Negative int
	Epochs   int
	MinCount int

	// Alpha decays linearly to MinAlpha over training.
	Alpha    float64
	MinAlpha float64

	Seed int64
}

// NewParagraphVectorProvider fills in the usual defaults
// for everything but the model shape.
func NewParagraphVectorProvider(size, window, negative int, seed int64) *ParagraphVectorProvider {
	return &ParagraphVectorProvider{
		Size:     size,
		Window:   window,
		Negative: negative,
		Epochs:   5,
		MinCount: 5,
		Alpha:    0.025,
		MinAlpha: 0.0001,
		Seed:     seed,
	}
}

type pvModel struct {
	p   *ParagraphVectorProvider
	rng *rand.Rand

	docVecs  [][]float64
	wordVecs [][]float64
	outVecs  [][]float64

	// cumulative unigram^0.75 weights, for negative draws
	noise []float64

	hidden []float64
	grad   []float64
}

func (p *ParagraphVectorProvider) Features(in *Input) (*mat.Dense, error) {
	if in.Len() == 0 {
		return nil, errors.New("paragraph vectors: empty input")
	}
	if p.Size < 1 || p.Window < 1 || p.Negative < 1 || p.Epochs < 1 {
		return nil, errors.New("paragraph vectors: invalid settings")
	}

	vocab := NewVocabulary(in.Tokens, 0, p.MinCount)
	docs := make([][]int, in.Len())
	for i, tokens := range in.Tokens {
		for _, t := range tokens {
			if idx, ok := vocab.Lookup(t); ok {
				docs[i] = append(docs[i], idx)
			}
		}
	}
	if vocab.Size() <= 2 {
		logrus.WithField("module", "features").Warn("Paragraph vectors: no word reaches the minimum count")
	}

	m := newPVModel(p, vocab, docs)
	totalWords := 0
	for _, d := range docs {
		totalWords += len(d)
	}
	total := float64(p.Epochs * totalWords)
	var seen float64
	for epoch := 0; epoch < p.Epochs; epoch++ {
		for _, d := range m.rng.Perm(len(docs)) {
			for pos := range docs[d] {
				alpha := p.Alpha - (p.Alpha-p.MinAlpha)*seen/math.Max(total, 1)
				m.trainWord(d, docs[d], pos, alpha)
				seen++
			}
		}
	}

	res := mat.NewDense(len(docs), p.Size, nil)
	for i, v := range m.docVecs {
		res.SetRow(i, v)
	}
	return res, nil
}

func newPVModel(p *ParagraphVectorProvider, vocab *Vocabulary, docs [][]int) *pvModel {
	m := &pvModel{
		p:      p,
		rng:    rand.New(rand.NewSource(p.Seed)),
		hidden: make([]float64, p.Size),
		grad:   make([]float64, p.Size),
	}
	m.docVecs = m.randomVectors(len(docs))
	m.wordVecs = m.randomVectors(vocab.Size())
	m.outVecs = make([][]float64, vocab.Size())
	for i := range m.outVecs {
		m.outVecs[i] = make([]float64, p.Size)
	}

	freqs := make([]float64, vocab.Size())
	for _, d := range docs {
		for _, w := range d {
			freqs[w]++
		}
	}
	m.noise = make([]float64, vocab.Size())
	var sum float64
	for i, f := range freqs {
		sum += math.Pow(f, unigramPower)
		m.noise[i] = sum
	}
	return m
}

func (m *pvModel) randomVectors(n int) [][]float64 {
	res := make([][]float64, n)
	for i := range res {
		res[i] = make([]float64, m.p.Size)
		for j := range res[i] {
			res[i][j] = (m.rng.Float64() - 0.5) / float64(m.p.Size)
		}
	}
	return res
}

func (m *pvModel) drawNoise() int {
	total := m.noise[len(m.noise)-1]
	return sort.SearchFloat64s(m.noise, m.rng.Float64()*total)
}

// trainWord makes one update that predicts doc[pos] from
// the tweet vector and its context window.
func (m *pvModel) trainWord(d int, doc []int, pos int, alpha float64) {
	start := pos - m.p.Window
	if start < 0 {
		start = 0
	}
	end := pos + m.p.Window + 1
	if end > len(doc) {
		end = len(doc)
	}

	copy(m.hidden, m.docVecs[d])
	count := 1.0
	for i := start; i < end; i++ {
		if i != pos {
			floats.Add(m.hidden, m.wordVecs[doc[i]])
			count++
		}
	}
	floats.Scale(1/count, m.hidden)

	for i := range m.grad {
		m.grad[i] = 0
	}
	target := doc[pos]
	m.updateOutput(target, 1, alpha)
	for n := 0; n < m.p.Negative; n++ {
		if sample := m.drawNoise(); sample != target {
			m.updateOutput(sample, 0, alpha)
		}
	}

	floats.Scale(1/count, m.grad)
	floats.Add(m.docVecs[d], m.grad)
	for i := start; i < end; i++ {
		if i != pos {
			floats.Add(m.wordVecs[doc[i]], m.grad)
		}
	}
}

func (m *pvModel) updateOutput(word int, label, alpha float64) {
	out := m.outVecs[word]
	g := (label - sigmoid(floats.Dot(m.hidden, out))) * alpha
	floats.AddScaled(m.grad, g, out)
	floats.AddScaled(out, g, m.hidden)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
