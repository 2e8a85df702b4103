package features

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// EmbeddingMode says whether the CNN may update its word
// embeddings while training.
type EmbeddingMode int

const (
	// Static keeps the pretrained embeddings frozen.
	Static EmbeddingMode = iota
	// NonStatic fine-tunes the embeddings with the filters.
	NonStatic
)

func (m EmbeddingMode) String() string {
	if m == NonStatic {
		return "non-static"
	}
	return "static"
}

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8

	// range of the uniform init for words without a
	// pretrained vector
	unknownWordScale = 0.25
)

// A CNN is a single-layer convolutional sentence model:
// NumFilters filters per window size slide over the word
// embeddings of a tweet, each followed by a ReLU and max
// pooling over time, and a logistic unit on top predicts
// the ADR label. After supervised training the pooled
// layer of every tweet is returned as its feature vector.
type CNN struct {
	EmbeddingDim int
	VocabSize    int
	NumFilters   int
	WindowSizes  []int
	BatchSize    int
	Epochs       int
	LearningRate float64
	Seed         int64
}

// OutputSize is the number of feature columns produced.
func (c *CNN) OutputSize() int {
	return c.NumFilters * len(c.WindowSizes)
}

// Provider returns a Provider that loads the embedding
// file and trains a fresh network in the given mode.
func (c *CNN) Provider(embeddingsFile string, mode EmbeddingMode) Provider {
	return ProviderFunc(func(in *Input) (*mat.Dense, error) {
		emb, err := ReadEmbeddings(embeddingsFile, c.EmbeddingDim)
		if err != nil {
			return nil, err
		}
		return c.Train(in, emb, mode)
	})
}

// Train fits a network on the labelled tweets and returns
// their pooled features.
func (c *CNN) Train(in *Input, emb *Embeddings, mode EmbeddingMode) (*mat.Dense, error) {
	if err := c.validate(in, emb); err != nil {
		return nil, err
	}
	log := logrus.WithField("module", "cnn")

	vocab := NewVocabulary(in.Tokens, c.VocabSize, 1)
	minLen := 0
	for _, h := range c.WindowSizes {
		if h > minLen {
			minLen = h
		}
	}
	docs := make([][]int, in.Len())
	for i, tokens := range in.Tokens {
		docs[i] = vocab.Encode(tokens, minLen)
	}

	m := newCNNModel(c, vocab, emb, mode)
	log.Infof("Training %s CNN: vocabulary %d (%d pretrained), %d features",
		mode, vocab.Size(), m.pretrained, c.OutputSize())

	weights := classWeights(in.Labels)
	for epoch := 0; epoch < c.Epochs; epoch++ {
		perm := m.rng.Perm(len(docs))
		var loss float64
		for start := 0; start < len(perm); start += c.BatchSize {
			end := start + c.BatchSize
			if end > len(perm) {
				end = len(perm)
			}
			for _, i := range perm[start:end] {
				loss += m.backward(docs[i], in.Labels[i], weights[in.Labels[i]])
			}
			m.step(float64(end - start))
		}
		log.Infof("Epoch %d/%d: loss %.4f", epoch+1, c.Epochs, loss/float64(len(docs)))
	}

	res := mat.NewDense(len(docs), c.OutputSize(), nil)
	for i, doc := range docs {
		z, _ := m.forward(doc)
		res.SetRow(i, z)
	}
	return res, nil
}

func (c *CNN) validate(in *Input, emb *Embeddings) error {
	if in.Len() == 0 {
		return errors.New("CNN: empty input")
	}
	if len(in.Labels) != in.Len() {
		return fmt.Errorf("CNN: %d labels for %d tweets", len(in.Labels), in.Len())
	}
	for _, l := range in.Labels {
		if l != 0 && l != 1 {
			return fmt.Errorf("CNN: invalid label %d", l)
		}
	}
	if emb.Dim != c.EmbeddingDim {
		return fmt.Errorf("CNN: embeddings have %d dimensions, want %d", emb.Dim, c.EmbeddingDim)
	}
	if c.NumFilters < 1 || len(c.WindowSizes) == 0 || c.BatchSize < 1 || c.Epochs < 1 ||
		c.LearningRate <= 0 {
		return errors.New("CNN: invalid settings")
	}
	for _, h := range c.WindowSizes {
		if h < 1 {
			return fmt.Errorf("CNN: invalid window size %d", h)
		}
	}
	return nil
}

// classWeights returns n / (2 * count) for both classes.
func classWeights(labels []int) [2]float64 {
	var counts [2]int
	for _, l := range labels {
		counts[l]++
	}
	res := [2]float64{1, 1}
	for c, count := range counts {
		if count > 0 {
			res[c] = float64(len(labels)) / float64(2*count)
		}
	}
	return res
}

// adamParam is a flat parameter vector with its gradient
// accumulator and Adam moments.
type adamParam struct {
	w, g, m, v []float64
}

func newAdamParam(n int) *adamParam {
	return &adamParam{
		w: make([]float64, n),
		g: make([]float64, n),
		m: make([]float64, n),
		v: make([]float64, n),
	}
}

func (p *adamParam) update(lr float64, t int, batch float64) {
	c1 := 1 - math.Pow(adamBeta1, float64(t))
	c2 := 1 - math.Pow(adamBeta2, float64(t))
	for i, g := range p.g {
		g /= batch
		p.m[i] = adamBeta1*p.m[i] + (1-adamBeta1)*g
		p.v[i] = adamBeta2*p.v[i] + (1-adamBeta2)*g*g
		p.w[i] -= lr * (p.m[i] / c1) / (math.Sqrt(p.v[i]/c2) + adamEpsilon)
		p.g[i] = 0
	}
}

type cnnModel struct {
	c    *CNN
	dim  int
	mode EmbeddingMode
	rng  *rand.Rand

	embedding *adamParam
	filters   []*adamParam
	biases    []*adamParam
	out       *adamParam

	pretrained int
	t          int
}

func newCNNModel(c *CNN, vocab *Vocabulary, emb *Embeddings, mode EmbeddingMode) *cnnModel {
	m := &cnnModel{
		c:    c,
		dim:  c.EmbeddingDim,
		mode: mode,
		rng:  rand.New(rand.NewSource(c.Seed)),
	}

	m.embedding = newAdamParam(vocab.Size() * m.dim)
	for i, word := range vocab.Words {
		if i == 0 {
			continue
		}
		row := m.embedding.w[i*m.dim : (i+1)*m.dim]
		if vec, ok := emb.Vectors[word]; ok {
			copy(row, vec)
			m.pretrained++
			continue
		}
		for j := range row {
			row[j] = (m.rng.Float64()*2 - 1) * unknownWordScale
		}
	}

	for _, h := range c.WindowSizes {
		fanIn := h * m.dim
		filters := newAdamParam(c.NumFilters * fanIn)
		scale := math.Sqrt(6 / float64(fanIn+c.NumFilters))
		for i := range filters.w {
			filters.w[i] = (m.rng.Float64()*2 - 1) * scale
		}
		m.filters = append(m.filters, filters)
		m.biases = append(m.biases, newAdamParam(c.NumFilters))
	}

	m.out = newAdamParam(c.OutputSize() + 1)
	scale := math.Sqrt(6 / float64(c.OutputSize()+1))
	for i := 0; i < c.OutputSize(); i++ {
		m.out.w[i] = (m.rng.Float64()*2 - 1) * scale
	}
	return m
}

func (m *cnnModel) wordVec(idx int) []float64 {
	return m.embedding.w[idx*m.dim : (idx+1)*m.dim]
}

// forward returns the pooled features of a document and,
// for each feature, the window position that won the max
// pool, or -1 when the ReLU was inactive everywhere.
func (m *cnnModel) forward(doc []int) ([]float64, []int) {
	nf := m.c.NumFilters
	z := make([]float64, m.c.OutputSize())
	argmax := make([]int, m.c.OutputSize())
	for wi, h := range m.c.WindowSizes {
		w := m.filters[wi].w
		b := m.biases[wi].w
		for f := 0; f < nf; f++ {
			best, bestT := 0.0, -1
			for t := 0; t+h <= len(doc); t++ {
				s := b[f]
				for k := 0; k < h; k++ {
					off := (f*h + k) * m.dim
					s += floats.Dot(w[off:off+m.dim], m.wordVec(doc[t+k]))
				}
				if s > best {
					best, bestT = s, t
				}
			}
			z[wi*nf+f] = best
			argmax[wi*nf+f] = bestT
		}
	}
	return z, argmax
}

// backward accumulates the gradient of the weighted
// logistic loss for one document and returns the loss.
func (m *cnnModel) backward(doc []int, label int, weight float64) float64 {
	z, argmax := m.forward(doc)
	n := len(z)
	u := m.out.w
	prob := sigmoid(floats.Dot(u[:n], z) + u[n])
	y := float64(label)
	g := weight * (prob - y)

	floats.AddScaled(m.out.g[:n], g, z)
	m.out.g[n] += g

	nf := m.c.NumFilters
	for j, t := range argmax {
		if t < 0 {
			continue
		}
		dz := g * u[j]
		wi, f := j/nf, j%nf
		h := m.c.WindowSizes[wi]
		m.biases[wi].g[f] += dz
		for k := 0; k < h; k++ {
			idx := doc[t+k]
			off := (f*h + k) * m.dim
			floats.AddScaled(m.filters[wi].g[off:off+m.dim], dz, m.wordVec(idx))
			if m.mode == NonStatic && idx != 0 {
				floats.AddScaled(m.embedding.g[idx*m.dim:(idx+1)*m.dim], dz,
					m.filters[wi].w[off:off+m.dim])
			}
		}
	}

	p := math.Min(math.Max(prob, 1e-12), 1-1e-12)
	return -weight * (y*math.Log(p) + (1-y)*math.Log(1-p))
}

func (m *cnnModel) step(batch float64) {
	m.t++
	lr := m.c.LearningRate
	for wi := range m.filters {
		m.filters[wi].update(lr, m.t, batch)
		m.biases[wi].update(lr, m.t, batch)
	}
	m.out.update(lr, m.t, batch)
	if m.mode == NonStatic {
		m.embedding.update(lr, m.t, batch)
	}
}
