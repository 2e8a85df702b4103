package features

import "sort"

const (
	PaddingToken = "<pad>"
	UnknownToken = "<unk>"
)

// A Vocabulary maps tokens to dense indices. Index 0 is
// the padding token and index 1 the unknown token.
type Vocabulary struct {
	Words []string
	index map[string]int
}

// NewVocabulary keeps the maxSize most frequent tokens
// that occur at least minCount times. Ties are broken
// alphabetically so the result does not depend on map
// order. A maxSize of 0 means no cap.
func NewVocabulary(docs [][]string, maxSize, minCount int) *Vocabulary {
	counts := countTokens(docs)
	words := make([]string, 0, len(counts))
	for word, count := range counts {
		if count >= minCount {
			words = append(words, word)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		ci, cj := counts[words[i]], counts[words[j]]
		if ci != cj {
			return ci > cj
		}
		return words[i] < words[j]
	})
	if maxSize > 0 && len(words) > maxSize {
		words = words[:maxSize]
	}

	v := &Vocabulary{
		Words: append([]string{PaddingToken, UnknownToken}, words...),
		index: map[string]int{},
	}
	for i, w := range v.Words {
		v.index[w] = i
	}
	return v
}

// Size returns the number of indices, including padding
// and unknown.
func (v *Vocabulary) Size() int {
	return len(v.Words)
}

// Index returns the index of a token, or the unknown index.
func (v *Vocabulary) Index(token string) int {
	if i, ok := v.index[token]; ok {
		return i
	}
	return 1
}

// Lookup is like Index but reports whether the token is
// in the vocabulary.
func (v *Vocabulary) Lookup(token string) (int, bool) {
	i, ok := v.index[token]
	return i, ok
}

// Encode maps a document to indices, padded with zeros
// to at least minLen entries.
func (v *Vocabulary) Encode(doc []string, minLen int) []int {
	n := len(doc)
	if n < minLen {
		n = minLen
	}
	res := make([]int, n)
	for i, t := range doc {
		res[i] = v.Index(t)
	}
	return res
}
