package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"
)

// LSAProvider projects tf-idf weighted n-gram counts of
// the part-of-speech tagged text onto K latent dimensions.
// K is lowered to the rank bound when the corpus is too
// small to support it.
type LSAProvider struct {
	K    int
	MinN int
	MaxN int
}

func (l *LSAProvider) Features(in *Input) (*mat.Dense, error) {
	if len(in.POS) == 0 {
		return nil, errors.New("LSA: empty input")
	}
	if l.K < 1 || l.MinN < 1 || l.MaxN < l.MinN {
		return nil, fmt.Errorf("LSA: invalid settings k=%d ngrams=(%d,%d)", l.K, l.MinN, l.MaxN)
	}

	vectoriser := nlp.NewCountVectoriser()
	vectoriser.Tokeniser = ngramTokeniser{minN: l.MinN, maxN: l.MaxN}
	counts, err := vectoriser.FitTransform(in.POS...)
	if err != nil {
		return nil, err
	}
	weighted, err := nlp.NewTfidfTransformer().FitTransform(counts)
	if err != nil {
		return nil, err
	}

	terms, docs := weighted.Dims()
	k := l.K
	if k > terms {
		k = terms
	}
	if k > docs {
		k = docs
	}
	if k == 0 {
		return nil, errors.New("LSA: empty vocabulary")
	}
	reduced, err := nlp.NewTruncatedSVD(k).FitTransform(weighted)
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(reduced.T()), nil
}

// ngramTokeniser emits every whitespace-separated n-gram
// with MinN <= n <= MaxN.
type ngramTokeniser struct {
	minN, maxN int
}

func (t ngramTokeniser) ForEachIn(input string, onToken func(token string)) {
	words := strings.Fields(strings.ToLower(input))
	for n := t.minN; n <= t.maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			onToken(strings.Join(words[i:i+n], " "))
		}
	}
}

func (t ngramTokeniser) Tokenise(input string) []string {
	var res []string
	t.ForEachIn(input, func(token string) {
		res = append(res, token)
	})
	return res
}
