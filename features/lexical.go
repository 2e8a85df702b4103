package features

import (
	"errors"
	"strings"

	"github.com/jonreiter/govader"
	"gonum.org/v1/gonum/mat"
)

// NegationCues are the tokens counted by NegationProvider.
var NegationCues = WordList{
	"not": true, "no": true, "never": true, "n't": true, "nothing": true,
	"nobody": true, "none": true, "nowhere": true, "neither": true, "nor": true,
	"cannot": true, "without": true, "dont": true, "don't": true, "didnt": true,
	"didn't": true, "doesnt": true, "doesn't": true, "cant": true, "can't": true,
	"wont": true, "won't": true, "isnt": true, "isn't": true, "wasnt": true,
	"wasn't": true, "aint": true, "ain't": true,
}

// NegationProvider emits [has_negation, cue_count] per
// tweet.
type NegationProvider struct{}

func (NegationProvider) Features(in *Input) (*mat.Dense, error) {
	if in.Len() == 0 {
		return nil, errors.New("negation: empty input")
	}
	res := mat.NewDense(in.Len(), 2, nil)
	for i, tokens := range in.Tokens {
		var count float64
		for _, t := range tokens {
			if NegationCues[normalizeToken(t)] {
				count++
			}
		}
		if count > 0 {
			res.Set(i, 0, 1)
		}
		res.Set(i, 1, count)
	}
	return res, nil
}

// SentimentProvider scores tweets against an opinion
// lexicon. Each row is [positive_count, negative_count,
// (positive-negative)/tokens], followed by the VADER
// compound score of the raw text when Vader is set.
type SentimentProvider struct {
	Positive WordList
	Negative WordList
	Vader    bool
}

func (s *SentimentProvider) Features(in *Input) (*mat.Dense, error) {
	if in.Len() == 0 {
		return nil, errors.New("sentiment: empty input")
	}
	if len(s.Positive) == 0 || len(s.Negative) == 0 {
		return nil, errors.New("sentiment: empty word list")
	}
	cols := 3
	var analyzer *govader.SentimentIntensityAnalyzer
	if s.Vader {
		if len(in.Raw) != in.Len() {
			return nil, errors.New("sentiment: VADER needs raw text for every tweet")
		}
		analyzer = govader.NewSentimentIntensityAnalyzer()
		cols++
	}

	res := mat.NewDense(in.Len(), cols, nil)
	for i, tokens := range in.Tokens {
		var pos, neg float64
		for _, t := range tokens {
			t = normalizeToken(t)
			if s.Positive[t] {
				pos++
			}
			if s.Negative[t] {
				neg++
			}
		}
		res.Set(i, 0, pos)
		res.Set(i, 1, neg)
		if len(tokens) > 0 {
			res.Set(i, 2, (pos-neg)/float64(len(tokens)))
		}
		if analyzer != nil {
			res.Set(i, 3, analyzer.PolarityScores(in.Raw[i]).Compound)
		}
	}
	return res, nil
}

// ADRLexiconProvider emits [has_match, match_count,
// longest_match] per tweet, matching lexicon terms against
// the words of the raw text.
type ADRLexiconProvider struct {
	Lexicon *ADRLexicon
}

func (a *ADRLexiconProvider) Features(in *Input) (*mat.Dense, error) {
	if len(in.Raw) == 0 {
		return nil, errors.New("ADR lexicon: empty input")
	}
	if a.Lexicon == nil || len(a.Lexicon.Terms) == 0 {
		return nil, errors.New("ADR lexicon: no terms")
	}
	res := mat.NewDense(len(in.Raw), 3, nil)
	for i, raw := range in.Raw {
		matches := a.Lexicon.Matches(letterWords(strings.TrimSpace(raw)))
		if len(matches) == 0 {
			continue
		}
		longest := 0
		for _, m := range matches {
			if m > longest {
				longest = m
			}
		}
		res.Set(i, 0, 1)
		res.Set(i, 1, float64(len(matches)))
		res.Set(i, 2, float64(longest))
	}
	return res, nil
}
