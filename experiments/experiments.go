// Package experiments assembles the named feature sets
// compared by each experiment.
package experiments

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/5l1v3r1/adr-ranker/featmat"
	"github.com/5l1v3r1/adr-ranker/features"
)

// Names of the feature matrices.
const (
	LSA       = "LSA"
	Doc2Vec   = "Doc2Vec"
	CNNADR    = "CNN-ADR"
	CNNSSWE   = "CNN-SSWE"
	CNNADRT   = "CNN-ADR-T"
	CNNSSWET  = "CNN-SSWE-T"
	ADRLex    = "ADR-LEX"
	Sent      = "SENT"
	TotExtra  = "TOT-EXTRA"
	extraJoin = "-"

	Negation  = "negation"
	Sentiment = "sentiment"
)

// Bases are the representations of experiment 1 that
// experiment 2 extends with domain knowledge.
var Bases = []string{LSA, CNNADR}

// Inputs are the resources shared by all experiments.
type Inputs struct {
	Input *features.Input

	// CNNs configured for the reference and the
	// sentiment-specific embeddings.
	CNNADR  *features.CNN
	CNNSSWE *features.CNN

	ReferenceEmbeddings string
	SSWEEmbeddings      string

	Positive   features.WordList
	Negative   features.WordList
	ADRLexicon *features.ADRLexicon

	// FixNegativeLexicon scores negative sentiment against
	// Negative instead of the positive list.
	FixNegativeLexicon bool
	Vader              bool

	Seed int64

	// Providers replaces the default provider of the named
	// matrix.
	Providers map[string]features.Provider
}

type namedProvider struct {
	name     string
	provider features.Provider
}

func (in *Inputs) log() *logrus.Entry {
	return logrus.WithField("module", "experiments")
}

func (in *Inputs) compute(set *featmat.Set, providers []namedProvider) error {
	for _, p := range providers {
		if override, ok := in.Providers[p.name]; ok {
			p.provider = override
		}
		m, err := features.Compute(p.name, p.provider, in.Input)
		if err != nil {
			return err
		}
		if err := set.Add(p.name, m); err != nil {
			return err
		}
	}
	return nil
}

// Representations builds experiment 1: LSA over the
// part-of-speech text, paragraph vectors, and the two
// CNNs with frozen embeddings.
func Representations(in *Inputs) (*featmat.Set, error) {
	if err := in.checkCNNs(); err != nil {
		return nil, err
	}
	in.log().Info("Building representation features...")
	set := featmat.NewSet()
	err := in.compute(set, []namedProvider{
		{LSA, &features.LSAProvider{K: 300, MinN: 1, MaxN: 3}},
		{Doc2Vec, features.NewParagraphVectorProvider(300, 3, 50, in.Seed)},
		{CNNADR, in.CNNADR.Provider(in.ReferenceEmbeddings, features.Static)},
		{CNNSSWE, in.CNNSSWE.Provider(in.SSWEEmbeddings, features.Static)},
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// DomainKnowledge builds experiment 2. It takes the LSA and
// CNN-ADR matrices out of exp1 and joins each with the ADR
// lexicon features, the sentiment features, and both.
func DomainKnowledge(exp1 *featmat.Set, in *Inputs) (*featmat.Set, error) {
	if in.Input == nil {
		return nil, errors.New("no input corpus")
	}
	if in.ADRLexicon == nil {
		return nil, errors.New("domain knowledge: no ADR lexicon")
	}
	bases, err := exp1.Take(Bases...)
	if err != nil {
		return nil, err
	}

	negative := in.Positive
	if in.FixNegativeLexicon {
		negative = in.Negative
	} else {
		in.log().Warn("Scoring negative sentiment against the positive lexicon")
	}

	in.log().Info("Building domain knowledge features...")
	neg, err := in.lexical(Negation, features.NegationProvider{})
	if err != nil {
		return nil, err
	}
	sentiment := &features.SentimentProvider{Positive: in.Positive, Negative: negative, Vader: in.Vader}
	sent, err := in.lexical(Sentiment, sentiment)
	if err != nil {
		return nil, err
	}
	adr, err := in.lexical(ADRLex, &features.ADRLexiconProvider{Lexicon: in.ADRLexicon})
	if err != nil {
		return nil, err
	}

	sentNeg, err := featmat.Concatenate(sent, neg)
	if err != nil {
		return nil, err
	}
	total, err := featmat.Concatenate(sentNeg, adr)
	if err != nil {
		return nil, err
	}
	extras := []struct {
		name string
		m    mat.Matrix
	}{
		{ADRLex, adr},
		{Sent, sentNeg},
		{TotExtra, total},
	}

	set := featmat.NewSet()
	for _, base := range Bases {
		baseMatrix, _ := bases.Get(base)
		for _, extra := range extras {
			joined, err := featmat.Concatenate(baseMatrix, extra.m)
			if err != nil {
				return nil, fmt.Errorf("%s with %s: %w", base, extra.name, err)
			}
			if err := set.Add(base+extraJoin+extra.name, joined); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// FineTuned builds experiment 3: both CNNs again, this
// time updating their embeddings while training.
func FineTuned(in *Inputs) (*featmat.Set, error) {
	if err := in.checkCNNs(); err != nil {
		return nil, err
	}
	in.log().Info("Building fine-tuned CNN features...")
	set := featmat.NewSet()
	err := in.compute(set, []namedProvider{
		{CNNADRT, in.CNNADR.Provider(in.ReferenceEmbeddings, features.NonStatic)},
		{CNNSSWET, in.CNNSSWE.Provider(in.SSWEEmbeddings, features.NonStatic)},
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (in *Inputs) checkCNNs() error {
	if in.Input == nil {
		return errors.New("no input corpus")
	}
	if in.CNNADR == nil || in.CNNSSWE == nil {
		return errors.New("CNN providers not configured")
	}
	return nil
}

func (in *Inputs) lexical(name string, p features.Provider) (*mat.Dense, error) {
	if override, ok := in.Providers[name]; ok {
		p = override
	}
	return features.Compute(name, p, in.Input)
}
