// Package features turns a tweet corpus into feature
// matrices, one row per tweet.
package features

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/5l1v3r1/adr-ranker/featmat"
)

// ErrProvider matches every error returned by Compute.
var ErrProvider = errors.New("feature provider failed")

// Input holds the aligned views of a corpus that providers
// draw on. Labels is only read by supervised providers.
type Input struct {
	Raw    []string
	Tokens [][]string
	POS    []string
	Labels []int
}

// Len returns the number of examples.
func (in *Input) Len() int {
	return len(in.Tokens)
}

// A Provider builds a feature matrix with one row per
// example of the input.
type Provider interface {
	Features(in *Input) (*mat.Dense, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(in *Input) (*mat.Dense, error)

func (f ProviderFunc) Features(in *Input) (*mat.Dense, error) {
	return f(in)
}

// A ProviderError records which provider failed.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrProvider, e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// Compute runs p and checks that it produced one row per
// example. Failures come back as *ProviderError.
func Compute(name string, p Provider, in *Input) (*mat.Dense, error) {
	log := logrus.WithField("module", "features")
	log.Infof("Computing %s features...", name)
	m, err := p.Features(in)
	if err != nil {
		return nil, &ProviderError{Provider: name, Err: err}
	}
	rows, cols := m.Dims()
	if rows != in.Len() {
		return nil, &ProviderError{
			Provider: name,
			Err: fmt.Errorf("got %d rows for %d examples: %w", rows, in.Len(),
				featmat.ErrShapeMismatch),
		}
	}
	log.Infof("Got %s features (%d x %d)", name, rows, cols)
	return m, nil
}
