package adrclass

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
)

var errNoResults = errors.New("no results")

type resultsFile struct {
	Seed        int64      `json:"seed"`
	Classifier  string     `json:"classifier"`
	Folds       int        `json:"folds"`
	Experiments []*Results `json:"experiments"`
}

// Serialize encodes the results of a run together with the
// settings needed to reproduce it.
func Serialize(e *Evaluator, results []*Results) ([]byte, error) {
	if len(results) == 0 {
		return nil, errNoResults
	}
	return json.MarshalIndent(&resultsFile{
		Seed:        e.Seed,
		Classifier:  e.ModelName,
		Folds:       e.folds(),
		Experiments: results,
	}, "", "  ")
}

// Deserialize decodes data written by Serialize and checks
// that every score has one value per fold.
func Deserialize(d []byte) ([]*Results, int64, error) {
	var f resultsFile
	if err := json.Unmarshal(d, &f); err != nil {
		return nil, 0, err
	}
	if len(f.Experiments) == 0 {
		return nil, 0, errNoResults
	}
	for _, r := range f.Experiments {
		for _, s := range r.Scores {
			if len(s.Precision) != f.Folds || len(s.Recall) != f.Folds || len(s.F1) != f.Folds {
				return nil, 0, fmt.Errorf("%s/%s: expected %d folds", r.Experiment, s.Name, f.Folds)
			}
		}
	}
	return f.Experiments, f.Seed, nil
}

func WriteResults(path string, e *Evaluator, results []*Results) error {
	data, err := Serialize(e, results)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

func ReadResults(path string) ([]*Results, int64, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return Deserialize(data)
}
