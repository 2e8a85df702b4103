package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, int64(7), c.Seed)
	assert.Equal(t, "linearsvm", c.Classifier)
	assert.Equal(t, []int{2, 3}, c.CNN.WindowSizes)
	assert.Equal(t, EmbeddingConfig{Dim: 150, VocabSize: 5000}, c.CNN.ADR)
	assert.Equal(t, EmbeddingConfig{Dim: 50, VocabSize: 7000}, c.CNN.SSWE)

	cnn := c.NewCNN(c.CNN.SSWE)
	assert.Equal(t, 50, cnn.EmbeddingDim)
	assert.Equal(t, 32*2, cnn.OutputSize())
}

func TestLoadConfigLayers(t *testing.T) {
	path := writeFile(t, t.TempDir(), "adr.yaml", `
tweets: corpus.tsv
seed: 11
experiments: [3]
cnn:
  epochs: 1
  adr:
    dim: 10
`)
	t.Setenv(SeedEnvVar, "13")
	t.Setenv(ClassifierEnvVar, "neuralnet")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "corpus.tsv", c.TweetsFile)
	assert.Equal(t, int64(13), c.Seed, "environment beats the file")
	assert.Equal(t, "neuralnet", c.Classifier)
	assert.Equal(t, []int{3}, c.Experiments)
	assert.Equal(t, 1, c.CNN.Epochs)
	assert.Equal(t, 10, c.CNN.ADR.Dim)
	assert.Equal(t, 5000, c.CNN.ADR.VocabSize, "unset keys keep their defaults")
	assert.Equal(t, 32, c.CNN.NumFilters)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "bad.yaml", "seed: [not, a, number]\n")
	_, err = LoadConfig(path)
	assert.Error(t, err)

	t.Setenv(FoldsEnvVar, "ten")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"one fold", func(c *Config) { c.Folds = 1 }},
		{"no experiments", func(c *Config) { c.Experiments = nil }},
		{"unknown experiment", func(c *Config) { c.Experiments = []int{4} }},
		{"no windows", func(c *Config) { c.CNN.WindowSizes = nil }},
		{"zero learning rate", func(c *Config) { c.CNN.LearningRate = 0 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := DefaultConfig()
			test.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestRunsExperiment(t *testing.T) {
	c := DefaultConfig()
	c.Experiments = []int{2}
	assert.True(t, c.RunsExperiment(1), "experiment 2 needs experiment 1")
	assert.True(t, c.RunsExperiment(2))
	assert.False(t, c.RunsExperiment(3))

	c.Experiments = []int{3}
	assert.False(t, c.RunsExperiment(1))
}

func TestParseExperiments(t *testing.T) {
	res, err := parseExperiments("1, 3,")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, res)

	_, err = parseExperiments("1,two")
	assert.Error(t, err)
}
