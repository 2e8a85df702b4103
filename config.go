package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/5l1v3r1/adr-ranker/features"
)

// Environment variables that override the config file.
const (
	TweetsFileEnvVar    = "ADR_TWEETS"
	POSFileEnvVar       = "ADR_POS"
	ReferenceWEEnvVar   = "ADR_REFERENCE_WE"
	SSWEEnvVar          = "ADR_SSWE_WE"
	ADRLexiconEnvVar    = "ADR_LEXICON"
	PositiveWordsEnvVar = "ADR_POSITIVE_WORDS"
	NegativeWordsEnvVar = "ADR_NEGATIVE_WORDS"
	SeedEnvVar          = "ADR_SEED"
	ClassifierEnvVar    = "ADR_CLASSIFIER"
	FoldsEnvVar         = "ADR_FOLDS"
	CNNEpochsEnvVar     = "ADR_CNN_EPOCHS"
)

type EmbeddingConfig struct {
	Dim       int `yaml:"dim"`
	VocabSize int `yaml:"vocab_size"`
}

type CNNConfig struct {
	NumFilters   int             `yaml:"num_filters"`
	WindowSizes  []int           `yaml:"window_sizes"`
	BatchSize    int             `yaml:"batch_size"`
	Epochs       int             `yaml:"epochs"`
	LearningRate float64         `yaml:"learning_rate"`
	ADR          EmbeddingConfig `yaml:"adr"`
	SSWE         EmbeddingConfig `yaml:"sswe"`
}

// Config holds every setting of an experiment run.
type Config struct {
	TweetsFile          string `yaml:"tweets"`
	POSFile             string `yaml:"pos"`
	ReferenceEmbeddings string `yaml:"reference_embeddings"`
	SSWEEmbeddings      string `yaml:"sswe_embeddings"`
	ADRLexicon          string `yaml:"adr_lexicon"`
	PositiveWords       string `yaml:"positive_words"`
	NegativeWords       string `yaml:"negative_words"`

	Seed       int64     `yaml:"seed"`
	Classifier string    `yaml:"classifier"`
	Folds      int       `yaml:"folds"`
	CNN        CNNConfig `yaml:"cnn"`

	Experiments        []int  `yaml:"experiments"`
	ResultsFile        string `yaml:"results"`
	Vader              bool   `yaml:"vader"`
	FixNegativeLexicon bool   `yaml:"fix_negative_lexicon"`
}

func DefaultConfig() *Config {
	return &Config{
		TweetsFile:          "../data/twitter_adr.tsv",
		POSFile:             "../data/twitter_adr_pos.txt",
		ReferenceEmbeddings: "../data/we/reference_paper_we.txt",
		SSWEEmbeddings:      "../data/we/sswe-u_tang.txt",
		ADRLexicon:          "../data/taskSpecific/ADR_lexicon.tsv",
		PositiveWords:       "../data/taskSpecific/bingliuposs.txt",
		NegativeWords:       "../data/taskSpecific/bingliunegs.txt",

		Seed:       7,
		Classifier: "linearsvm",
		Folds:      10,
		CNN: CNNConfig{
			NumFilters:   32,
			WindowSizes:  []int{2, 3},
			BatchSize:    64,
			Epochs:       3,
			LearningRate: 0.001,
			ADR:          EmbeddingConfig{Dim: 150, VocabSize: 5000},
			SSWE:         EmbeddingConfig{Dim: 50, VocabSize: 7000},
		},
		Experiments: []int{1, 2, 3},
	}
}

// LoadConfig starts from the defaults, applies the YAML
// file at path (if path is not empty) and then the
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	for envVar, field := range map[string]*string{
		TweetsFileEnvVar:    &c.TweetsFile,
		POSFileEnvVar:       &c.POSFile,
		ReferenceWEEnvVar:   &c.ReferenceEmbeddings,
		SSWEEnvVar:          &c.SSWEEmbeddings,
		ADRLexiconEnvVar:    &c.ADRLexicon,
		PositiveWordsEnvVar: &c.PositiveWords,
		NegativeWordsEnvVar: &c.NegativeWords,
		ClassifierEnvVar:    &c.Classifier,
	} {
		if val := os.Getenv(envVar); val != "" {
			*field = val
		}
	}

	if val := os.Getenv(SeedEnvVar); val != "" {
		seed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s environment variable: %s", SeedEnvVar, val)
		}
		c.Seed = seed
	}
	for envVar, field := range map[string]*int{
		FoldsEnvVar:     &c.Folds,
		CNNEpochsEnvVar: &c.CNN.Epochs,
	} {
		if val := os.Getenv(envVar); val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid %s environment variable: %s", envVar, val)
			}
			*field = n
		}
	}
	return nil
}

// Validate checks the settings that do not depend on the
// input files.
func (c *Config) Validate() error {
	if c.Folds < 2 {
		return fmt.Errorf("need at least 2 folds, got %d", c.Folds)
	}
	if len(c.Experiments) == 0 {
		return fmt.Errorf("no experiments selected")
	}
	for _, e := range c.Experiments {
		if e < 1 || e > 3 {
			return fmt.Errorf("unknown experiment: %d", e)
		}
	}
	cnn := c.CNN
	if cnn.NumFilters < 1 || len(cnn.WindowSizes) == 0 || cnn.BatchSize < 1 || cnn.Epochs < 1 ||
		cnn.LearningRate <= 0 {
		return fmt.Errorf("invalid CNN settings: %+v", cnn)
	}
	return nil
}

// RunsExperiment reports whether experiment n was
// selected. Experiment 2 needs the matrices of experiment
// 1, so selecting 2 selects 1 as well.
func (c *Config) RunsExperiment(n int) bool {
	for _, e := range c.Experiments {
		if e == n || (n == 1 && e == 2) {
			return true
		}
	}
	return false
}

// NewCNN builds the network used with one set of
// embeddings.
func (c *Config) NewCNN(emb EmbeddingConfig) *features.CNN {
	return &features.CNN{
		EmbeddingDim: emb.Dim,
		VocabSize:    emb.VocabSize,
		NumFilters:   c.CNN.NumFilters,
		WindowSizes:  append([]int{}, c.CNN.WindowSizes...),
		BatchSize:    c.CNN.BatchSize,
		Epochs:       c.CNN.Epochs,
		LearningRate: c.CNN.LearningRate,
		Seed:         c.Seed,
	}
}

// InputFiles lists the files a run reads, by role.
func (c *Config) InputFiles() [][2]string {
	return [][2]string{
		{"tweets", c.TweetsFile},
		{"POS tags", c.POSFile},
		{"reference embeddings", c.ReferenceEmbeddings},
		{"SSWE embeddings", c.SSWEEmbeddings},
		{"ADR lexicon", c.ADRLexicon},
		{"positive words", c.PositiveWords},
		{"negative words", c.NegativeWords},
	}
}

// parseExperiments reads a comma-separated list such as
// "1,3".
func parseExperiments(s string) ([]int, error) {
	var res []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid experiment: %s", field)
		}
		res = append(res, n)
	}
	return res, nil
}
