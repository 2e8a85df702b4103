package main

import (
	"errors"
	"fmt"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/sirupsen/logrus"

	"github.com/5l1v3r1/adr-ranker/adrclass"
	"github.com/5l1v3r1/adr-ranker/corpus"
	"github.com/5l1v3r1/adr-ranker/experiments"
	"github.com/5l1v3r1/adr-ranker/featmat"
	"github.com/5l1v3r1/adr-ranker/features"
)

var runFlags struct {
	config      string
	results     string
	experiments string
	classifier  string
	seed        int64
	vader       bool
	fixNegative bool
}

func RunCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runExperiments,
		UsageLine: "run [options]",
		Short:     "run the ADR detection experiments",
		Long: `
run cross-validates a classifier on every feature set of
the selected experiments and logs the scores.

	1  LSA, Doc2Vec, CNN-ADR and CNN-SSWE
	2  LSA and CNN-ADR joined with lexicon and sentiment features
	3  CNN-ADR-T and CNN-SSWE-T with fine-tuned embeddings

	$ adr-ranker run -config adr.yaml -results results.json
`,
		Flag: *flag.NewFlagSet("run", flag.ExitOnError),
	}
	addConfigFlag(cmd, &runFlags.config)
	cmd.Flag.StringVar(&runFlags.results, "results", "", "write the scores of every experiment to this JSON file")
	cmd.Flag.StringVar(&runFlags.experiments, "experiments", "1,2,3", "comma-separated experiments to run")
	cmd.Flag.StringVar(&runFlags.classifier, "classifier", "", "classifier name (linearsvm, neuralnet)")
	cmd.Flag.Int64Var(&runFlags.seed, "seed", 0, "random seed")
	cmd.Flag.BoolVar(&runFlags.vader, "vader", false, "add a VADER compound score to the sentiment features")
	cmd.Flag.BoolVar(&runFlags.fixNegative, "fix-negative-lexicon", false,
		"score negative sentiment against the negative word list")
	return cmd
}

func runExperiments(cmd *commander.Command, args []string) error {
	cfg, err := LoadConfig(runFlags.config)
	if err != nil {
		return err
	}
	set := flagsSet(cmd)
	if set["results"] {
		cfg.ResultsFile = runFlags.results
	}
	if set["experiments"] {
		if cfg.Experiments, err = parseExperiments(runFlags.experiments); err != nil {
			return err
		}
	}
	if set["classifier"] {
		cfg.Classifier = runFlags.classifier
	}
	if set["seed"] {
		cfg.Seed = runFlags.seed
	}
	if set["vader"] {
		cfg.Vader = runFlags.vader
	}
	if set["fix-negative-lexicon"] {
		cfg.FixNegativeLexicon = runFlags.fixNegative
	}
	return Run(cfg)
}

// Run executes the selected experiments in order.
func Run(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logrus.WithField("module", "main")

	evaluator, err := adrclass.NewEvaluator(cfg.Classifier, cfg.Seed)
	if err != nil {
		return err
	}
	evaluator.Folds = cfg.Folds

	log.Println("Loading corpus...")
	c, err := corpus.Load(cfg.TweetsFile, cfg.POSFile)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d tweets, %d mention an ADR", c.Len(), c.Positives())

	log.Println("Loading lexicons...")
	inputs, err := loadInputs(cfg, c)
	if err != nil {
		return err
	}

	var results []*adrclass.Results
	evaluate := func(name string, set *featmat.Set) error {
		res, err := evaluator.Evaluate(name, inputs.Input.Labels, set)
		if res != nil && len(res.Scores) > 0 {
			results = append(results, res)
		}
		return err
	}

	err = runSequence(cfg, inputs, evaluate)
	if cfg.ResultsFile != "" && len(results) > 0 {
		log.Printf("Saving results to %s...", cfg.ResultsFile)
		if saveErr := adrclass.WriteResults(cfg.ResultsFile, evaluator, results); saveErr != nil {
			err = errors.Join(err, saveErr)
		}
	}
	return err
}

type evaluateFunc func(experiment string, set *featmat.Set) error

func runSequence(cfg *Config, inputs *experiments.Inputs, evaluate evaluateFunc) error {
	log := logrus.WithField("module", "main")

	var exp1 *featmat.Set
	if cfg.RunsExperiment(1) {
		log.Println("Experiment 1: representations")
		var err error
		exp1, err = experiments.Representations(inputs)
		if err != nil {
			return fmt.Errorf("experiment 1: %w", err)
		}
		if err := evaluate("Experiment 1", exp1); err != nil {
			return fmt.Errorf("experiment 1: %w", err)
		}
	}

	if cfg.RunsExperiment(2) {
		log.Println("Experiment 2: domain knowledge")
		exp2, err := experiments.DomainKnowledge(exp1, inputs)
		if err != nil {
			return fmt.Errorf("experiment 2: %w", err)
		}
		if err := evaluate("Experiment 2", exp2); err != nil {
			return fmt.Errorf("experiment 2: %w", err)
		}
	}

	if cfg.RunsExperiment(3) {
		log.Println("Experiment 3: fine-tuned embeddings")
		exp3, err := experiments.FineTuned(inputs)
		if err != nil {
			return fmt.Errorf("experiment 3: %w", err)
		}
		if err := evaluate("Experiment 3", exp3); err != nil {
			return fmt.Errorf("experiment 3: %w", err)
		}
	}
	return nil
}

func loadInputs(cfg *Config, c *corpus.Corpus) (*experiments.Inputs, error) {
	inputs := &experiments.Inputs{
		Input:               c.Input(),
		CNNADR:              cfg.NewCNN(cfg.CNN.ADR),
		CNNSSWE:             cfg.NewCNN(cfg.CNN.SSWE),
		ReferenceEmbeddings: cfg.ReferenceEmbeddings,
		SSWEEmbeddings:      cfg.SSWEEmbeddings,
		FixNegativeLexicon:  cfg.FixNegativeLexicon,
		Vader:               cfg.Vader,
		Seed:                cfg.Seed,
	}
	if !cfg.RunsExperiment(2) {
		return inputs, nil
	}

	var err error
	if inputs.Positive, err = features.ReadWordList(cfg.PositiveWords); err != nil {
		return nil, err
	}
	if cfg.FixNegativeLexicon {
		if inputs.Negative, err = features.ReadWordList(cfg.NegativeWords); err != nil {
			return nil, err
		}
	}
	if inputs.ADRLexicon, err = features.ReadADRLexicon(cfg.ADRLexicon); err != nil {
		return nil, err
	}
	log := logrus.WithField("module", "main")
	log.Printf("Lexicons: %d positive, %d negative, %d ADR terms",
		len(inputs.Positive), len(inputs.Negative), len(inputs.ADRLexicon.Terms))
	return inputs, nil
}
