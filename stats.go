package main

import (
	"errors"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/sirupsen/logrus"

	"github.com/5l1v3r1/adr-ranker/corpus"
)

var statsPOSFile string

func StatsCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Stats,
		UsageLine: "stats [-pos <pos.txt>] <tweets.tsv>",
		Short:     "print the label balance of a tweet corpus",
		Flag:      *flag.NewFlagSet("stats", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&statsPOSFile, "pos", "", "part-of-speech file to check against the tweets")
	return cmd
}

func Stats(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		cmd.Usage()
		return errors.New("stats: expected one tweet file")
	}

	c, err := corpus.Load(args[0], statsPOSFile)
	if err != nil {
		return err
	}

	count, total := c.Positives(), c.Len()
	var percent float64
	if total > 0 {
		percent = 100 * float64(count) / float64(total)
	}
	logrus.Printf("Matched %d/%d (%0.1f%%)", count, total, percent)

	var tokens int
	for _, e := range c.Examples {
		tokens += len(e.Tokens)
	}
	if total > 0 {
		logrus.Printf("Mean tweet length: %0.1f tokens", float64(tokens)/float64(total))
	}
	return nil
}
