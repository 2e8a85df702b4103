package main

import (
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/sirupsen/logrus"
	"github.com/unixpickle/essentials"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)

	cmd := &commander.Command{
		UsageLine: os.Args[0] + " <command> [options]",
		Short:     "compare tweet representations for ADR detection",
		Subcommands: []*commander.Command{
			RunCmd(),
			StatsCmd(),
			CheckCmd(),
		},
		Flag: *flag.NewFlagSet("adr-ranker", flag.ExitOnError),
	}

	if err := cmd.Flag.Parse(os.Args[1:]); err != nil {
		essentials.Die(err)
	}
	args := cmd.Flag.Args()
	if len(args) == 0 {
		cmd.Usage()
		os.Exit(1)
	}
	if err := cmd.Dispatch(args); err != nil {
		essentials.Die(err)
	}
}

// addConfigFlag registers the -config flag shared by
// every subcommand.
func addConfigFlag(cmd *commander.Command, path *string) {
	cmd.Flag.StringVar(path, "config", "", "YAML config file (defaults and ADR_* variables apply otherwise)")
}

// flagsSet returns the names of the flags given on the
// command line.
func flagsSet(cmd *commander.Command) map[string]bool {
	res := map[string]bool{}
	cmd.Flag.Visit(func(f *flag.Flag) {
		res[f.Name] = true
	})
	return res
}
