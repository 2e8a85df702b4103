package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/sirupsen/logrus"
)

var checkConfigFile string

func CheckCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Check,
		UsageLine: "check [-config <adr.yaml>]",
		Short:     "verify that the configured input files are readable",
		Flag:      *flag.NewFlagSet("check", flag.ExitOnError),
	}
	addConfigFlag(cmd, &checkConfigFile)
	return cmd
}

func Check(cmd *commander.Command, args []string) error {
	cfg, err := LoadConfig(checkConfigFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	missing := checkFiles(cfg)
	if missing > 0 {
		return fmt.Errorf("%d input files missing or unreadable", missing)
	}
	logrus.Println("All input files found")
	return nil
}

func checkFiles(cfg *Config) int {
	var missing int
	for _, file := range cfg.InputFiles() {
		role, path := file[0], file[1]
		log := logrus.WithFields(logrus.Fields{"module": "check", "role": role})
		f, err := os.Open(path)
		if err != nil {
			log.WithError(err).Error("Cannot read input file")
			missing++
			continue
		}
		f.Close()
		log.Infof("Found %s", path)
	}
	return missing
}
