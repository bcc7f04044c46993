package main

import (
	"os"

	"harvest/config"
	"harvest/experiments"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(os.Getenv("HARVEST_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Logging.Apply(); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}

	if err := experiments.RunBudgetExperiment(".", cfg.Planner); err != nil {
		log.Fatal().Err(err).Msg("budget experiment failed")
	}
}
