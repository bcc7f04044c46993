package experiments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"harvest/agent"
	"harvest/config"
	"harvest/engine"
	"harvest/experiments/metrics"
	"harvest/game"
	"harvest/searcher"

	"github.com/rs/zerolog/log"
)

const (
	NumRandom = 20
	Seed      = 7
)

const (
	OutcomeSolved       = "solved"
	OutcomeNoPlan       = "no_plan"
	OutcomeTimeout      = "timeout"
	OutcomeInvalid      = "invalid"
	OutcomeReplayFailed = "replay_failed"
)

var budgetConfigs = []metrics.AgentConfig{
	{ID: 1, MaxExpansions: 1000},
	{ID: 2, MaxExpansions: 10000},
	{ID: 3, MaxExpansions: 100000},
	{ID: 4, Deadline: 50 * time.Millisecond},
	{ID: 5, MaxExpansions: 100000, BuildPeasants: true},
}

// RunBudgetExperiment plans every built-in and random scenario under each search budget and
// writes the results below root. base supplies the economic rules shared by all runs.
func RunBudgetExperiment(root string, base config.Planner) error {
	scenarios, err := BuiltinScenarios()
	if err != nil {
		return err
	}
	scenarios = append(scenarios, RandomScenarios(Seed, NumRandom)...)
	return runExperiment(root, "budget", base, budgetConfigs, scenarios)
}

func runExperiment(root, name string, base config.Planner, configs []metrics.AgentConfig, scenarios []Scenario) error {
	records := []metrics.RunRecord{}
	start := time.Now()

	log.Info().Msgf("starting %s experiment...", name)

	for ci, agentConfig := range configs {
		log.Info().Msgf("starting agent %d of %d with %+v...", ci+1, len(configs), agentConfig)

		for _, scenario := range scenarios {
			outcome, metric := runScenario(base, agentConfig, scenario)
			records = append(records, metrics.RunRecord{
				Scenario:     scenario.Name,
				Agent:        agentConfig.ID,
				Outcome:      outcome,
				SearchMetric: metric,
			})
			log.Info().Msgf("agent %d on %s: %s (cost %d, %d expansions)",
				agentConfig.ID, scenario.Name, outcome, metric.PlanCost, metric.Expansions)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	setup := metrics.Setup{Name: name, Scenarios: names, Agents: configs, Seed: Seed, StartTime: start, EndTime: time.Now()}
	if err := writer.WriteSetup(setup); err != nil {
		return fmt.Errorf("failed to store setup: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteRunRecords(records); err != nil {
		return fmt.Errorf("failed to write run records: %w", err)
	}
	log.Info().Msgf("stored %d run records in %s", len(records), writer.Dir())
	return nil
}

// runScenario plans one scenario and, when a plan is found, replays it to confirm it is
// executable and reaches the target.
func runScenario(base config.Planner, agentConfig metrics.AgentConfig, scenario Scenario) (string, metrics.SearchMetric) {
	cfg := base
	cfg.RequiredGold = scenario.RequiredGold
	cfg.RequiredWood = scenario.RequiredWood
	cfg.MaxExpansions = agentConfig.MaxExpansions
	cfg.Deadline = agentConfig.Deadline
	cfg.BuildPeasants = agentConfig.BuildPeasants

	planningAgent, err := agent.NewPlanningAgent(scenario.Player, cfg)
	if err != nil {
		log.Warn().Err(err).Msgf("skipping %s", scenario.Name)
		return OutcomeInvalid, metrics.SearchMetric{}
	}

	plan, err := planningAgent.Plan(context.Background(), scenario.State)
	switch {
	case errors.Is(err, searcher.ErrNoPlanFound):
		return OutcomeNoPlan, plan.Metric
	case errors.Is(err, searcher.ErrPlanningTimeout):
		return OutcomeTimeout, plan.Metric
	case errors.Is(err, game.ErrMissingDepot), errors.Is(err, game.ErrMultipleDepots), errors.Is(err, game.ErrInvalidSnapshot):
		return OutcomeInvalid, plan.Metric
	case err != nil:
		log.Warn().Err(err).Msgf("planning %s failed", scenario.Name)
		return OutcomeInvalid, plan.Metric
	}

	replay := engine.NewLocalEngine(plan.Snapshot, agent.Settings(cfg))
	if _, err := replay.Run(plan.Steps); err != nil {
		log.Error().Err(err).Str("session", plan.Session).Msgf("replaying %s failed", scenario.Name)
		return OutcomeReplayFailed, plan.Metric
	}
	return OutcomeSolved, plan.Metric
}
