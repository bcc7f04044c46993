package agent

import (
	"context"
	"fmt"

	"harvest/config"
	"harvest/experiments/metrics"
	"harvest/game"
	"harvest/planner"
	"harvest/searcher"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Agent interface {
	// Plan reads the engine state once and returns a plan reaching the configured targets.
	Plan(ctx context.Context, state game.ExternalState) (Plan, error)
}

// Plan is the outcome of one planning session. Steps are primitive and ready for the
// execution layer; Actions are the compound actions the search chose.
type Plan struct {
	Session  string
	Snapshot *game.Snapshot
	Actions  []planner.Action
	Steps    []planner.Action
	Cost     int
	Metric   metrics.SearchMetric
}

type planningAgent struct {
	player int
	config config.Planner
}

// NewPlanningAgent returns an agent planning for the given player.
func NewPlanningAgent(player int, cfg config.Planner) (Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return planningAgent{player: player, config: cfg}, nil
}

// Settings converts a validated planner configuration into search settings.
func Settings(cfg config.Planner) planner.Settings {
	return planner.Settings{
		RequiredGold:    cfg.RequiredGold,
		RequiredWood:    cfg.RequiredWood,
		HarvestCapacity: cfg.HarvestCapacity,
		BuildPeasants:   cfg.BuildPeasants,
		PeasantCost:     cfg.PeasantCost,
		BuildTime:       cfg.BuildTime,
		MaxWorkers:      cfg.MaxWorkers,
	}
}

func (a planningAgent) Plan(ctx context.Context, state game.ExternalState) (Plan, error) {
	plan := Plan{Session: uuid.NewString()}
	logger := log.With().Str("session", plan.Session).Int("player", a.player).Logger()

	snapshot, err := game.BuildSnapshot(state, a.player)
	if err != nil {
		logger.Warn().Err(err).Msg("rejected snapshot")
		return plan, err
	}
	plan.Snapshot = snapshot

	root, err := planner.NewRoot(snapshot, Settings(a.config))
	if err != nil {
		logger.Warn().Err(err).Msg("rejected root state")
		return plan, err
	}
	logger.Info().
		Int("workers", len(snapshot.Workers)).
		Int("nodes", len(snapshot.Nodes)).
		Int("required_gold", a.config.RequiredGold).
		Int("required_wood", a.config.RequiredWood).
		Str("root", fmt.Sprintf("%016x", root.Hash())).
		Msg("planning")

	astar := searcher.NewAStar[planner.Action](
		searcher.WithMaxExpansions(a.config.MaxExpansions),
		searcher.WithDeadline(a.config.Deadline),
		searcher.WithMetrics(),
	)
	result, err := astar.Search(ctx, root)
	plan.Metric = result.Metric
	if err != nil {
		logger.Info().Err(err).Int("expansions", result.Metric.Expansions).Msg("no plan")
		return plan, fmt.Errorf("planning for player %d: %w", a.player, err)
	}

	plan.Actions = result.Actions
	plan.Steps = planner.Lower(result.Actions)
	plan.Cost = result.Cost
	logger.Info().
		Int("cost", plan.Cost).
		Int("steps", len(plan.Steps)).
		Int("expansions", plan.Metric.Expansions).
		Dur("elapsed", plan.Metric.Duration).
		Msg("plan ready")
	return plan, nil
}
