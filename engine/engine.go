package engine

import (
	"errors"

	"harvest/game"
	"harvest/planner"
)

var (
	ErrIllegalAction  = errors.New("illegal action")
	ErrGoalNotReached = errors.New("goal not reached")
)

// MaxSteps bounds a replay so a corrupt plan cannot run forever.
const MaxSteps = 100000

type Engine interface {
	// Run executes primitive steps in order and checks the goal at the end.
	Run(steps []planner.Action) (Outcome, error)
}

// Outcome is the world after a replay and what it cost to get there.
type Outcome struct {
	Final *game.Snapshot
	Cost  int
	Steps int
}
