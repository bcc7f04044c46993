package planner

import (
	"fmt"

	"harvest/game"
)

type ActionKind int

const (
	MoveTo ActionKind = iota
	Harvest
	Deposit
	ProduceWorker
)

func (k ActionKind) String() string {
	switch k {
	case MoveTo:
		return "MoveTo"
	case Harvest:
		return "Harvest"
	case Deposit:
		return "Deposit"
	case ProduceWorker:
		return "ProduceWorker"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is one step of a plan. Target is the destination of a MoveTo, the tile a worker
// stands on to Harvest or Deposit, and the spawn tile of a ProduceWorker. The search emits
// compound Harvest and Deposit actions whose From differs from Target; Lower splits them.
type Action struct {
	Kind     ActionKind
	WorkerID int
	NodeID   int // Harvest only
	From     game.Position
	Target   game.Position
	Cargo    game.Resource
	Amount   int
	Cost     int
}

func (a Action) String() string {
	switch a.Kind {
	case MoveTo:
		return fmt.Sprintf("MoveTo(worker %d %s -> %s)", a.WorkerID, a.From, a.Target)
	case Harvest:
		return fmt.Sprintf("Harvest(worker %d, node %d, %d %s at %s)", a.WorkerID, a.NodeID, a.Amount, a.Cargo, a.Target)
	case Deposit:
		return fmt.Sprintf("Deposit(worker %d, %d %s at %s)", a.WorkerID, a.Amount, a.Cargo, a.Target)
	case ProduceWorker:
		return fmt.Sprintf("ProduceWorker(worker %d at %s)", a.WorkerID, a.Target)
	}
	return a.Kind.String()
}

// Primitive reports whether a can be executed without an implicit move.
func (a Action) Primitive() bool {
	return (a.Kind != Harvest && a.Kind != Deposit) || a.From == a.Target
}

// Lower rewrites a plan into primitive steps: every compound Harvest or Deposit becomes a
// MoveTo onto its standing tile followed by the action itself. Total cost is unchanged.
func Lower(plan []Action) []Action {
	steps := make([]Action, 0, 2*len(plan))
	for _, a := range plan {
		if a.Primitive() {
			steps = append(steps, a)
			continue
		}
		distance := a.From.Distance(a.Target)
		steps = append(steps, Action{
			Kind:     MoveTo,
			WorkerID: a.WorkerID,
			From:     a.From,
			Target:   a.Target,
			Cost:     distance,
		})
		a.From = a.Target
		a.Cost -= distance
		steps = append(steps, a)
	}
	return steps
}

// Cost sums the cost of a plan.
func Cost(plan []Action) int {
	total := 0
	for _, a := range plan {
		total += a.Cost
	}
	return total
}
