package engine

import (
	"fmt"
	"slices"

	"harvest/game"
	"harvest/meta"
	"harvest/planner"
	"harvest/utils"

	"github.com/rs/zerolog/log"
)

// LocalEngine executes plans against an in-memory copy of a snapshot, applying the same
// rules a live engine would and rejecting any step those rules forbid.
type LocalEngine struct {
	world     *game.Snapshot
	workerIDs []int
	settings  planner.Settings
	cost      int
	steps     int
}

func NewLocalEngine(snapshot *game.Snapshot, settings planner.Settings) *LocalEngine {
	world := *snapshot
	world.Nodes = slices.Clone(snapshot.Nodes)
	world.Workers = slices.Clone(snapshot.Workers)
	if snapshot.Depot != nil {
		depot := *snapshot.Depot
		world.Depot = &depot
	}

	e := &LocalEngine{world: &world, settings: settings}
	for _, w := range world.Workers {
		e.workerIDs = append(e.workerIDs, w.ID)
	}
	return e
}

// Run replays steps and reports the final world. It stops at the first illegal step.
func (e *LocalEngine) Run(steps []planner.Action) (Outcome, error) {
	if len(steps) > MaxSteps {
		return e.outcome(), fmt.Errorf("%w: plan has %d steps, limit is %d", ErrIllegalAction, len(steps), MaxSteps)
	}
	log.Debug().Msgf("replaying %d steps", len(steps))

	for i, step := range steps {
		if err := e.Step(step); err != nil {
			return e.outcome(), fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Debug().Int("step", i+1).Int("cost", e.cost).Msgf("applied %s", step)
	}

	if e.world.Gold < e.settings.RequiredGold || e.world.Wood < e.settings.RequiredWood {
		return e.outcome(), fmt.Errorf("%w: gold %d/%d wood %d/%d", ErrGoalNotReached,
			e.world.Gold, e.settings.RequiredGold, e.world.Wood, e.settings.RequiredWood)
	}
	return e.outcome(), nil
}

func (e *LocalEngine) outcome() Outcome {
	return Outcome{Final: e.world, Cost: e.cost, Steps: e.steps}
}

// Step applies one primitive action. The action's cost must match what the engine charges.
func (e *LocalEngine) Step(a planner.Action) error {
	var (
		cost int
		err  error
	)
	switch a.Kind {
	case planner.MoveTo:
		cost, err = e.move(a)
	case planner.Harvest:
		cost, err = e.harvest(a)
	case planner.Deposit:
		cost, err = e.deposit(a)
	case planner.ProduceWorker:
		cost, err = e.produce(a)
	default:
		err = fmt.Errorf("%w: unknown kind %s", ErrIllegalAction, a.Kind)
	}
	if err != nil {
		return err
	}
	if cost != a.Cost {
		return fmt.Errorf("%w: %s costs %d, plan says %d", ErrIllegalAction, a, cost, a.Cost)
	}
	e.cost += cost
	e.steps++
	return nil
}

func (e *LocalEngine) worker(a planner.Action) (*game.Worker, error) {
	i := utils.FindIndex(e.workerIDs, a.WorkerID)
	if i < 0 {
		return nil, fmt.Errorf("%w: no worker %d", ErrIllegalAction, a.WorkerID)
	}
	w := &e.world.Workers[i]
	if w.Position != a.From {
		return nil, fmt.Errorf("%w: worker %d is at %s, not %s", ErrIllegalAction, w.ID, w.Position, a.From)
	}
	return w, nil
}

func (e *LocalEngine) move(a planner.Action) (int, error) {
	w, err := e.worker(a)
	if err != nil {
		return 0, err
	}
	if !a.Target.In(e.world.XExtent, e.world.YExtent) {
		return 0, fmt.Errorf("%w: %s is out of bounds", ErrIllegalAction, a.Target)
	}
	if a.Target == e.world.Depot.Position {
		return 0, fmt.Errorf("%w: %s is the depot", ErrIllegalAction, a.Target)
	}
	cost := w.Position.Distance(a.Target)
	w.Position = a.Target
	return cost, nil
}

func (e *LocalEngine) harvest(a planner.Action) (int, error) {
	if !a.Primitive() {
		return 0, fmt.Errorf("%w: %s includes a move", ErrIllegalAction, a)
	}
	w, err := e.worker(a)
	if err != nil {
		return 0, err
	}
	if w.CargoAmount > 0 {
		return 0, fmt.Errorf("%w: worker %d already carries %d %s", ErrIllegalAction, w.ID, w.CargoAmount, w.Cargo)
	}
	i := slices.IndexFunc(e.world.Nodes, func(n game.ResourceNode) bool { return n.ID == a.NodeID })
	if i < 0 {
		return 0, fmt.Errorf("%w: no resource node %d", ErrIllegalAction, a.NodeID)
	}
	n := &e.world.Nodes[i]
	if !w.Position.Adjacent(n.Position) {
		return 0, fmt.Errorf("%w: worker %d at %s cannot reach node %d at %s", ErrIllegalAction, w.ID, w.Position, n.ID, n.Position)
	}
	if n.Amount <= 0 {
		return 0, fmt.Errorf("%w: node %d is exhausted", ErrIllegalAction, n.ID)
	}

	amount := min(e.settings.HarvestCapacity, n.Amount)
	n.Amount -= amount
	w.Cargo, w.CargoAmount = n.Kind, amount
	return meta.HARVEST_TIME, nil
}

func (e *LocalEngine) deposit(a planner.Action) (int, error) {
	if !a.Primitive() {
		return 0, fmt.Errorf("%w: %s includes a move", ErrIllegalAction, a)
	}
	w, err := e.worker(a)
	if err != nil {
		return 0, err
	}
	if w.CargoAmount <= 0 {
		return 0, fmt.Errorf("%w: worker %d carries nothing", ErrIllegalAction, w.ID)
	}
	if !w.Position.Adjacent(e.world.Depot.Position) {
		return 0, fmt.Errorf("%w: worker %d at %s is not next to the depot", ErrIllegalAction, w.ID, w.Position)
	}

	switch w.Cargo {
	case game.Gold:
		e.world.Gold += w.CargoAmount
	case game.Wood:
		e.world.Wood += w.CargoAmount
	}
	w.Cargo, w.CargoAmount = game.NoResource, 0
	return meta.HARVEST_TIME, nil
}

func (e *LocalEngine) produce(a planner.Action) (int, error) {
	switch {
	case !e.settings.BuildPeasants:
		return 0, fmt.Errorf("%w: worker production is disabled", ErrIllegalAction)
	case e.world.Gold < e.settings.PeasantCost:
		return 0, fmt.Errorf("%w: %d gold cannot pay for a worker costing %d", ErrIllegalAction, e.world.Gold, e.settings.PeasantCost)
	case e.settings.MaxWorkers > 0 && len(e.world.Workers) >= e.settings.MaxWorkers:
		return 0, fmt.Errorf("%w: already %d workers", ErrIllegalAction, len(e.world.Workers))
	case utils.FindIndex(e.workerIDs, a.WorkerID) >= 0:
		return 0, fmt.Errorf("%w: worker %d already exists", ErrIllegalAction, a.WorkerID)
	}
	depot := e.world.Depot.Position
	if a.Target == depot || !a.Target.Adjacent(depot) || !a.Target.In(e.world.XExtent, e.world.YExtent) {
		return 0, fmt.Errorf("%w: workers cannot spawn at %s", ErrIllegalAction, a.Target)
	}

	e.world.Gold -= e.settings.PeasantCost
	e.world.Workers = append(e.world.Workers, game.Worker{ID: a.WorkerID, Position: a.Target})
	e.workerIDs = append(e.workerIDs, a.WorkerID)
	return e.settings.BuildTime, nil
}
