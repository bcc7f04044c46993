package planner

import (
	"slices"

	"harvest/game"
	"harvest/meta"
	"harvest/searcher"
)

// Children expands every worker in id order: Deposit at each tile next to the depot, then
// Harvest at each stand of each node in id order, then MoveTo onto those same tiles.
// ProduceWorker comes last.
func (s *State) Children() []searcher.Child[Action] {
	var children []searcher.Child[Action]
	add := func(child *State, action Action, ok bool) {
		if ok {
			children = append(children, searcher.Child[Action]{State: child, Action: action, Cost: action.Cost})
		}
	}

	for i, worker := range s.workers {
		if worker.CargoAmount > 0 {
			for _, stand := range standOptions(worker.Position, s.world.depot, s.world.depotStands) {
				add(s.deposit(i, stand))
			}
		} else {
			for n := range s.world.nodes {
				if !s.harvestable(n) {
					continue
				}
				target := &s.world.nodes[n]
				for _, stand := range standOptions(worker.Position, target.position, target.stands) {
					add(s.harvest(i, n, stand))
				}
			}
		}
		for _, target := range s.stagingTiles(i) {
			add(s.moveTo(i, target))
		}
	}
	add(s.produceWorker())
	return children
}

// standOptions lists where a worker at from may stand to act on anchor: its own tile first
// when anchor is already in reach, then every stand tile.
func standOptions(from, anchor game.Position, stands []game.Position) []game.Position {
	if !from.Adjacent(anchor) {
		return stands
	}
	options := make([]game.Position, 0, len(stands)+1)
	options = append(options, from)
	for _, p := range stands {
		if p != from {
			options = append(options, p)
		}
	}
	return options
}

// harvestable reports whether node n has something left that the goal can still use. Gold
// stays useful past its target while it can buy workers.
func (s *State) harvestable(n int) bool {
	kind := s.world.nodes[n].kind
	return s.residual[n] > 0 && (s.Deficit(kind) > 0 || (kind == game.Gold && s.canProduce()))
}

// harvest walks worker i to stand and fills its hold from node n.
func (s *State) harvest(i, n int, stand game.Position) (*State, Action, bool) {
	worker, target := s.workers[i], &s.world.nodes[n]
	if worker.CargoAmount > 0 || !s.harvestable(n) || !stand.Adjacent(target.position) {
		return nil, Action{}, false
	}

	amount := min(s.world.settings.HarvestCapacity, s.residual[n])
	child := &State{
		world:    s.world,
		workers:  slices.Clone(s.workers),
		residual: slices.Clone(s.residual),
		gold:     s.gold,
		wood:     s.wood,
	}
	child.workers[i] = game.Worker{ID: worker.ID, Position: stand, Cargo: target.kind, CargoAmount: amount}
	child.residual[n] -= amount

	return child, Action{
		Kind:     Harvest,
		WorkerID: worker.ID,
		NodeID:   target.id,
		From:     worker.Position,
		Target:   stand,
		Cargo:    target.kind,
		Amount:   amount,
		Cost:     worker.Position.Distance(stand) + meta.HARVEST_TIME,
	}, true
}

func (s *State) deposit(i int, stand game.Position) (*State, Action, bool) {
	worker := s.workers[i]
	if worker.CargoAmount <= 0 || !stand.Adjacent(s.world.depot) {
		return nil, Action{}, false
	}

	child := &State{
		world:    s.world,
		workers:  slices.Clone(s.workers),
		residual: s.residual,
		gold:     s.gold,
		wood:     s.wood,
	}
	child.workers[i] = game.Worker{ID: worker.ID, Position: stand}
	switch worker.Cargo {
	case game.Gold:
		child.gold += worker.CargoAmount
	case game.Wood:
		child.wood += worker.CargoAmount
	}

	return child, Action{
		Kind:     Deposit,
		WorkerID: worker.ID,
		From:     worker.Position,
		Target:   stand,
		Cargo:    worker.Cargo,
		Amount:   worker.CargoAmount,
		Cost:     worker.Position.Distance(stand) + meta.HARVEST_TIME,
	}, true
}

// stagingTiles are the tiles a worker would walk to next: every stand of the nodes it could
// harvest when empty, or every tile next to the depot when carrying.
func (s *State) stagingTiles(i int) []game.Position {
	worker := s.workers[i]
	if worker.CargoAmount > 0 {
		return s.world.depotStands
	}
	var tiles []game.Position
	for n := range s.world.nodes {
		if !s.harvestable(n) {
			continue
		}
		for _, stand := range s.world.nodes[n].stands {
			if !slices.Contains(tiles, stand) {
				tiles = append(tiles, stand)
			}
		}
	}
	return tiles
}

func (s *State) moveTo(i int, target game.Position) (*State, Action, bool) {
	worker := s.workers[i]
	if target == worker.Position || target == s.world.depot || !target.In(s.world.xExtent, s.world.yExtent) {
		return nil, Action{}, false
	}

	child := &State{
		world:    s.world,
		workers:  slices.Clone(s.workers),
		residual: s.residual,
		gold:     s.gold,
		wood:     s.wood,
	}
	child.workers[i].Position = target

	return child, Action{
		Kind:     MoveTo,
		WorkerID: worker.ID,
		From:     worker.Position,
		Target:   target,
		Cost:     worker.Position.Distance(target),
	}, true
}

// canProduce reports whether another worker may ever be produced from this state,
// ignoring gold.
func (s *State) canProduce() bool {
	settings := s.world.settings
	if !settings.BuildPeasants || len(s.world.depotStands) == 0 {
		return false
	}
	return settings.MaxWorkers == 0 || len(s.workers) < settings.MaxWorkers
}

// spawnTile is the first tile around the depot, whoever already stands there.
func (s *State) spawnTile() game.Position {
	return s.world.depotStands[0]
}

func (s *State) nextWorkerID() int {
	id := s.world.depotID
	for _, w := range s.workers {
		id = max(id, w.ID)
	}
	return id + 1
}

func (s *State) produceWorker() (*State, Action, bool) {
	settings := s.world.settings
	if !s.canProduce() || s.gold < settings.PeasantCost {
		return nil, Action{}, false
	}

	spawn := s.spawnTile()
	worker := game.Worker{ID: s.nextWorkerID(), Position: spawn}
	child := &State{
		world:    s.world,
		workers:  append(slices.Clone(s.workers), worker),
		residual: s.residual,
		gold:     s.gold - settings.PeasantCost,
		wood:     s.wood,
	}

	return child, Action{
		Kind:     ProduceWorker,
		WorkerID: worker.ID,
		From:     s.world.depot,
		Target:   spawn,
		Cost:     settings.BuildTime,
	}, true
}
