package planner

import (
	"harvest/game"
	"harvest/searcher"
)

// Heuristic bounds the remaining cost from below and is consistent.
//
// For each resource with deficit D, carried amount C and unit u (the largest load), at least
// ceil(D/u) deposits and ceil((D-C)/u) harvests remain, each costing at least one. On top
// of that, some worker has to walk to the depot before the next deposit; the cheapest such
// walk is added once. States that can no longer reach the goal get searcher.Infinity.
func (s *State) Heuristic() int {
	dGold, dWood := s.Deficit(game.Gold), s.Deficit(game.Wood)
	if dGold == 0 && dWood == 0 {
		return 0
	}

	var carriedGold, carriedWood int
	for _, w := range s.workers {
		switch w.Cargo {
		case game.Gold:
			carriedGold += w.CargoAmount
		case game.Wood:
			carriedWood += w.CargoAmount
		}
	}
	var leftGold, leftWood int
	for i, n := range s.world.nodes {
		switch n.kind {
		case game.Gold:
			leftGold += s.residual[i]
		case game.Wood:
			leftWood += s.residual[i]
		}
	}
	if dGold > leftGold+carriedGold || dWood > leftWood+carriedWood {
		return searcher.Infinity
	}

	walk, ok := s.walkBound()
	if !ok {
		return searcher.Infinity
	}
	unit := s.world.unit
	return trips(dGold, carriedGold, unit) + trips(dWood, carriedWood, unit) + walk
}

func trips(deficit, carried, unit int) int {
	return ceilDiv(deficit, unit) + ceilDiv(max(0, deficit-carried), unit)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// approach is the distance a worker at from walks before it stands next to to.
func approach(from, to game.Position) int {
	return max(0, from.Distance(to)-1)
}

// walkBound is the least walking any worker, present or still to be produced, needs
// before it can make a deposit. It reports false if no worker can ever deposit again.
func (s *State) walkBound() (int, bool) {
	best, found := 0, false
	consider := func(v int) {
		if !found || v < best {
			best, found = v, true
		}
	}

	depot := s.world.depot
	for _, w := range s.workers {
		if w.CargoAmount > 0 {
			consider(approach(w.Position, depot))
			continue
		}
		for i, n := range s.world.nodes {
			if s.residual[i] > 0 {
				consider(approach(w.Position, n.position) + max(0, n.position.Distance(depot)-2))
			}
		}
	}

	// A produced worker spawns next to the depot.
	if s.canProduce() {
		for i, n := range s.world.nodes {
			if s.residual[i] > 0 {
				consider(2 * max(0, n.position.Distance(depot)-2))
			}
		}
	}
	return best, found
}
