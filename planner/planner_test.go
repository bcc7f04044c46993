package planner

import (
	"context"
	"testing"

	"harvest/game"
	"harvest/searcher"

	"github.com/stretchr/testify/require"
)

func search(t *testing.T, root *State) (searcher.Result[Action], error) {
	t.Helper()
	return searcher.NewAStar[Action](searcher.WithMaxExpansions(100000), searcher.WithMetrics()).
		Search(context.Background(), root)
}

// replay applies plan to root through Children, failing if a step is not offered.
func replay(t require.TestingT, root *State, plan []Action) *State {
	s := root
	for _, a := range plan {
		var next *State
		for _, c := range s.Children() {
			if c.Action == a {
				next = c.State.(*State)
				break
			}
		}
		require.NotNil(t, next, "Action %s should be legal", a)
		s = next
	}
	return s
}

func newRoot(t *testing.T, snapshot *game.Snapshot, settings Settings) *State {
	t.Helper()
	root, err := NewRoot(snapshot, settings)
	require.NoError(t, err)
	return root
}

// singleMine has a depot in the corner and one gold mine three tiles east.
func singleMine(worker game.Worker) *game.Snapshot {
	return &game.Snapshot{
		XExtent: 10,
		YExtent: 10,
		Depot:   &game.Depot{ID: 1, Position: game.Position{X: 0, Y: 0}},
		Nodes:   []game.ResourceNode{{ID: 10, Kind: game.Gold, Position: game.Position{X: 3, Y: 0}, Amount: 100}},
		Workers: []game.Worker{worker},
	}
}

func goldSettings(required, capacity int) Settings {
	settings := DefaultSettings()
	settings.RequiredGold = required
	settings.HarvestCapacity = capacity
	return settings
}

func TestPlanScenarios(t *testing.T) {
	t.Run("alternating trips from the depot", func(t *testing.T) {
		root := newRoot(t, singleMine(game.Worker{ID: 2, Position: game.Position{X: 0, Y: 0}}), goldSettings(20, 10))

		result, err := search(t, root)
		require.NoError(t, err)
		require.Equal(t, 9, result.Cost, "Two round trips with walking should cost 9")

		steps := Lower(result.Actions)
		require.Equal(t, []ActionKind{MoveTo, Harvest, MoveTo, Deposit, MoveTo, Harvest, MoveTo, Deposit}, kinds(steps))
		require.Equal(t, result.Cost, Cost(steps), "Lowering should preserve the plan cost")
		mine, depot := game.Position{X: 3, Y: 0}, game.Position{X: 0, Y: 0}
		for _, step := range steps {
			switch step.Kind {
			case Harvest:
				require.True(t, step.Target.Adjacent(mine), "%s should stand next to the mine", step)
			case Deposit:
				require.True(t, step.Target.Adjacent(depot), "%s should stand next to the depot", step)
			}
		}

		final := replay(t, root, result.Actions)
		require.True(t, final.IsGoal())
		require.GreaterOrEqual(t, final.Gold(), 20)
		require.Equal(t, 80, final.Residual(10))
	})

	t.Run("depositing a full load first", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2, Position: game.Position{X: 1, Y: 0}, Cargo: game.Gold, CargoAmount: 10})
		snapshot.Nodes[0].Position = game.Position{X: 2, Y: 0}
		root := newRoot(t, snapshot, goldSettings(20, 10))

		result, err := search(t, root)
		require.NoError(t, err)
		require.NotEmpty(t, result.Actions)
		require.Equal(t, Deposit, result.Actions[0].Kind, "A worker next to the depot with a full load should deposit first")
		require.Equal(t, 0, result.Actions[0].From.Distance(result.Actions[0].Target), "The deposit should not move the worker")
		require.Equal(t, 3, result.Cost)
	})

	t.Run("accepting overshoot", func(t *testing.T) {
		root := newRoot(t, singleMine(game.Worker{ID: 2, Position: game.Position{X: 2, Y: 0}}), goldSettings(15, 10))

		result, err := search(t, root)
		require.NoError(t, err)

		final := replay(t, root, result.Actions)
		require.Equal(t, 20, final.Gold(), "Two loads are needed and the surplus is kept")
		require.True(t, final.IsGoal())
	})

	t.Run("returning an empty plan when already satisfied", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2})
		snapshot.Gold = 50
		root := newRoot(t, snapshot, goldSettings(20, 10))

		result, err := search(t, root)
		require.NoError(t, err)
		require.Empty(t, result.Actions)
	})

	t.Run("failing when the map holds too little gold", func(t *testing.T) {
		root := newRoot(t, singleMine(game.Worker{ID: 2}), goldSettings(150, 10))

		_, err := search(t, root)
		require.ErrorIs(t, err, searcher.ErrNoPlanFound)
	})

	t.Run("failing when wood is required and there are no trees", func(t *testing.T) {
		settings := goldSettings(0, 10)
		settings.RequiredWood = 10
		root := newRoot(t, singleMine(game.Worker{ID: 2}), settings)

		_, err := search(t, root)
		require.ErrorIs(t, err, searcher.ErrNoPlanFound)
	})

	t.Run("producing the same plan twice", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2, Position: game.Position{X: 5, Y: 5}})
		snapshot.Workers = append(snapshot.Workers, game.Worker{ID: 3, Position: game.Position{X: 6, Y: 2}})
		snapshot.Nodes = append(snapshot.Nodes, game.ResourceNode{ID: 11, Kind: game.Wood, Position: game.Position{X: 4, Y: 4}, Amount: 50})
		settings := goldSettings(20, 10)
		settings.RequiredWood = 10

		first, err := search(t, newRoot(t, snapshot, settings))
		require.NoError(t, err)
		second, err := search(t, newRoot(t, snapshot, settings))
		require.NoError(t, err)
		require.Equal(t, first.Actions, second.Actions, "Search should be deterministic")
		require.Equal(t, 0, first.Metric.Reopened, "A consistent heuristic never reopens a state")
	})
}

// lumberCamp has trees next to the depot but its only worker far away.
func lumberCamp() *game.Snapshot {
	return &game.Snapshot{
		XExtent: 10,
		YExtent: 10,
		Depot:   &game.Depot{ID: 1, Position: game.Position{X: 0, Y: 0}},
		Nodes:   []game.ResourceNode{{ID: 10, Kind: game.Wood, Position: game.Position{X: 2, Y: 0}, Amount: 100}},
		Workers: []game.Worker{{ID: 2, Position: game.Position{X: 9, Y: 9}}},
		Gold:    400,
	}
}

func TestProduceWorker(t *testing.T) {
	woodSettings := func(build bool) Settings {
		settings := DefaultSettings()
		settings.RequiredWood = 10
		settings.HarvestCapacity = 10
		settings.BuildPeasants = build
		return settings
	}

	t.Run("never offered when disabled", func(t *testing.T) {
		root := newRoot(t, lumberCamp(), woodSettings(false))
		for _, c := range root.Children() {
			require.NotEqual(t, ProduceWorker, c.Action.Kind)
		}

		result, err := search(t, root)
		require.NoError(t, err)
		require.Equal(t, 10, result.Cost, "The only worker has to walk across the map")
	})

	t.Run("offered last when affordable", func(t *testing.T) {
		root := newRoot(t, lumberCamp(), woodSettings(true))
		children := root.Children()

		last := children[len(children)-1]
		require.Equal(t, ProduceWorker, last.Action.Kind)
		require.Equal(t, 3, last.Action.WorkerID, "The new worker takes the next free id")
		require.Equal(t, game.Position{X: 1, Y: 0}, last.Action.Target, "The new worker spawns on the first tile around the depot")
		require.Equal(t, 1, last.Cost)

		produced := last.State.(*State)
		require.Equal(t, 0, produced.Gold())
		require.Len(t, produced.Workers(), 2)
	})

	t.Run("used when it shortens the plan", func(t *testing.T) {
		root := newRoot(t, lumberCamp(), woodSettings(true))

		result, err := search(t, root)
		require.NoError(t, err)
		require.Equal(t, 3, result.Cost)
		require.Equal(t, []ActionKind{ProduceWorker, Harvest, Deposit}, kinds(result.Actions))
	})

	t.Run("unaffordable", func(t *testing.T) {
		snapshot := lumberCamp()
		snapshot.Gold = 399
		root := newRoot(t, snapshot, woodSettings(true))
		for _, c := range root.Children() {
			require.NotEqual(t, ProduceWorker, c.Action.Kind)
		}
	})

	t.Run("capped", func(t *testing.T) {
		settings := woodSettings(true)
		settings.MaxWorkers = 1
		root := newRoot(t, lumberCamp(), settings)
		for _, c := range root.Children() {
			require.NotEqual(t, ProduceWorker, c.Action.Kind)
		}
	})
}

func kinds(plan []Action) []ActionKind {
	out := make([]ActionKind, len(plan))
	for i, a := range plan {
		out[i] = a.Kind
	}
	return out
}

func TestChildren(t *testing.T) {
	t.Run("harvest folds in the walk", func(t *testing.T) {
		root := newRoot(t, singleMine(game.Worker{ID: 2}), goldSettings(20, 10))
		children := root.Children()

		require.Len(t, children, 12, "Six stand tiles around the mine, each as a harvest and as a move")
		require.Equal(t, Harvest, children[0].Action.Kind)
		require.Equal(t, game.Position{X: 2, Y: 0}, children[0].Action.Target)
		require.Equal(t, 3, children[0].Cost, "Walking two tiles then harvesting should cost 3")
		require.Equal(t, game.Position{X: 2, Y: 1}, children[1].Action.Target, "Stands closer to the depot come first")
		require.Equal(t, 5, children[5].Cost, "The far side of the mine is four tiles away")
		require.Equal(t, MoveTo, children[6].Action.Kind)
		require.Equal(t, game.Position{X: 2, Y: 0}, children[6].Action.Target)
		require.Equal(t, 2, children[6].Cost)

		harvested := children[0].State.(*State)
		require.Equal(t, 90, harvested.Residual(10))
		require.Equal(t, 100, root.Residual(10), "The parent should not change")
		require.Equal(t, game.Gold, harvested.Workers()[0].Cargo)
	})

	t.Run("harvest takes what is left", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2, Position: game.Position{X: 2, Y: 0}})
		snapshot.Nodes[0].Amount = 4
		root := newRoot(t, snapshot, goldSettings(4, 10))

		child := root.Children()[0]
		require.Equal(t, Harvest, child.Action.Kind)
		require.Equal(t, 4, child.Action.Amount)
		require.Equal(t, 0, child.State.(*State).Residual(10))
	})

	t.Run("no harvest of a resource already at target", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2, Position: game.Position{X: 2, Y: 0}})
		snapshot.Nodes = append(snapshot.Nodes, game.ResourceNode{ID: 11, Kind: game.Wood, Position: game.Position{X: 2, Y: 1}, Amount: 100})
		root := newRoot(t, snapshot, goldSettings(20, 10))

		for _, c := range root.Children() {
			require.NotEqual(t, 11, c.Action.NodeID, "Wood is not needed")
		}
	})

	t.Run("deposit walks next to the depot", func(t *testing.T) {
		root := newRoot(t, singleMine(game.Worker{ID: 2, Position: game.Position{X: 4, Y: 3}, Cargo: game.Gold, CargoAmount: 10}), goldSettings(20, 10))
		children := root.Children()

		require.Equal(t, Deposit, children[0].Action.Kind)
		require.Equal(t, 4, children[0].Cost, "Three tiles to reach the depot, one to deposit")
		require.Equal(t, game.Position{X: 1, Y: 0}, children[0].Action.Target, "Stand tiles are offered row by row")
		require.Equal(t, 10, children[0].State.(*State).Gold())

		var targets []game.Position
		for _, c := range children {
			if c.Action.Kind == Deposit {
				targets = append(targets, c.Action.Target)
			}
		}
		require.Equal(t, []game.Position{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, targets, "Every tile next to the depot is a place to deposit")
		for _, c := range children {
			require.NotEqual(t, Harvest, c.Action.Kind, "A loaded worker cannot harvest")
		}
	})

	t.Run("acting in place from the depot tile", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2, Cargo: game.Gold, CargoAmount: 10})
		snapshot.Nodes[0].Position = game.Position{X: 1, Y: 1}
		root := newRoot(t, snapshot, goldSettings(30, 10))

		deposit := root.Children()[0]
		require.Equal(t, Deposit, deposit.Action.Kind)
		require.Equal(t, game.Position{X: 0, Y: 0}, deposit.Action.Target, "A worker on the depot tile deposits without moving")
		require.Equal(t, 1, deposit.Cost)

		harvest := deposit.State.Children()[0]
		require.Equal(t, Harvest, harvest.Action.Kind)
		require.Equal(t, game.Position{X: 0, Y: 0}, harvest.Action.Target, "A node in reach is harvested without moving")
		require.Equal(t, 1, harvest.Cost)
	})

	t.Run("moves never end on the depot", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2, Position: game.Position{X: 1, Y: 1}, Cargo: game.Gold, CargoAmount: 5})
		snapshot.Workers = append(snapshot.Workers, game.Worker{ID: 3, Position: game.Position{X: 7, Y: 7}})
		root := newRoot(t, snapshot, goldSettings(20, 10))

		for _, c := range root.Children() {
			if c.Action.Kind == MoveTo {
				require.NotEqual(t, game.Position{X: 0, Y: 0}, c.Action.Target)
				require.NotEqual(t, c.Action.From, c.Action.Target)
				require.Equal(t, c.Action.From.Distance(c.Action.Target), c.Cost)
			}
		}
	})

	t.Run("workers expand in id order", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 5, Position: game.Position{X: 2, Y: 1}})
		snapshot.Workers = append([]game.Worker{{ID: 9, Position: game.Position{X: 2, Y: 0}}}, snapshot.Workers...)
		root := newRoot(t, snapshot, goldSettings(20, 10))

		children := root.Children()
		require.Equal(t, 5, children[0].Action.WorkerID)
		require.Equal(t, 9, children[len(children)-1].Action.WorkerID)
	})
}

func TestIdentity(t *testing.T) {
	t.Run("ignores worker ids", func(t *testing.T) {
		a := singleMine(game.Worker{ID: 2, Position: game.Position{X: 1, Y: 1}})
		a.Workers = append(a.Workers, game.Worker{ID: 3, Position: game.Position{X: 4, Y: 4}, Cargo: game.Gold, CargoAmount: 3})
		b := singleMine(game.Worker{ID: 2, Position: game.Position{X: 4, Y: 4}, Cargo: game.Gold, CargoAmount: 3})
		b.Workers = append(b.Workers, game.Worker{ID: 3, Position: game.Position{X: 1, Y: 1}})

		sa, sb := newRoot(t, a, goldSettings(20, 10)), newRoot(t, b, goldSettings(20, 10))
		require.Equal(t, sa.Identity(), sb.Identity())
		require.Equal(t, sa.Hash(), sb.Hash())
	})

	t.Run("distinguishes residuals and stockpiles", func(t *testing.T) {
		base := newRoot(t, singleMine(game.Worker{ID: 2}), goldSettings(20, 10))

		lessGold := singleMine(game.Worker{ID: 2})
		lessGold.Nodes[0].Amount = 90
		richer := singleMine(game.Worker{ID: 2})
		richer.Gold = 10

		require.NotEqual(t, base.Identity(), newRoot(t, lessGold, goldSettings(20, 10)).Identity())
		require.NotEqual(t, base.Identity(), newRoot(t, richer, goldSettings(20, 10)).Identity())
	})

	t.Run("does not depend on the path", func(t *testing.T) {
		root := newRoot(t, singleMine(game.Worker{ID: 2}), goldSettings(20, 10))
		children := root.Children()

		direct := children[0].State.(*State)
		require.Equal(t, MoveTo, children[6].Action.Kind)
		var viaMove *State
		for _, c := range children[6].State.Children() {
			if c.Action.Kind == Harvest && c.Action.From == c.Action.Target {
				viaMove = c.State.(*State)
			}
		}
		require.NotNil(t, viaMove)
		require.Equal(t, direct.Identity(), viaMove.Identity(), "Harvesting after a move reaches the same state as a compound harvest")
	})
}

func TestHeuristic(t *testing.T) {
	t.Run("counts trips and the walk to the mine", func(t *testing.T) {
		root := newRoot(t, singleMine(game.Worker{ID: 2}), goldSettings(20, 10))
		require.Equal(t, 7, root.Heuristic(), "Two harvests, two deposits and three tiles of walking")
	})

	t.Run("zero at a goal", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2})
		snapshot.Gold = 20
		require.Equal(t, 0, newRoot(t, snapshot, goldSettings(20, 10)).Heuristic())
	})

	t.Run("infinite when the map runs dry", func(t *testing.T) {
		root := newRoot(t, singleMine(game.Worker{ID: 2, Cargo: game.Gold, CargoAmount: 10}), goldSettings(111, 10))
		require.Equal(t, searcher.Infinity, root.Heuristic())
	})

	t.Run("carried cargo counts toward the target", func(t *testing.T) {
		root := newRoot(t, singleMine(game.Worker{ID: 2, Cargo: game.Gold, CargoAmount: 10}), goldSettings(110, 10))
		require.Less(t, root.Heuristic(), searcher.Infinity)
	})

	t.Run("infinite without workers", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2})
		snapshot.Workers = nil
		require.Equal(t, searcher.Infinity, newRoot(t, snapshot, goldSettings(20, 10)).Heuristic())
	})

	t.Run("finite without workers when one can be produced", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2})
		snapshot.Workers = nil
		snapshot.Gold = 400
		settings := goldSettings(500, 10)
		settings.BuildPeasants = true
		require.Less(t, newRoot(t, snapshot, settings).Heuristic(), searcher.Infinity)
	})
}

func TestNewRoot(t *testing.T) {
	t.Run("missing depot", func(t *testing.T) {
		snapshot := singleMine(game.Worker{ID: 2})
		snapshot.Depot = nil

		_, err := NewRoot(snapshot, goldSettings(20, 10))
		require.ErrorIs(t, err, game.ErrMissingDepot)
	})

	t.Run("bad capacity", func(t *testing.T) {
		_, err := NewRoot(singleMine(game.Worker{ID: 2}), goldSettings(20, 0))
		require.ErrorIs(t, err, ErrInvalidSettings)
	})

	t.Run("negative requirement", func(t *testing.T) {
		_, err := NewRoot(singleMine(game.Worker{ID: 2}), goldSettings(-1, 10))
		require.ErrorIs(t, err, ErrInvalidSettings)
	})
}

func TestLower(t *testing.T) {
	at := func(x, y int) game.Position { return game.Position{X: x, Y: y} }
	plan := []Action{
		{Kind: Harvest, WorkerID: 1, NodeID: 4, From: at(0, 0), Target: at(3, 3), Cargo: game.Wood, Amount: 5, Cost: 4},
		{Kind: Deposit, WorkerID: 1, From: at(3, 3), Target: at(3, 3), Cargo: game.Wood, Amount: 5, Cost: 1},
		{Kind: ProduceWorker, WorkerID: 2, From: at(1, 1), Target: at(2, 2), Cost: 1},
	}

	steps := Lower(plan)

	require.Equal(t, []ActionKind{MoveTo, Harvest, Deposit, ProduceWorker}, kinds(steps))
	require.Equal(t, 3, steps[0].Cost)
	require.Equal(t, 1, steps[1].Cost)
	require.Equal(t, at(3, 3), steps[1].From)
	require.Equal(t, Cost(plan), Cost(steps))
	for _, s := range steps {
		require.True(t, s.Primitive())
	}
}
