package planner

import (
	"cmp"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"strconv"

	"harvest/game"
	"harvest/meta"
	"harvest/searcher"
)

var ErrInvalidSettings = errors.New("invalid planner settings")

// Settings are the goal and the economic rules of a planning session.
type Settings struct {
	RequiredGold    int
	RequiredWood    int
	HarvestCapacity int
	BuildPeasants   bool
	PeasantCost     int
	BuildTime       int
	MaxWorkers      int // 0 means no cap
}

func DefaultSettings() Settings {
	return Settings{
		HarvestCapacity: meta.HARVEST_CAPACITY,
		PeasantCost:     meta.PEASANT_COST,
		BuildTime:       meta.BUILD_TIME,
	}
}

func (s Settings) validate() error {
	switch {
	case s.RequiredGold < 0 || s.RequiredWood < 0:
		return fmt.Errorf("%w: negative requirement gold=%d wood=%d", ErrInvalidSettings, s.RequiredGold, s.RequiredWood)
	case s.HarvestCapacity <= 0:
		return fmt.Errorf("%w: harvest capacity must be positive, got %d", ErrInvalidSettings, s.HarvestCapacity)
	case s.BuildPeasants && s.PeasantCost <= 0:
		return fmt.Errorf("%w: peasant cost must be positive, got %d", ErrInvalidSettings, s.PeasantCost)
	case s.BuildPeasants && s.BuildTime < 1:
		return fmt.Errorf("%w: build time must be at least 1, got %d", ErrInvalidSettings, s.BuildTime)
	case s.MaxWorkers < 0:
		return fmt.Errorf("%w: negative worker cap %d", ErrInvalidSettings, s.MaxWorkers)
	}
	return nil
}

type node struct {
	id       int
	kind     game.Resource
	position game.Position
	stands   []game.Position // tiles a worker may harvest from, best first
}

// world is the part of a planning session that no action changes.
type world struct {
	settings    Settings
	xExtent     int
	yExtent     int
	depotID     int
	depot       game.Position
	depotStands []game.Position // in-bounds tiles around the depot, row-major
	nodes       []node
	unit        int // largest amount a single harvest or deposit can move
}

// State is a search node. States are immutable: successors copy what they change and
// share the rest.
type State struct {
	world    *world
	workers  []game.Worker // sorted by ID
	residual []int         // indexed like world.nodes
	gold     int
	wood     int
}

var _ searcher.State[Action] = (*State)(nil)

// NewRoot builds the initial planning state from a snapshot.
func NewRoot(snapshot *game.Snapshot, settings Settings) (*State, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("%w: nil snapshot", game.ErrInvalidSnapshot)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}

	w := &world{
		settings: settings,
		xExtent:  snapshot.XExtent,
		yExtent:  snapshot.YExtent,
		depotID:  snapshot.Depot.ID,
		depot:    snapshot.Depot.Position,
		unit:     settings.HarvestCapacity,
	}
	for _, p := range w.depot.Neighbors() {
		if p.In(w.xExtent, w.yExtent) {
			w.depotStands = append(w.depotStands, p)
		}
	}

	nodes := slices.Clone(snapshot.Nodes)
	slices.SortFunc(nodes, func(a, b game.ResourceNode) int { return cmp.Compare(a.ID, b.ID) })
	residual := make([]int, len(nodes))
	for i, n := range nodes {
		w.nodes = append(w.nodes, node{
			id:       n.ID,
			kind:     n.Kind,
			position: n.Position,
			stands:   w.standsAround(n.Position),
		})
		residual[i] = n.Amount
	}

	workers := slices.Clone(snapshot.Workers)
	slices.SortFunc(workers, func(a, b game.Worker) int { return cmp.Compare(a.ID, b.ID) })
	for i := range workers {
		if workers[i].CargoAmount == 0 {
			workers[i].Cargo = game.NoResource
		}
		w.unit = max(w.unit, workers[i].CargoAmount)
	}

	return &State{
		world:    w,
		workers:  workers,
		residual: residual,
		gold:     snapshot.Gold,
		wood:     snapshot.Wood,
	}, nil
}

// standsAround lists the tiles at or next to p that a worker may occupy, ordered by distance
// to the depot, then row-major.
func (w *world) standsAround(p game.Position) []game.Position {
	var stands []game.Position
	for _, c := range append([]game.Position{p}, p.Neighbors()...) {
		if c.In(w.xExtent, w.yExtent) && c != w.depot {
			stands = append(stands, c)
		}
	}
	slices.SortStableFunc(stands, func(a, b game.Position) int {
		return cmp.Or(
			cmp.Compare(a.Distance(w.depot), b.Distance(w.depot)),
			cmp.Compare(a.Y, b.Y),
			cmp.Compare(a.X, b.X),
		)
	})
	return stands
}

func (s *State) Settings() Settings { return s.world.settings }
func (s *State) Gold() int          { return s.gold }
func (s *State) Wood() int          { return s.wood }

func (s *State) Workers() []game.Worker {
	return slices.Clone(s.workers)
}

// Residual returns the amount left in the node with the given id, or -1 if there is none.
func (s *State) Residual(nodeID int) int {
	for i, n := range s.world.nodes {
		if n.id == nodeID {
			return s.residual[i]
		}
	}
	return -1
}

// Deficit is how much of r is still missing from the stockpile.
func (s *State) Deficit(r game.Resource) int {
	switch r {
	case game.Gold:
		return max(0, s.world.settings.RequiredGold-s.gold)
	case game.Wood:
		return max(0, s.world.settings.RequiredWood-s.wood)
	}
	return 0
}

func (s *State) IsGoal() bool {
	return s.gold >= s.world.settings.RequiredGold && s.wood >= s.world.settings.RequiredWood
}

// Identity encodes the worker multiset, node residuals and stockpiles. Worker ids are left
// out, so two states that differ only in which worker stands where are the same state.
func (s *State) Identity() string {
	workers := slices.Clone(s.workers)
	slices.SortFunc(workers, func(a, b game.Worker) int {
		return cmp.Or(
			cmp.Compare(a.Position.X, b.Position.X),
			cmp.Compare(a.Position.Y, b.Position.Y),
			cmp.Compare(a.Cargo, b.Cargo),
			cmp.Compare(a.CargoAmount, b.CargoAmount),
		)
	})

	buf := make([]byte, 0, 12*len(workers)+6*len(s.residual)+16)
	for _, w := range workers {
		buf = strconv.AppendInt(buf, int64(w.Position.X), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(w.Position.Y), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(w.Cargo), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(w.CargoAmount), 10)
		buf = append(buf, ';')
	}
	buf = append(buf, '|')
	for _, r := range s.residual {
		buf = strconv.AppendInt(buf, int64(r), 10)
		buf = append(buf, ',')
	}
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, int64(s.gold), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(s.wood), 10)
	return string(buf)
}

// Hash is a 64-bit digest of Identity.
func (s *State) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(s.Identity()))
	return h.Sum64()
}

func (s *State) String() string {
	return fmt.Sprintf("gold=%d/%d wood=%d/%d workers=%v residual=%v",
		s.gold, s.world.settings.RequiredGold, s.wood, s.world.settings.RequiredWood, s.workers, s.residual)
}
