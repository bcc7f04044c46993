package game

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrMissingDepot    = errors.New("no depot found for agent")
	ErrMultipleDepots  = errors.New("more than one depot found for agent")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

type ResourceNode struct {
	ID       int
	Kind     Resource
	Position Position
	Amount   int
}

type Worker struct {
	ID          int
	Position    Position
	Cargo       Resource
	CargoAmount int
}

type Depot struct {
	ID       int
	Position Position
}

// Snapshot is an immutable capture of the world at planning time. Nodes and Workers
// are sorted by ID. Callers must not mutate a Snapshot once it has been built.
type Snapshot struct {
	XExtent int
	YExtent int
	Nodes   []ResourceNode
	Workers []Worker
	Depot   *Depot
	Gold    int
	Wood    int
}

// BuildSnapshot reads the engine state for player into a Snapshot.
// Units of other players and unknown templates are ignored.
func BuildSnapshot(state ExternalState, player int) (*Snapshot, error) {
	s := &Snapshot{
		XExtent: state.XExtent(),
		YExtent: state.YExtent(),
		Gold:    state.ResourceAmount(player, Gold),
		Wood:    state.ResourceAmount(player, Wood),
	}

	for _, r := range state.AllResourceNodes() {
		s.Nodes = append(s.Nodes, ResourceNode{
			ID:       r.ID,
			Kind:     r.Type.Yield(),
			Position: Position{X: r.X, Y: r.Y},
			Amount:   r.AmountRemaining,
		})
	}

	for _, u := range state.AllUnits() {
		if u.Player != player {
			continue
		}
		pos := Position{X: u.X, Y: u.Y}
		switch ClassifyTemplate(u.TemplateName) {
		case WorkerUnit:
			w := Worker{ID: u.ID, Position: pos}
			if u.CargoAmount != 0 {
				w.Cargo = u.CargoType
				w.CargoAmount = u.CargoAmount
			}
			s.Workers = append(s.Workers, w)
		case DepotUnit:
			if s.Depot != nil {
				return nil, fmt.Errorf("player %d: %w (units %d and %d)", player, ErrMultipleDepots, s.Depot.ID, u.ID)
			}
			s.Depot = &Depot{ID: u.ID, Position: pos}
		}
	}

	sort.Slice(s.Nodes, func(i, j int) bool { return s.Nodes[i].ID < s.Nodes[j].ID })
	sort.Slice(s.Workers, func(i, j int) bool { return s.Workers[i].ID < s.Workers[j].ID })

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("player %d: %w", player, err)
	}
	return s, nil
}

// Validate reports the first reason the snapshot cannot be planned on.
func (s *Snapshot) Validate() error {
	if s.Depot == nil {
		return ErrMissingDepot
	}
	if s.XExtent <= 0 || s.YExtent <= 0 {
		return fmt.Errorf("%w: extents must be positive, got %dx%d", ErrInvalidSnapshot, s.XExtent, s.YExtent)
	}
	if s.Gold < 0 || s.Wood < 0 {
		return fmt.Errorf("%w: negative stockpile gold=%d wood=%d", ErrInvalidSnapshot, s.Gold, s.Wood)
	}
	if !s.Depot.Position.In(s.XExtent, s.YExtent) {
		return fmt.Errorf("%w: depot %d at %s out of bounds", ErrInvalidSnapshot, s.Depot.ID, s.Depot.Position)
	}

	seen := make(map[int]struct{}, len(s.Nodes))
	for _, n := range s.Nodes {
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: duplicate resource node %d", ErrInvalidSnapshot, n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.Amount < 0 {
			return fmt.Errorf("%w: resource node %d has negative amount %d", ErrInvalidSnapshot, n.ID, n.Amount)
		}
		if n.Kind != Gold && n.Kind != Wood {
			return fmt.Errorf("%w: resource node %d has no resource kind", ErrInvalidSnapshot, n.ID)
		}
		if !n.Position.In(s.XExtent, s.YExtent) {
			return fmt.Errorf("%w: resource node %d at %s out of bounds", ErrInvalidSnapshot, n.ID, n.Position)
		}
	}

	seen = make(map[int]struct{}, len(s.Workers))
	for _, w := range s.Workers {
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("%w: duplicate worker %d", ErrInvalidSnapshot, w.ID)
		}
		seen[w.ID] = struct{}{}
		if w.CargoAmount < 0 {
			return fmt.Errorf("%w: worker %d has negative cargo %d", ErrInvalidSnapshot, w.ID, w.CargoAmount)
		}
		if w.CargoAmount > 0 && w.Cargo == NoResource {
			return fmt.Errorf("%w: worker %d carries %d of no resource", ErrInvalidSnapshot, w.ID, w.CargoAmount)
		}
		if !w.Position.In(s.XExtent, s.YExtent) {
			return fmt.Errorf("%w: worker %d at %s out of bounds", ErrInvalidSnapshot, w.ID, w.Position)
		}
	}
	return nil
}

// Available returns the total amount of r left on the map.
func (s *Snapshot) Available(r Resource) int {
	total := 0
	for _, n := range s.Nodes {
		if n.Kind == r {
			total += n.Amount
		}
	}
	return total
}
