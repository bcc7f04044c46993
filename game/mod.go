package game

import (
	"fmt"
	"strings"

	"harvest/utils"
)

// Resource is a kind of gatherable resource. NoResource marks an empty cargo hold.
type Resource int

const (
	NoResource Resource = iota
	Gold
	Wood
)

func (r Resource) String() string {
	switch r {
	case Gold:
		return "GOLD"
	case Wood:
		return "WOOD"
	default:
		return "NONE"
	}
}

// ParseResource reads the names produced by Resource.String, case-insensitively.
func ParseResource(s string) (Resource, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return NoResource, nil
	case "GOLD":
		return Gold, nil
	case "WOOD":
		return Wood, nil
	}
	return NoResource, fmt.Errorf("unknown resource %q", s)
}

// NodeType is the engine's resource node type.
type NodeType int

const (
	GoldMine NodeType = iota
	Tree
)

// Yield returns the resource a node of this type produces.
func (t NodeType) Yield() Resource {
	if t == Tree {
		return Wood
	}
	return Gold
}

func ParseNodeType(s string) (NodeType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GOLD_MINE":
		return GoldMine, nil
	case "TREE":
		return Tree, nil
	}
	return GoldMine, fmt.Errorf("unknown resource node type %q", s)
}

// UnitKind is resolved once from a unit's template name when the snapshot is built.
type UnitKind int

const (
	OtherUnit UnitKind = iota
	WorkerUnit
	DepotUnit
)

// ClassifyTemplate maps an engine template name to a UnitKind.
func ClassifyTemplate(name string) UnitKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "peasant":
		return WorkerUnit
	case "townhall":
		return DepotUnit
	default:
		return OtherUnit
	}
}

// Position is a grid tile.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Distance is the Chebyshev distance, matching 8-directional movement.
func (p Position) Distance(o Position) int {
	return utils.Chebyshev(p.X, p.Y, o.X, o.Y)
}

// Adjacent reports whether o is within one tile of p, including p itself.
func (p Position) Adjacent(o Position) bool {
	return p.Distance(o) <= 1
}

// In reports whether p lies within [0,xExtent)x[0,yExtent).
func (p Position) In(xExtent, yExtent int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < xExtent && p.Y < yExtent
}

// Neighbors returns the tiles around p in row-major order (lowest y, then lowest x).
func (p Position) Neighbors() []Position {
	out := make([]Position, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, Position{X: p.X + dx, Y: p.Y + dy})
		}
	}
	return out
}

// UnitView is the engine's read-only view of a unit.
type UnitView struct {
	ID           int
	Player       int
	TemplateName string
	X, Y         int
	CargoType    Resource
	CargoAmount  int
}

// ResourceView is the engine's read-only view of a resource node.
type ResourceView struct {
	ID              int
	Type            NodeType
	X, Y            int
	AmountRemaining int
}

// ExternalState is what the live engine exposes to the planner at planning time.
type ExternalState interface {
	XExtent() int
	YExtent() int
	AllUnits() []UnitView
	AllResourceNodes() []ResourceView
	ResourceAmount(player int, r Resource) int
}
