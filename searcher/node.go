package searcher

import "math"

// Infinity is the heuristic value of a state from which no goal is reachable.
// Such states are never pushed onto the frontier.
const Infinity = math.MaxInt32

// State is a node of the search graph. Implementations must be immutable; Children
// returns new states and never mutates the receiver.
type State[A any] interface {
	IsGoal() bool
	// Identity is equal for two states iff they describe the same configuration.
	// It must not depend on path cost or heuristic.
	Identity() string
	// Heuristic is a lower bound on the remaining cost to any goal.
	Heuristic() int
	Children() []Child[A]
}

// Child is a successor of a state together with the action and cost that reach it.
type Child[A any] struct {
	State  State[A]
	Action A
	Cost   int
}

// record is an arena entry. Parent links are arena indices; the root's parent is -1.
type record[A any] struct {
	state    State[A]
	identity string
	action   A
	parent   int
	g        int
	h        int
}

func (r *record[A]) f() int {
	return r.g + r.h
}
