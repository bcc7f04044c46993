package searcher

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"time"

	"harvest/experiments/metrics"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoPlanFound     = errors.New("no plan found")
	ErrPlanningTimeout = errors.New("planning budget exceeded")
)

type Option func(s *settings)

type settings struct {
	maxExpansions int
	deadline      time.Duration
	metrics       metrics.Collector
}

// WithMaxExpansions bounds the number of expanded states. Zero means unbounded.
func WithMaxExpansions(expansions int) Option {
	return func(s *settings) {
		if expansions > 0 {
			s.maxExpansions = expansions
		}
	}
}

// WithDeadline bounds the wall-clock time of a search. Zero means unbounded.
func WithDeadline(deadline time.Duration) Option {
	return func(s *settings) {
		if deadline > 0 {
			s.deadline = deadline
		}
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = metrics.NewCollector()
	}
}

// Result is a plan: the actions from the root to a goal, in order, and their total cost.
type Result[A any] struct {
	Actions []A
	Cost    int
	Metric  metrics.SearchMetric
}

// AStar is a best-first graph search. An AStar value holds no per-search state and can be
// reused, but a single Search call is synchronous and owns its frontier and closed set.
type AStar[A any] struct {
	settings
}

func NewAStar[A any](options ...Option) *AStar[A] {
	a := &AStar[A]{settings{metrics: metrics.NewDummyCollector()}}
	for _, option := range options {
		option(&a.settings)
	}
	return a
}

// Search runs A* from root. Duplicate states are pushed freely and stale entries are
// discarded when popped. A closed state is reopened if it is reached again more cheaply.
func (a *AStar[A]) Search(ctx context.Context, root State[A]) (Result[A], error) {
	if a.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.deadline)
		defer cancel()
	}
	a.metrics.Start()

	result, err := a.search(ctx, root)
	if err != nil {
		result.Metric = a.metrics.Complete()
		log.Debug().Err(err).Int("expansions", result.Metric.Expansions).Msg("search failed")
		return result, err
	}

	a.metrics.Solved(result.Cost, len(result.Actions))
	result.Metric = a.metrics.Complete()
	log.Debug().
		Int("cost", result.Cost).
		Int("length", len(result.Actions)).
		Int("expansions", result.Metric.Expansions).
		Msg("search solved")
	return result, nil
}

func (a *AStar[A]) search(ctx context.Context, root State[A]) (Result[A], error) {
	h := root.Heuristic()
	if h >= Infinity {
		return Result[A]{}, fmt.Errorf("%w: goal unreachable from root", ErrNoPlanFound)
	}

	arena := make([]record[A], 0, 1024)
	open := &frontier[A]{arena: &arena}
	closed := make(map[string]int) // identity -> g when expanded
	seen := make(map[string]int)   // identity -> lowest g generated

	push := func(r record[A]) {
		arena = append(arena, r)
		heap.Push(open, len(arena)-1)
	}

	rootID := root.Identity()
	seen[rootID] = 0
	push(record[A]{state: root, identity: rootID, parent: -1, h: h})

	expansions := 0
	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Result[A]{}, fmt.Errorf("%w after %d expansions: %w", ErrPlanningTimeout, expansions, err)
		}

		id := heap.Pop(open).(int)
		current := arena[id]

		if current.state.IsGoal() {
			return reconstruct(arena, id), nil
		}

		g, wasClosed := closed[current.identity]
		if (wasClosed && g <= current.g) || current.g > seen[current.identity] {
			a.metrics.AddStalePop()
			continue
		}
		if a.maxExpansions > 0 && expansions >= a.maxExpansions {
			return Result[A]{}, fmt.Errorf("%w: reached %d expansions", ErrPlanningTimeout, expansions)
		}
		if wasClosed {
			a.metrics.AddReopened()
		}
		closed[current.identity] = current.g
		expansions++
		a.metrics.AddExpansion()

		children := current.state.Children()
		a.metrics.AddGenerated(len(children))
		for _, child := range children {
			if child.Cost < 0 {
				panic(fmt.Sprintf("negative action cost %d", child.Cost))
			}
			childH := child.State.Heuristic()
			if childH >= Infinity {
				continue
			}
			childG := current.g + child.Cost
			identity := child.State.Identity()
			if best, ok := seen[identity]; ok && best <= childG {
				continue
			}
			seen[identity] = childG
			push(record[A]{
				state:    child.State,
				identity: identity,
				action:   child.Action,
				parent:   id,
				g:        childG,
				h:        childH,
			})
		}
		a.metrics.ObserveFrontier(open.Len())
	}

	return Result[A]{}, fmt.Errorf("%w: frontier exhausted after %d expansions", ErrNoPlanFound, expansions)
}

func reconstruct[A any](arena []record[A], goal int) Result[A] {
	var actions []A
	for id := goal; arena[id].parent >= 0; id = arena[id].parent {
		actions = append(actions, arena[id].action)
	}
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
	return Result[A]{Actions: actions, Cost: arena[goal].g}
}
