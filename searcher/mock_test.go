package searcher

import "fmt"

type edge struct {
	to   string
	cost int
}

// mockGraph is a weighted directed graph with per-node heuristic values.
type mockGraph struct {
	edges map[string][]edge
	h     map[string]int
	goals map[string]bool
}

type mockState struct {
	graph *mockGraph
	name  string
}

func (g *mockGraph) state(name string) mockState {
	return mockState{graph: g, name: name}
}

func (m mockState) IsGoal() bool {
	return m.graph.goals[m.name]
}

func (m mockState) Identity() string {
	return m.name
}

func (m mockState) Heuristic() int {
	return m.graph.h[m.name]
}

func (m mockState) Children() []Child[string] {
	var children []Child[string]
	for _, e := range m.graph.edges[m.name] {
		children = append(children, Child[string]{
			State:  m.graph.state(e.to),
			Action: fmt.Sprintf("%s->%s", m.name, e.to),
			Cost:   e.cost,
		})
	}
	return children
}

// counterState is an infinite chain: every state has one successor.
type counterState int

func (c counterState) IsGoal() bool     { return false }
func (c counterState) Identity() string { return fmt.Sprint(int(c)) }
func (c counterState) Heuristic() int   { return 0 }
func (c counterState) Children() []Child[int] {
	return []Child[int]{{State: c + 1, Action: int(c), Cost: 1}}
}
