package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const smallDump = `
x_extent: 10
y_extent: 10
units:
  - {id: 1, player: 0, template: TownHall, x: 0, y: 0}
  - {id: 2, player: 0, template: Peasant, x: 1, y: 1, cargo: gold, cargo_amount: 50}
  - {id: 3, player: 0, template: Peasant, x: 2, y: 1}
  - {id: 4, player: 0, template: Footman, x: 5, y: 5}
  - {id: 9, player: 1, template: TownHall, x: 9, y: 9}
resources:
  - {id: 11, type: TREE, x: 7, y: 2, amount: 400}
  - {id: 10, type: GOLD_MINE, x: 3, y: 0, amount: 1000}
stockpiles:
  - {player: 0, gold: 120, wood: 30}
  - {player: 1, gold: 5, wood: 5}
`

func TestBuildSnapshot(t *testing.T) {
	t.Run("classifying units and reading stockpiles", func(t *testing.T) {
		dump, err := ParseDump([]byte(smallDump))
		require.NoError(t, err)

		s, err := BuildSnapshot(dump, 0)

		require.NoError(t, err)
		require.Equal(t, 10, s.XExtent)
		require.Equal(t, &Depot{ID: 1, Position: Position{0, 0}}, s.Depot, "Town hall should become the depot")
		require.Equal(t, []Worker{
			{ID: 2, Position: Position{1, 1}, Cargo: Gold, CargoAmount: 50},
			{ID: 3, Position: Position{2, 1}},
		}, s.Workers, "Only peasants of the player should become workers")
		require.Equal(t, 10, s.Nodes[0].ID, "Nodes should be sorted by id")
		require.Equal(t, Gold, s.Nodes[0].Kind)
		require.Equal(t, Wood, s.Nodes[1].Kind)
		require.Equal(t, 120, s.Gold)
		require.Equal(t, 30, s.Wood)
		require.Equal(t, 1000, s.Available(Gold))
	})

	t.Run("failing without a depot", func(t *testing.T) {
		dump := &Dump{
			Width:  4,
			Height: 4,
			Units:  []DumpUnit{{ID: 1, Template: "peasant"}},
		}

		_, err := BuildSnapshot(dump, 0)

		require.ErrorIs(t, err, ErrMissingDepot, "A depot is required")
	})

	t.Run("failing with two depots", func(t *testing.T) {
		dump := &Dump{
			Width:  4,
			Height: 4,
			Units: []DumpUnit{
				{ID: 1, Template: "townhall"},
				{ID: 2, Template: "townhall", X: 3, Y: 3},
			},
		}

		_, err := BuildSnapshot(dump, 0)

		require.ErrorIs(t, err, ErrMultipleDepots)
	})

	t.Run("rejecting negative resource amounts", func(t *testing.T) {
		dump := &Dump{
			Width:     4,
			Height:    4,
			Units:     []DumpUnit{{ID: 1, Template: "townhall"}},
			Resources: []DumpResource{{ID: 2, Type: "TREE", X: 1, Y: 1, Amount: -5}},
		}

		_, err := BuildSnapshot(dump, 0)

		require.ErrorIs(t, err, ErrInvalidSnapshot)
	})

	t.Run("rejecting out of bounds workers", func(t *testing.T) {
		dump := &Dump{
			Width:  4,
			Height: 4,
			Units: []DumpUnit{
				{ID: 1, Template: "townhall"},
				{ID: 2, Template: "peasant", X: 4, Y: 0},
			},
		}

		_, err := BuildSnapshot(dump, 0)

		require.ErrorIs(t, err, ErrInvalidSnapshot)
	})
}

func TestParseDump(t *testing.T) {
	t.Run("rejecting unknown node types", func(t *testing.T) {
		_, err := ParseDump([]byte("resources:\n  - {id: 1, type: STONE}\n"))

		require.ErrorIs(t, err, ErrInvalidSnapshot)
	})

	t.Run("round trip through yaml", func(t *testing.T) {
		dump, err := ParseDump([]byte(smallDump))
		require.NoError(t, err)

		raw, err := dump.Marshal()
		require.NoError(t, err)
		again, err := ParseDump(raw)

		require.NoError(t, err)
		require.Equal(t, dump, again)
	})
}

func TestClassifyTemplate(t *testing.T) {
	require.Equal(t, DepotUnit, ClassifyTemplate("TownHall"))
	require.Equal(t, WorkerUnit, ClassifyTemplate(" peasant "))
	require.Equal(t, OtherUnit, ClassifyTemplate("footman"))
}

func TestPosition(t *testing.T) {
	p := Position{2, 2}
	require.True(t, p.Adjacent(Position{3, 3}))
	require.True(t, p.Adjacent(p), "A tile is adjacent to itself")
	require.False(t, p.Adjacent(Position{4, 2}))
	require.Len(t, p.Neighbors(), 8)
	require.Equal(t, Position{1, 1}, p.Neighbors()[0], "Neighbors should start at the lowest row")
	require.False(t, Position{-1, 0}.In(3, 3))
}
