package experiments

import (
	"fmt"

	"harvest/game"

	"golang.org/x/exp/rand"
)

// Scenario is a recorded engine state with a resource target for one player.
type Scenario struct {
	Name         string
	State        game.ExternalState
	Player       int
	RequiredGold int
	RequiredWood int
}

var builtinDumps = []struct {
	name       string
	gold, wood int
	dump       string
}{
	{
		name: "single_mine",
		gold: 200,
		dump: `
x_extent: 10
y_extent: 10
units:
  - {id: 1, player: 0, template: townhall, x: 0, y: 0}
  - {id: 2, player: 0, template: peasant, x: 0, y: 0}
resources:
  - {id: 10, type: GOLD_MINE, x: 3, y: 0, amount: 1000}
`,
	},
	{
		name: "loaded_worker",
		gold: 200,
		dump: `
x_extent: 10
y_extent: 10
units:
  - {id: 1, player: 0, template: townhall, x: 0, y: 0}
  - {id: 2, player: 0, template: peasant, x: 1, y: 0, cargo: GOLD, cargo_amount: 100}
resources:
  - {id: 10, type: GOLD_MINE, x: 2, y: 0, amount: 1000}
`,
	},
	{
		name: "forest_edge",
		gold: 300,
		wood: 200,
		dump: `
x_extent: 16
y_extent: 16
units:
  - {id: 1, player: 0, template: townhall, x: 4, y: 4}
  - {id: 2, player: 0, template: peasant, x: 5, y: 5}
  - {id: 3, player: 0, template: peasant, x: 3, y: 5}
  - {id: 4, player: 0, template: footman, x: 6, y: 6}
  - {id: 5, player: 1, template: townhall, x: 14, y: 14}
resources:
  - {id: 10, type: GOLD_MINE, x: 9, y: 4, amount: 5000}
  - {id: 11, type: TREE, x: 4, y: 10, amount: 400}
  - {id: 12, type: TREE, x: 1, y: 1, amount: 100}
stockpiles:
  - {player: 0, gold: 100, wood: 0}
`,
	},
}

// BuiltinScenarios returns the hand-written maps.
func BuiltinScenarios() ([]Scenario, error) {
	scenarios := make([]Scenario, 0, len(builtinDumps))
	for _, b := range builtinDumps {
		dump, err := game.ParseDump([]byte(b.dump))
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", b.name, err)
		}
		scenarios = append(scenarios, Scenario{Name: b.name, State: dump, RequiredGold: b.gold, RequiredWood: b.wood})
	}
	return scenarios, nil
}

// RandomScenarios generates n maps from seed. The same seed always yields the same maps.
func RandomScenarios(seed uint64, n int) []Scenario {
	r := rand.New(rand.NewSource(seed))
	scenarios := make([]Scenario, 0, n)
	for i := 0; i < n; i++ {
		dump := randomDump(r)
		scenarios = append(scenarios, Scenario{
			Name:         fmt.Sprintf("random_%03d", i),
			State:        dump,
			RequiredGold: 100 * r.Intn(4),
			RequiredWood: 100 * r.Intn(3),
		})
	}
	return scenarios
}

func randomDump(r *rand.Rand) *game.Dump {
	width, height := 8+r.Intn(9), 8+r.Intn(9)
	// Occupied tiles are skipped so no two units or nodes share a tile.
	taken := map[game.Position]bool{}
	tile := func() game.Position {
		for {
			p := game.Position{X: r.Intn(width), Y: r.Intn(height)}
			if !taken[p] {
				taken[p] = true
				return p
			}
		}
	}

	d := &game.Dump{Width: width, Height: height}
	depot := tile()
	d.Units = append(d.Units, game.DumpUnit{ID: 1, Template: "townhall", X: depot.X, Y: depot.Y})
	workers := 1 + r.Intn(3)
	for i := 0; i < workers; i++ {
		p := tile()
		d.Units = append(d.Units, game.DumpUnit{ID: 2 + i, Template: "peasant", X: p.X, Y: p.Y})
	}

	nodes := 2 + r.Intn(3)
	for i := 0; i < nodes; i++ {
		p := tile()
		kind := "GOLD_MINE"
		if i%2 == 1 {
			kind = "TREE"
		}
		d.Resources = append(d.Resources, game.DumpResource{ID: 100 + i, Type: kind, X: p.X, Y: p.Y, Amount: 100 * (1 + r.Intn(5))})
	}
	d.Stockpiles = []game.DumpStockpile{{Player: 0, Gold: 100 * r.Intn(5)}}
	return d
}
