package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dump is a recorded engine state, as written by the engine's state exporter.
// It implements ExternalState so a planning session can run without a live engine.
type Dump struct {
	Width      int             `yaml:"x_extent"`
	Height     int             `yaml:"y_extent"`
	Units      []DumpUnit      `yaml:"units"`
	Resources  []DumpResource  `yaml:"resources"`
	Stockpiles []DumpStockpile `yaml:"stockpiles"`
}

type DumpUnit struct {
	ID          int    `yaml:"id"`
	Player      int    `yaml:"player"`
	Template    string `yaml:"template"`
	X           int    `yaml:"x"`
	Y           int    `yaml:"y"`
	Cargo       string `yaml:"cargo,omitempty"`
	CargoAmount int    `yaml:"cargo_amount,omitempty"`
}

type DumpResource struct {
	ID     int    `yaml:"id"`
	Type   string `yaml:"type"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Amount int    `yaml:"amount"`
}

type DumpStockpile struct {
	Player int `yaml:"player"`
	Gold   int `yaml:"gold"`
	Wood   int `yaml:"wood"`
}

// ParseDump decodes a YAML dump and checks that every enumerated name is known.
func ParseDump(raw []byte) (*Dump, error) {
	var d Dump
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decoding dump: %w", err)
	}
	for _, u := range d.Units {
		if _, err := ParseResource(u.Cargo); err != nil {
			return nil, fmt.Errorf("%w: unit %d: %w", ErrInvalidSnapshot, u.ID, err)
		}
	}
	for _, r := range d.Resources {
		if _, err := ParseNodeType(r.Type); err != nil {
			return nil, fmt.Errorf("%w: resource %d: %w", ErrInvalidSnapshot, r.ID, err)
		}
	}
	return &d, nil
}

func LoadDump(path string) (*Dump, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := ParseDump(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Marshal encodes the dump back to YAML.
func (d *Dump) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

func (d *Dump) XExtent() int { return d.Width }
func (d *Dump) YExtent() int { return d.Height }

func (d *Dump) AllUnits() []UnitView {
	out := make([]UnitView, 0, len(d.Units))
	for _, u := range d.Units {
		cargo, _ := ParseResource(u.Cargo)
		out = append(out, UnitView{
			ID:           u.ID,
			Player:       u.Player,
			TemplateName: u.Template,
			X:            u.X,
			Y:            u.Y,
			CargoType:    cargo,
			CargoAmount:  u.CargoAmount,
		})
	}
	return out
}

func (d *Dump) AllResourceNodes() []ResourceView {
	out := make([]ResourceView, 0, len(d.Resources))
	for _, r := range d.Resources {
		t, _ := ParseNodeType(r.Type)
		out = append(out, ResourceView{ID: r.ID, Type: t, X: r.X, Y: r.Y, AmountRemaining: r.Amount})
	}
	return out
}

func (d *Dump) ResourceAmount(player int, r Resource) int {
	for _, s := range d.Stockpiles {
		if s.Player != player {
			continue
		}
		switch r {
		case Gold:
			return s.Gold
		case Wood:
			return s.Wood
		}
	}
	return 0
}
