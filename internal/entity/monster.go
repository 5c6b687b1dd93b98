package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

// Monster is a live hostile actor materialized from a monster tile.
type Monster struct {
	ID     string            // Id of the tile it was spawned from
	Def    *gamedata.TileDef // Catalog entry of its kind
	Kind   gamedata.TileKind // orc, teeth or spider
	X, Y   int               // Current cell
	Symbol rune              // Display symbol
}

// NewMonster creates a monster standing on its authored tile.
func NewMonster(t *world.PlacedTile, def *gamedata.TileDef) *Monster {
	m := &Monster{
		ID:     t.ID,
		Def:    def,
		Kind:   t.Kind,
		X:      t.X,
		Y:      t.Y,
		Symbol: '?',
	}
	if def != nil {
		m.Symbol = def.GlyphRune()
	}
	return m
}

// SpawnMonsters materializes every monster tile on the level at its authored position.
func SpawnMonsters(l *world.Level) []*Monster {
	var out []*Monster
	for _, t := range l.InCategory(gamedata.CategoryMonster) {
		out = append(out, NewMonster(t, l.Def(t)))
	}
	return out
}

// Position returns the monster's current x, y coordinates.
func (m *Monster) Position() (int, int) {
	return m.X, m.Y
}

// MoveTo places the monster on a cell.
func (m *Monster) MoveTo(x, y int) {
	m.X, m.Y = x, y
}

// Color returns the tcell color for this monster.
func (m *Monster) Color() tcell.Color {
	if m.Def != nil {
		return m.Def.TCellColor()
	}
	return tcell.ColorPurple
}

// IsOrc reports whether the monster follows the orc rules (hazard avoidance, pushing, portals).
func (m *Monster) IsOrc() bool {
	return m.Kind == gamedata.KindOrc
}

// Jumpable reports whether a jumping player can pass over this monster.
func (m *Monster) Jumpable() bool {
	return m.Def != nil && m.Def.HasTag(gamedata.TagJumpable)
}

// Weaver reports whether the monster leaves webs behind and moves at half cadence.
func (m *Monster) Weaver() bool {
	return m.Def != nil && m.Def.HasTag(gamedata.TagWeaver)
}

// At reports whether the monster stands on the cell.
func (m *Monster) At(x, y int) bool {
	return m.X == x && m.Y == y
}
