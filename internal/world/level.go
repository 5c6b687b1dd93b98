package world

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
)

const (
	// DefaultWidth and DefaultHeight match an 800x600 canvas of 40px cells.
	DefaultWidth  = 20
	DefaultHeight = 15

	// DefaultPowerUpDuration is the reveal effect length, in seconds, when a level sets none.
	DefaultPowerUpDuration = 15
)

// Level is the mutable set of tiles and triggers that make up one dungeon.
type Level struct {
	Name            string
	Width, Height   int
	PowerUpDuration float64 // seconds a vision effect lasts
	DarknessRadius  int     // 0 means fully lit
	Purpose         string
	HowTo           string
	Instructions    string

	Tiles    []*PlacedTile
	Triggers []*Trigger

	catalog         *gamedata.Catalog
	ids             IDGenerator
	playNeutralized mapset.Set[string]
}

// NewLevel creates an empty level.
func NewLevel(name string, width, height int, catalog *gamedata.Catalog, ids IDGenerator) *Level {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Level{
		Name:            name,
		Width:           width,
		Height:          height,
		PowerUpDuration: DefaultPowerUpDuration,
		catalog:         catalog,
		ids:             ids,
		playNeutralized: mapset.New[string](),
	}
}

// Catalog returns the tile catalog the level resolves kinds against.
func (l *Level) Catalog() *gamedata.Catalog {
	return l.catalog
}

// NewID returns a fresh identifier from the level's generator.
func (l *Level) NewID() string {
	return l.ids.NewID()
}

// InBounds returns true if the cell lies on the grid.
func (l *Level) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// Def returns the catalog entry for a placed tile.
func (l *Level) Def(t *PlacedTile) *gamedata.TileDef {
	return l.catalog.Get(t.Kind)
}

// HasTag reports whether the tile's kind carries a behavioral tag.
func (l *Level) HasTag(t *PlacedTile, tag string) bool {
	def := l.Def(t)
	return def != nil && def.HasTag(tag)
}

// TilesAt returns every tile whose footprint covers the cell, bottom layer first.
func (l *Level) TilesAt(x, y int) []*PlacedTile {
	var out []*PlacedTile
	for _, t := range l.Tiles {
		if t.Covers(x, y) {
			out = append(out, t)
		}
	}
	return out
}

// Find returns the tile with the given id, or nil.
func (l *Level) Find(id string) *PlacedTile {
	for _, t := range l.Tiles {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// KindAt returns the first active tile of a kind covering the cell, or nil.
func (l *Level) KindAt(x, y int, kind gamedata.TileKind) *PlacedTile {
	for _, t := range l.Tiles {
		if t.Kind == kind && t.Active() && t.Covers(x, y) {
			return t
		}
	}
	return nil
}

// TaggedAt returns the first active tile covering the cell whose kind carries the tag.
func (l *Level) TaggedAt(x, y int, tag string) *PlacedTile {
	for _, t := range l.Tiles {
		if t.Active() && t.Covers(x, y) && l.HasTag(t, tag) {
			return t
		}
	}
	return nil
}

// BaseTileAt returns the walkable floor tile (corridor or non-solid quad) at the cell, or nil.
func (l *Level) BaseTileAt(x, y int) *PlacedTile {
	for _, t := range l.Tiles {
		if !t.Covers(x, y) {
			continue
		}
		def := l.Def(t)
		if def != nil && def.IsBase() && !def.HasTag(gamedata.TagSolid) {
			return t
		}
	}
	return nil
}

// OfKind returns all tiles of the given kind in placement order.
func (l *Level) OfKind(kind gamedata.TileKind) []*PlacedTile {
	var out []*PlacedTile
	for _, t := range l.Tiles {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// InCategory returns all tiles whose kind belongs to the category.
func (l *Level) InCategory(cat gamedata.Category) []*PlacedTile {
	var out []*PlacedTile
	for _, t := range l.Tiles {
		if def := l.Def(t); def != nil && def.Category == cat {
			out = append(out, t)
		}
	}
	return out
}

// Entrance returns the cell of the first entrance tile, or the origin if there is none.
func (l *Level) Entrance() (int, int) {
	for _, t := range l.Tiles {
		if t.Kind == gamedata.KindEntrance {
			return t.X, t.Y
		}
	}
	return 0, 0
}

// PairedPortal returns the portal a traveller stepping onto (x, y) arrives at:
// the first other portal tile on the level.
func (l *Level) PairedPortal(x, y int) *PlacedTile {
	for _, t := range l.Tiles {
		if t.Kind == gamedata.KindPortal && (t.X != x || t.Y != y) {
			return t
		}
	}
	return nil
}

// TriggerAt returns the trigger registered at the cell, or nil.
func (l *Level) TriggerAt(x, y int) *Trigger {
	for _, tr := range l.Triggers {
		if tr.X == x && tr.Y == y {
			return tr
		}
	}
	return nil
}

// AddTile appends an already built tile, as done by level import.
func (l *Level) AddTile(t *PlacedTile) {
	l.Tiles = append(l.Tiles, t)
}

// AddTrigger appends an already built trigger.
func (l *Level) AddTrigger(tr *Trigger) {
	l.Triggers = append(l.Triggers, tr)
}

// RemoveTile deletes a tile and every trigger targeting it.
func (l *Level) RemoveTile(id string) bool {
	n := len(l.Tiles)
	l.Tiles = slices.DeleteFunc(l.Tiles, func(t *PlacedTile) bool { return t.ID == id })
	if len(l.Tiles) == n {
		return false
	}
	l.Triggers = slices.DeleteFunc(l.Triggers, func(tr *Trigger) bool { return tr.TargetID == id })
	return true
}

// RemoveKind deletes every tile of a kind and returns how many were removed.
func (l *Level) RemoveKind(kind gamedata.TileKind) int {
	removed := 0
	for _, t := range l.OfKind(kind) {
		if l.RemoveTile(t.ID) {
			removed++
		}
	}
	return removed
}

// RotateTile turns the tile with the given id 90 degrees clockwise.
func (l *Level) RotateTile(id string) bool {
	t := l.Find(id)
	if t == nil {
		return false
	}
	t.Rotate()
	return true
}

// Neutralize permanently disables a hazard or obstacle for the rest of the session.
func (l *Level) Neutralize(id string) {
	t := l.Find(id)
	if t == nil || t.Neutralized {
		return
	}
	t.Neutralized = true
	l.playNeutralized.Put(id)
}

// ShiftTile relocates a tile without occupancy checks (obstacles pushed during play).
func (l *Level) ShiftTile(id string, x, y int) bool {
	t := l.Find(id)
	if t == nil {
		return false
	}
	t.X, t.Y = x, y
	return true
}

// SpawnTile adds a runtime tile that disappears when play resets.
func (l *Level) SpawnTile(kind gamedata.TileKind, x, y int) *PlacedTile {
	size := 1
	if def := l.catalog.Get(kind); def != nil {
		size = def.Size
	}
	t := &PlacedTile{ID: l.ids.NewID(), Kind: kind, X: x, Y: y, Size: size, Spawned: true}
	l.Tiles = append(l.Tiles, t)
	return t
}

// ResetPlayState clears everything play mode changed on the tiles:
// collected markers, neutralized flags set during play and spawned tiles.
func (l *Level) ResetPlayState() {
	l.Tiles = slices.DeleteFunc(l.Tiles, func(t *PlacedTile) bool { return t.Spawned })
	for _, t := range l.Tiles {
		t.Collected = false
		if l.playNeutralized.Has(t.ID) {
			t.Neutralized = false
		}
	}
	l.playNeutralized = mapset.New[string]()
}

// Clear removes every tile and trigger.
func (l *Level) Clear() {
	l.Tiles = nil
	l.Triggers = nil
	l.playNeutralized = mapset.New[string]()
}
