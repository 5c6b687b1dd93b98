// Package world provides the level model: placed tiles, triggers and the wall rules between cells.
package world

import "github.com/samdwyer/dungeonbuilder/internal/gamedata"

// PlacedTile is one tile instance on the level grid.
type PlacedTile struct {
	ID       string
	Kind     gamedata.TileKind
	X, Y     int // Top-left cell for multi-cell tiles
	Rotation int // 0, 90, 180 or 270
	Size     int // Footprint side, copied from the catalog at placement time

	Neutralized bool   // Hazard or obstacle disabled by a game event
	Collected   bool   // Pickup consumed during play; hidden from rendering
	Clue        string // Free-text annotation, cosmetic
	Spawned     bool   // Created during play (webs); removed when play resets
}

// Footprint returns the cells the tile covers.
func (t *PlacedTile) Footprint() Rect {
	return Rect{X: t.X, Y: t.Y, Width: t.Size, Height: t.Size}
}

// Covers returns true if the tile's footprint includes the cell.
func (t *PlacedTile) Covers(x, y int) bool {
	return t.Footprint().Contains(x, y)
}

// Rotate turns the tile 90 degrees clockwise.
func (t *PlacedTile) Rotate() {
	t.Rotation = NormalizeRotation(t.Rotation + 90)
}

// Active returns true if the tile still takes part in play.
func (t *PlacedTile) Active() bool {
	return !t.Collected
}

// Trigger rotates its target tile when any actor enters its cell.
type Trigger struct {
	ID       string
	TargetID string
	X, Y     int
}
