package world

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
)

var (
	ErrOutOfBounds = errors.New("footprint outside the grid")
	ErrOccupied    = errors.New("footprint occupied")
	ErrUnknownKind = errors.New("unknown tile kind")
	ErrNotFound    = errors.New("not found")
)

// PlaceTile puts a tile of the given kind with its top-left cell at (x, y).
//
// Placing a kind onto an origin that already holds that kind rotates the existing
// tile instead. Layer tiles always stack. A base tile whose footprint overlaps
// other base tiles replaces the one anchored exactly at (x, y) if that is the only
// overlap; otherwise the placement fails with ErrOccupied. Rotating quads get a
// trigger two cells to their right.
func (l *Level) PlaceTile(kind gamedata.TileKind, x, y, rotation int) (*PlacedTile, error) {
	def := l.catalog.Get(kind)
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	fp := Rect{X: x, Y: y, Width: def.Size, Height: def.Size}
	if !l.fits(fp) {
		return nil, fmt.Errorf("placing %s at (%d,%d): %w", kind, x, y, ErrOutOfBounds)
	}

	for _, t := range l.Tiles {
		if t.Kind == kind && t.X == x && t.Y == y {
			t.Rotate()
			return t, nil
		}
	}

	if def.IsBase() {
		var replace *PlacedTile
		for _, t := range l.Tiles {
			other := l.Def(t)
			if other == nil || !other.IsBase() || !t.Footprint().Intersects(fp) {
				continue
			}
			if t.X != x || t.Y != y || replace != nil {
				return nil, fmt.Errorf("placing %s at (%d,%d): %w", kind, x, y, ErrOccupied)
			}
			replace = t
		}
		if replace != nil {
			l.RemoveTile(replace.ID)
		}
	}

	t := &PlacedTile{
		ID:       l.ids.NewID(),
		Kind:     kind,
		X:        x,
		Y:        y,
		Rotation: NormalizeRotation(rotation),
		Size:     def.Size,
	}
	l.Tiles = append(l.Tiles, t)

	if def.HasTag(gamedata.TagRotating) && def.Size == 2 {
		tx := x + 2
		if tx >= l.Width {
			tx = x - 1
		}
		if l.InBounds(tx, y) {
			l.Triggers = append(l.Triggers, &Trigger{ID: l.ids.NewID(), TargetID: t.ID, X: tx, Y: y})
		}
	}
	return t, nil
}

// DeleteTileAt removes the top-most tile covering the cell, the triggers targeting
// it and any trigger placed on the cell.
func (l *Level) DeleteTileAt(x, y int) error {
	var top *PlacedTile
	for _, t := range l.Tiles {
		if t.Covers(x, y) {
			top = t
		}
	}

	n := len(l.Triggers)
	l.Triggers = slices.DeleteFunc(l.Triggers, func(tr *Trigger) bool { return tr.X == x && tr.Y == y })

	if top == nil {
		if len(l.Triggers) < n {
			return nil
		}
		return fmt.Errorf("deleting at (%d,%d): %w", x, y, ErrNotFound)
	}
	l.RemoveTile(top.ID)
	return nil
}

// RotateTileAt turns the top-most tile covering the cell 90 degrees clockwise.
func (l *Level) RotateTileAt(x, y int) error {
	var top *PlacedTile
	for _, t := range l.Tiles {
		if t.Covers(x, y) {
			top = t
		}
	}
	if top == nil {
		return fmt.Errorf("rotating at (%d,%d): %w", x, y, ErrNotFound)
	}
	top.Rotate()
	return nil
}

// MoveTile relocates a tile. The new footprint must be on the grid and must not
// overlap any other tile.
func (l *Level) MoveTile(id string, x, y int) error {
	t := l.Find(id)
	if t == nil {
		return fmt.Errorf("moving tile %s: %w", id, ErrNotFound)
	}
	fp := Rect{X: x, Y: y, Width: t.Size, Height: t.Size}
	if !l.fits(fp) {
		return fmt.Errorf("moving tile %s to (%d,%d): %w", id, x, y, ErrOutOfBounds)
	}
	for _, other := range l.Tiles {
		if other != t && other.Footprint().Intersects(fp) {
			return fmt.Errorf("moving tile %s to (%d,%d): %w", id, x, y, ErrOccupied)
		}
	}
	t.X, t.Y = x, y
	return nil
}

// MoveTrigger relocates a trigger to another cell on the grid.
func (l *Level) MoveTrigger(id string, x, y int) error {
	if !l.InBounds(x, y) {
		return fmt.Errorf("moving trigger %s to (%d,%d): %w", id, x, y, ErrOutOfBounds)
	}
	for _, tr := range l.Triggers {
		if tr.ID == id {
			tr.X, tr.Y = x, y
			return nil
		}
	}
	return fmt.Errorf("moving trigger %s: %w", id, ErrNotFound)
}

func (l *Level) fits(r Rect) bool {
	return l.InBounds(r.X, r.Y) && l.InBounds(r.X+r.Width-1, r.Y+r.Height-1)
}
