package rules

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

// OpenDirections returns the directions the player at (x, y) could step in.
// Walls, solid tiles and live hazards close a direction. Jump and slide
// obstacles and swerves do not, since the player can always jump, slide or
// counter-steer past them.
func (w *World) OpenDirections(x, y int) mapset.Set[world.Direction] {
	open := mapset.New[world.Direction]()
	for _, d := range world.Directions {
		dx, dy := d.Delta()
		nx, ny := x+dx, y+dy
		if !w.Level.InBounds(nx, ny) || !w.Level.CanCross(x, y, d) {
			continue
		}
		if w.solidAt(nx, ny) || w.lethalAt(nx, ny) != nil {
			continue
		}
		open.Put(d)
	}
	return open
}

// Trapped reports whether the player at (x, y) has no open direction while
// the level's portals, the only other way out, are out of sight.
func (w *World) Trapped(x, y int) bool {
	if w.OpenDirections(x, y).Size() > 0 {
		return false
	}
	if len(w.Level.OfKind(gamedata.KindPortal)) == 0 {
		return false
	}
	return !w.Effects.PortalSight()
}
