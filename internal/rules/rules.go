// Package rules resolves movement, monster turns, timed effects and the trapped
// check for a level in play. Resolution never mutates the level: it reports the
// state changes to make as a list of side effects for the session to apply.
package rules

import (
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/dungeonbuilder/internal/config"
	"github.com/samdwyer/dungeonbuilder/internal/entity"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

// Op identifies the kind of state change a side effect asks for.
type Op int

const (
	OpCollect    Op = iota // mark TileID collected
	OpGrant                // start Effect for Duration
	OpHeal                 // add Amount health
	OpArtefact             // the artefact is now held
	OpRotate               // rotate TileID by 90 degrees
	OpRemoveTile           // delete TileID from the level
	OpDeath                // the player dies of Cause
	OpWin                  // the level is won
	OpPush                 // move TileID to (X, Y)
	OpNeutralize           // disable TileID for the session
	OpSpawnWeb             // leave a web at (X, Y)
)

var opNames = [...]string{
	OpCollect:    "collect",
	OpGrant:      "grant",
	OpHeal:       "heal",
	OpArtefact:   "artefact",
	OpRotate:     "rotate",
	OpRemoveTile: "remove",
	OpDeath:      "death",
	OpWin:        "win",
	OpPush:       "push",
	OpNeutralize: "neutralize",
	OpSpawnWeb:   "spawn-web",
}

// String returns a short op name.
func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Cause says what killed the player.
type Cause int

const (
	CauseHazard  Cause = iota // lava or water
	CauseMonster              // caught by a monster
	CauseTrapped              // stuck with no way out
)

// String returns a human-readable cause.
func (c Cause) String() string {
	switch c {
	case CauseHazard:
		return "hazard"
	case CauseMonster:
		return "monster"
	case CauseTrapped:
		return "trapped"
	default:
		return "unknown"
	}
}

// SideEffect is one state change produced by resolution.
// Only the fields relevant to Op are set.
type SideEffect struct {
	Op       Op
	TileID   string
	Effect   EffectKind
	Duration time.Duration
	Amount   int
	Cause    Cause
	X, Y     int
}

// World is what resolution reads: the level, the live monsters, the player's
// active effects and the directions currently held for counter-steering.
type World struct {
	Level    *world.Level
	Monsters []*entity.Monster
	Effects  *Effects
	Held     mapset.Set[world.Direction]
	Rules    config.Rules
}

// MonsterAt returns the live monster standing on the cell, or nil.
func (w *World) MonsterAt(x, y int) *entity.Monster {
	for _, m := range w.Monsters {
		if m.At(x, y) {
			return m
		}
	}
	return nil
}

// lethalAt returns the live hazard on the cell, or nil when there is none or a
// bridge spans it.
func (w *World) lethalAt(x, y int) *world.PlacedTile {
	var hazard *world.PlacedTile
	for _, t := range w.Level.TilesAt(x, y) {
		if w.Level.HasTag(t, gamedata.TagSpan) {
			return nil
		}
		if hazard == nil && !t.Neutralized && w.Level.HasTag(t, gamedata.TagLethal) {
			hazard = t
		}
	}
	return hazard
}

// solidAt reports whether a column, tree or other solid tile fills the cell.
func (w *World) solidAt(x, y int) bool {
	return w.Level.TaggedAt(x, y, gamedata.TagSolid) != nil
}

// obstacleAt returns the first live tile of kind on the cell, or nil.
func (w *World) obstacleAt(x, y int, kind gamedata.TileKind) *world.PlacedTile {
	t := w.Level.KindAt(x, y, kind)
	if t == nil || t.Neutralized {
		return nil
	}
	return t
}

func (w *World) held(d world.Direction) bool {
	return w.Held.Has(d)
}
