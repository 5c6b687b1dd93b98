package rules

import (
	"github.com/samdwyer/dungeonbuilder/internal/entity"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

// MonsterMove is the outcome of one monster's turn.
type MonsterMove struct {
	X, Y    int
	Moved   bool
	Caught  bool // the monster ends its turn on the player
	Effects []SideEffect
}

// Acts reports whether the monster takes a turn on the given AI tick.
// Weavers move on even ticks only.
func Acts(m *entity.Monster, tick int) bool {
	return !m.Weaver() || tick%2 == 0
}

// StepMonster moves a monster one cell toward the player at (px, py).
//
// The axis with the larger distance is tried first, the other axis second.
// This is greedy pursuit, so a monster can stay stuck behind a wall.
func (w *World) StepMonster(m *entity.Monster, px, py int) MonsterMove {
	mv := MonsterMove{X: m.X, Y: m.Y}
	dx, dy := px-m.X, py-m.Y

	var first, second world.Direction
	var hasFirst, hasSecond bool
	if abs(dx) > abs(dy) {
		first, hasFirst = world.DirectionFromDelta(sign(dx), 0)
		second, hasSecond = world.DirectionFromDelta(0, sign(dy))
	} else {
		first, hasFirst = world.DirectionFromDelta(0, sign(dy))
		second, hasSecond = world.DirectionFromDelta(sign(dx), 0)
	}

	moved := hasFirst && w.tryMonsterStep(m, first, &mv)
	if !moved && hasSecond {
		moved = w.tryMonsterStep(m, second, &mv)
	}
	mv.Moved = moved

	if moved && m.Weaver() && w.Level.KindAt(m.X, m.Y, gamedata.KindWeb) == nil {
		mv.Effects = append(mv.Effects, SideEffect{Op: OpSpawnWeb, X: m.X, Y: m.Y})
	}
	mv.Caught = mv.X == px && mv.Y == py
	if mv.Caught {
		mv.Effects = append(mv.Effects, SideEffect{Op: OpDeath, Cause: CauseMonster})
	}
	return mv
}

// tryMonsterStep checks one cell of monster movement and records it in mv on success.
func (w *World) tryMonsterStep(m *entity.Monster, dir world.Direction, mv *MonsterMove) bool {
	sx, sy := dir.Delta()
	nx, ny := m.X+sx, m.Y+sy
	l := w.Level

	if !l.InBounds(nx, ny) || l.BaseTileAt(nx, ny) == nil {
		return false
	}
	if !l.CanCross(m.X, m.Y, dir) || w.solidAt(nx, ny) {
		return false
	}

	if !m.IsOrc() {
		mv.X, mv.Y = nx, ny
		mv.Effects = append(mv.Effects, w.triggerAt(nx, ny)...)
		return true
	}

	if w.lethalAt(nx, ny) != nil ||
		w.obstacleAt(nx, ny, gamedata.KindHalfHeight) != nil ||
		w.obstacleAt(nx, ny, gamedata.KindAbove) != nil {
		return false
	}

	var effects []SideEffect
	if swerve := w.obstacleAt(nx, ny, gamedata.KindSwerve); swerve != nil {
		push, ok := w.push(swerve, sx, sy)
		if !ok {
			return false
		}
		effects = push
	}

	effects = append(effects, w.triggerAt(nx, ny)...)

	if w.Effects.Active(VisionReveal) && l.KindAt(nx, ny, gamedata.KindPortal) != nil {
		if other := l.PairedPortal(nx, ny); other != nil {
			nx, ny = other.X, other.Y
		}
	}

	mv.X, mv.Y = nx, ny
	mv.Effects = append(mv.Effects, effects...)
	return true
}

// triggerAt fires the trigger on an entered cell, if there is one.
func (w *World) triggerAt(x, y int) []SideEffect {
	if tr := w.Level.TriggerAt(x, y); tr != nil {
		return []SideEffect{{Op: OpRotate, TileID: tr.TargetID}}
	}
	return nil
}

// push shoves a swerve obstacle one cell along (sx, sy). Into lava or water it
// falls in and both tiles are neutralized; otherwise the target cell needs
// floor and no other swerve obstacle or solid tile.
func (w *World) push(swerve *world.PlacedTile, sx, sy int) ([]SideEffect, bool) {
	tx, ty := swerve.X+sx, swerve.Y+sy
	l := w.Level
	if !l.InBounds(tx, ty) {
		return nil, false
	}

	moveIt := SideEffect{Op: OpPush, TileID: swerve.ID, X: tx, Y: ty}
	if hazard := w.lethalAt(tx, ty); hazard != nil {
		return []SideEffect{
			moveIt,
			{Op: OpNeutralize, TileID: swerve.ID},
			{Op: OpNeutralize, TileID: hazard.ID},
		}, true
	}

	if l.BaseTileAt(tx, ty) == nil || w.solidAt(tx, ty) || w.obstacleAt(tx, ty, gamedata.KindSwerve) != nil {
		return nil, false
	}
	return []SideEffect{moveIt}, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
