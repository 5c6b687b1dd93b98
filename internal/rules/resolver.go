package rules

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/dungeonbuilder/internal/config"
	"github.com/samdwyer/dungeonbuilder/internal/entity"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

// MoveResult is the outcome of one player move.
type MoveResult struct {
	X, Y       int // Resting cell
	Advanced   int // Cells committed, a teleport counts as one
	Effects    []SideEffect
	Died       bool
	Won        bool
	Teleported bool
}

// swerveKey is a swerve obstacle's rotation seen from a direction of travel.
type swerveKey struct {
	dir      world.Direction
	rotation int
}

// counterSteer maps a swerve approach to the direction that must be held to
// slip past it. Approaches not listed are open.
var counterSteer = map[swerveKey]world.Direction{
	{world.Down, 180}:  world.Left,
	{world.Down, 270}:  world.Right,
	{world.Up, 0}:      world.Right,
	{world.Up, 90}:     world.Left,
	{world.Right, 90}:  world.Down,
	{world.Right, 180}: world.Up,
	{world.Left, 0}:    world.Down,
	{world.Left, 270}:  world.Up,
}

// swerveBlocked reports whether a live swerve obstacle on the cell stops the player.
func (w *World) swerveBlocked(x, y int, dir world.Direction, jumping bool) bool {
	if jumping {
		return false
	}
	for _, t := range w.Level.TilesAt(x, y) {
		if t.Kind != gamedata.KindSwerve || t.Neutralized {
			continue
		}
		need, ok := counterSteer[swerveKey{dir, t.Rotation}]
		if ok && !w.held(need) {
			return true
		}
	}
	return false
}

// MovePlayer walks the player up to steps cells in dir.
//
// Each cell is checked in turn: grid bounds, monsters, webs, walls, then the
// landing checks (swerve obstacles, lethal terrain, jump and slide obstacles,
// the exit) which only apply to the final cell so a dash can clear a hazard.
// Solid tiles block on every cell. Pickups, portals and triggers fire on every
// committed cell. Resolution stops at the first block, death, teleport or win.
func (w *World) MovePlayer(p *entity.Player, dir world.Direction, steps int, hasArtefact bool) MoveResult {
	res := MoveResult{X: p.X, Y: p.Y}
	dx, dy := dir.Delta()
	steps = max(1, steps)

	collected := mapset.New[string]()
	portalSight := w.Effects.PortalSight()
	webbed := false

	for i := 0; i < steps; i++ {
		nx, ny := res.X+dx, res.Y+dy
		if !w.Level.InBounds(nx, ny) {
			break
		}

		if m := w.MonsterAt(nx, ny); m != nil && !(p.Jumping() && m.Jumpable()) {
			res.X, res.Y = nx, ny
			res.Advanced++
			res.Died = true
			res.Effects = append(res.Effects, SideEffect{Op: OpDeath, Cause: CauseMonster})
			return res
		}

		if web := w.Level.TaggedAt(nx, ny, gamedata.TagSticky); web != nil && !webbed {
			webbed = true
			steps = max(i+1, steps/2)
			res.Effects = append(res.Effects,
				SideEffect{Op: OpRemoveTile, TileID: web.ID},
				SideEffect{Op: OpGrant, Effect: WebSlow, Duration: w.Rules.Effects.WebSlow},
			)
		}

		if !w.Level.CanCross(res.X, res.Y, dir) {
			break
		}

		final := i == steps-1
		if final {
			if w.swerveBlocked(nx, ny, dir, p.Jumping()) {
				break
			}
			if w.lethalAt(nx, ny) != nil {
				res.X, res.Y = nx, ny
				res.Advanced++
				res.Died = true
				res.Effects = append(res.Effects, SideEffect{Op: OpDeath, Cause: CauseHazard})
				return res
			}
		}

		if w.solidAt(nx, ny) {
			break
		}
		if final {
			if w.obstacleAt(nx, ny, gamedata.KindHalfHeight) != nil && !p.Jumping() {
				break
			}
			if w.obstacleAt(nx, ny, gamedata.KindAbove) != nil && !p.Sliding() {
				break
			}
		}

		for _, t := range w.Level.TilesAt(nx, ny) {
			if t.Collected || collected.Has(t.ID) || !w.Level.HasTag(t, gamedata.TagPickup) {
				continue
			}
			collected.Put(t.ID)
			res.Effects = append(res.Effects, SideEffect{Op: OpCollect, TileID: t.ID})
			res.Effects = append(res.Effects, pickup(t.Kind, w.Level, w.Rules)...)
			switch t.Kind {
			case gamedata.KindArtefact:
				hasArtefact = true
			case gamedata.KindMushroom, gamedata.KindThirdEye:
				portalSight = true
			}
		}

		if portalSight && w.Level.KindAt(nx, ny, gamedata.KindPortal) != nil {
			if other := w.Level.PairedPortal(nx, ny); other != nil {
				res.X, res.Y = other.X, other.Y
				res.Advanced++
				res.Teleported = true
				return res
			}
		}

		if final && hasArtefact && w.Level.KindAt(nx, ny, gamedata.KindExit) != nil {
			res.X, res.Y = nx, ny
			res.Advanced++
			res.Won = true
			res.Effects = append(res.Effects, SideEffect{Op: OpWin})
			return res
		}

		res.Effects = append(res.Effects, w.triggerAt(nx, ny)...)

		res.X, res.Y = nx, ny
		res.Advanced++
	}
	return res
}

// pickup returns the effect of collecting a pickup of the given kind.
func pickup(kind gamedata.TileKind, l *world.Level, rules config.Rules) []SideEffect {
	vision := config.PowerUpDuration(l.PowerUpDuration)
	switch kind {
	case gamedata.KindArtefact:
		return []SideEffect{{Op: OpArtefact}}
	case gamedata.KindMushroom:
		return []SideEffect{{Op: OpGrant, Effect: VisionReveal, Duration: vision}}
	case gamedata.KindThirdEye:
		return []SideEffect{{Op: OpGrant, Effect: ThirdEye, Duration: vision}}
	case gamedata.KindPotion:
		return []SideEffect{{Op: OpHeal, Amount: rules.Play.HealthPotion}}
	case gamedata.KindFirefly:
		return []SideEffect{{Op: OpGrant, Effect: Light, Duration: rules.Effects.Light}}
	case gamedata.KindMagicTile:
		return []SideEffect{{Op: OpGrant, Effect: Speed, Duration: rules.Effects.Speed}}
	case gamedata.KindTrampoline:
		return []SideEffect{{Op: OpGrant, Effect: Jump, Duration: rules.Effects.Jump}}
	case gamedata.KindLever:
		return []SideEffect{{Op: OpGrant, Effect: MonsterSlow, Duration: rules.Effects.MonsterSlow}}
	}
	return nil
}
