package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonbuilder/internal/config"
	"github.com/samdwyer/dungeonbuilder/internal/entity"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/levelio"
	"github.com/samdwyer/dungeonbuilder/internal/rules"
	"github.com/samdwyer/dungeonbuilder/internal/telemetry"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

// ErrWrongMode is returned by commands issued in a mode that does not accept them.
var ErrWrongMode = errors.New("command not allowed in this mode")

// DefaultLevelName names a fresh or cleared level.
const DefaultLevelName = "My Dungeon"

// Scheduler task and timer names.
const (
	taskEffects  = "effects"
	taskMonsters = "monsters"
	taskTrapped  = "trapped"
	taskFlash    = "flash"
	taskAutoRun  = "autorun"
	timerRespawn = "respawn"
	timerJump    = "jump-action"
)

// Session owns one level and everything that happens to it in build and play mode.
// It is not safe for concurrent use; the caller serializes commands and Advance.
type Session struct {
	rules   config.Rules
	catalog *gamedata.Catalog
	ids     world.IDGenerator
	log     *slog.Logger

	level    *world.Level
	mode     Mode
	player   *entity.Player
	monsters []*entity.Monster
	effects  *rules.Effects
	held     mapset.Set[world.Direction]
	state    SessionState
	sched    *Scheduler

	aiTick      int
	webPresses  int
	flashTick   int
	portalsGone bool
	deathCause  rules.Cause
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithIDs sets the id generator for new tiles, triggers and webs.
func WithIDs(ids world.IDGenerator) Option {
	return func(s *Session) { s.ids = ids }
}

// NewSession creates a session in build mode holding an empty level.
func NewSession(r config.Rules, catalog *gamedata.Catalog, opts ...Option) *Session {
	s := &Session{
		rules:   r,
		catalog: catalog,
		log:     slog.Default(),
		effects: rules.NewEffects(),
		held:    mapset.New[world.Direction](),
		sched:   NewScheduler(),
		state:   SessionState{Health: r.Play.MaxHealth},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = world.UUIDGenerator{}
	}
	s.level = s.newLevel()
	s.player = entity.NewPlayer(s.level.Entrance())
	s.registerTasks()
	return s
}

func (s *Session) newLevel() *world.Level {
	l := world.NewLevel(DefaultLevelName, s.rules.Grid.Width, s.rules.Grid.Height, s.catalog, s.ids)
	l.PowerUpDuration = s.rules.Play.DefaultPowerUpDuration
	return l
}

func (s *Session) registerTasks() {
	t := s.rules.Timing
	s.sched.Every(taskEffects, fixed(t.EffectTick), s.playing, s.tickEffects)
	s.sched.Every(taskMonsters, s.monsterInterval, s.live, s.tickMonsters)
	s.sched.Every(taskTrapped, fixed(t.TrappedTick), s.live, s.tickTrapped)
	s.sched.Every(taskFlash, fixed(t.FlashTick), s.flashing, s.tickFlash)
	s.sched.Every(taskAutoRun, fixed(t.AutoRun), s.autoRunning, s.tickAutoRun)
}

// =============================================================================
// Read-only view
// =============================================================================

// Level returns the level being edited or played.
func (s *Session) Level() *world.Level { return s.level }

// Player returns the player avatar.
func (s *Session) Player() *entity.Player { return s.player }

// Monsters returns the live monsters.
func (s *Session) Monsters() []*entity.Monster { return s.monsters }

// State returns a copy of the session flags and counters.
func (s *Session) State() SessionState { return s.state }

// Phase returns the death and win state machine phase.
func (s *Session) Phase() Phase { return s.state.Phase() }

// Effects returns the player's timed effects.
func (s *Session) Effects() *rules.Effects { return s.effects }

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// FlashTick counts flash toggles during the current death.
func (s *Session) FlashTick() int { return s.flashTick }

// Now returns the session's virtual clock.
func (s *Session) Now() time.Duration { return s.sched.Now() }

// Rules returns the rules the session was created with.
func (s *Session) Rules() config.Rules { return s.rules }

// =============================================================================
// Build commands
// =============================================================================

// PlaceTile puts a tile on the level. Rejections leave the level unchanged.
func (s *Session) PlaceTile(kind gamedata.TileKind, x, y, rotation int) (*world.PlacedTile, error) {
	if s.mode != ModeBuild {
		return nil, ErrWrongMode
	}
	t, err := s.level.PlaceTile(kind, x, y, rotation)
	if err != nil {
		s.log.Debug("placement rejected", "kind", kind, "x", x, "y", y, "error", err)
		return nil, err
	}
	return t, nil
}

// DeleteTileAt removes the top-most tile covering the cell.
func (s *Session) DeleteTileAt(x, y int) error {
	if s.mode != ModeBuild {
		return ErrWrongMode
	}
	return s.level.DeleteTileAt(x, y)
}

// RotateTileAt turns the top-most tile covering the cell by 90 degrees.
func (s *Session) RotateTileAt(x, y int) error {
	if s.mode != ModeBuild {
		return ErrWrongMode
	}
	return s.level.RotateTileAt(x, y)
}

// MoveTile relocates a tile; overlapping placements are rejected.
func (s *Session) MoveTile(id string, x, y int) error {
	if s.mode != ModeBuild {
		return ErrWrongMode
	}
	if err := s.level.MoveTile(id, x, y); err != nil {
		s.log.Debug("move rejected", "id", id, "x", x, "y", y, "error", err)
		return err
	}
	return nil
}

// MoveTrigger relocates a trigger.
func (s *Session) MoveTrigger(id string, x, y int) error {
	if s.mode != ModeBuild {
		return ErrWrongMode
	}
	return s.level.MoveTrigger(id, x, y)
}

// ImportLevel replaces the level with one decoded from r. A document that
// fails to decode leaves the current level untouched.
func (s *Session) ImportLevel(ctx context.Context, r io.Reader) error {
	if s.mode != ModeBuild {
		return ErrWrongMode
	}
	l, err := levelio.Decode(ctx, r, s.levelOptions())
	if err != nil {
		s.log.Warn("level import failed", "error", err)
		return err
	}
	return s.ReplaceLevel(l)
}

// ReplaceLevel swaps in an already decoded level, as done on hot reload.
func (s *Session) ReplaceLevel(l *world.Level) error {
	if s.mode != ModeBuild {
		return ErrWrongMode
	}
	if l.Name == "" {
		l.Name = s.level.Name
	}
	s.level = l
	s.player.MoveTo(l.Entrance())
	s.log.Info("level loaded", "name", l.Name, "tiles", len(l.Tiles), "triggers", len(l.Triggers))
	return nil
}

// ExportLevel writes the level document to w. Only the authored level is
// exported, so play must be stopped first.
func (s *Session) ExportLevel(w io.Writer) error {
	if s.mode != ModeBuild {
		return ErrWrongMode
	}
	if err := levelio.Encode(w, s.level, s.rules.Grid.CellSize); err != nil {
		return fmt.Errorf("exporting level: %w", err)
	}
	return nil
}

// ClearLevel empties the level and forgets past deaths.
func (s *Session) ClearLevel() error {
	if s.mode != ModeBuild {
		return ErrWrongMode
	}
	s.level.Clear()
	s.level.Name = DefaultLevelName
	s.state = SessionState{Health: s.rules.Play.MaxHealth}
	s.sched.Resume()
	s.player.MoveTo(0, 0)
	return nil
}

func (s *Session) levelOptions() levelio.Options {
	return levelio.Options{
		Width:    s.rules.Grid.Width,
		Height:   s.rules.Grid.Height,
		CellSize: s.rules.Grid.CellSize,
		Catalog:  s.catalog,
		IDs:      s.ids,
	}
}

// =============================================================================
// Mode commands
// =============================================================================

// SetMode switches between build and play. Entering play resets the session
// and puts the player on the entrance; leaving it stops every task.
func (s *Session) SetMode(ctx context.Context, m Mode) {
	if m == s.mode {
		return
	}
	_, span := telemetry.Tracer("session").Start(ctx, "session.mode")
	span.SetAttributes(
		attribute.String("from", s.mode.String()),
		attribute.String("to", m.String()),
	)
	defer span.End()

	s.mode = m
	if m == ModePlay {
		s.enterPlay()
	} else {
		s.stopPlay()
	}
	s.log.Info("mode changed", "mode", m.String())
}

// Restart begins the level again from the entrance. Deaths so far are kept.
func (s *Session) Restart(ctx context.Context) error {
	if s.mode != ModePlay {
		return ErrWrongMode
	}
	_, span := telemetry.Tracer("session").Start(ctx, "session.restart")
	defer span.End()
	s.enterPlay()
	return nil
}

// SetPaused suspends or resumes every play task and timer.
func (s *Session) SetPaused(paused bool) {
	s.state.Paused = paused
	if paused {
		s.sched.Suspend()
	} else {
		s.sched.Resume()
	}
	s.sched.Sync()
}

// SetRunning turns auto-run on or off.
func (s *Session) SetRunning(running bool) {
	s.state.Running = running
	s.sched.Sync()
}

func (s *Session) enterPlay() {
	deaths := s.state.DeathCount
	paused, running := s.state.Paused, s.state.Running
	s.sched.Reset()
	s.level.ResetPlayState()
	s.resetPlay()
	s.state = SessionState{
		Health:     s.rules.Play.MaxHealth,
		DeathCount: deaths,
		Paused:     paused,
		Running:    running,
	}
	s.sched.Sync()
}

func (s *Session) stopPlay() {
	s.sched.Reset()
	s.level.ResetPlayState()
	s.resetPlay()
	s.state.Dying, s.state.GameOver, s.state.Win = false, false, false
	s.state.Flashing, s.state.HasArtefact = false, false
	s.state.TrappedTicks, s.state.PlayTime = 0, 0
	s.state.Health = s.rules.Play.MaxHealth
}

func (s *Session) resetPlay() {
	s.monsters = nil
	s.effects.Reset()
	s.held = mapset.New[world.Direction]()
	s.aiTick, s.webPresses, s.flashTick = 0, 0, 0
	s.portalsGone = false
	s.player.MoveTo(s.level.Entrance())
	s.player.Action = entity.ActionNormal
}

// =============================================================================
// Play input
// =============================================================================

// MovePlayer asks the player to move one unit step (dx, dy). A special move
// is a jump or slide and covers more ground. The second result is false when
// the intent was ignored: wrong mode, not alive, paused, not a unit step, or
// swallowed by web-slow.
func (s *Session) MovePlayer(ctx context.Context, dx, dy int, special bool) (rules.MoveResult, bool) {
	res := rules.MoveResult{X: s.player.X, Y: s.player.Y}
	if !s.live() {
		return res, false
	}
	dir, ok := world.DirectionFromDelta(dx, dy)
	if !ok {
		return res, false
	}
	s.player.Facing = dir

	if s.effects.Active(rules.WebSlow) {
		s.webPresses++
		if s.webPresses%2 == 1 {
			return res, false
		}
	}

	ctx, span := telemetry.Tracer("session").Start(ctx, "session.move")
	defer span.End()

	steps := s.effects.StepCount(special)
	res = s.world().MovePlayer(s.player, dir, steps, s.state.HasArtefact)
	s.player.MoveTo(res.X, res.Y)
	span.SetAttributes(
		attribute.String("direction", dir.String()),
		attribute.Int("steps", steps),
		attribute.Int("advanced", res.Advanced),
		attribute.Bool("teleported", res.Teleported),
	)

	s.apply(ctx, res.Effects)
	return res, true
}

// Jump leaps in the last direction and stays airborne for the jump action time.
func (s *Session) Jump(ctx context.Context) (rules.MoveResult, bool) {
	if !s.live() {
		return rules.MoveResult{X: s.player.X, Y: s.player.Y}, false
	}
	s.player.Action = entity.ActionJump
	s.sched.After(timerJump, s.rules.Timing.JumpAction, func(context.Context) {
		if s.player.Jumping() {
			s.player.Action = entity.ActionNormal
		}
	})
	dx, dy := s.player.Facing.Delta()
	return s.MovePlayer(ctx, dx, dy, true)
}

// Slide starts a slide in the last direction, or ends it.
func (s *Session) Slide(ctx context.Context, on bool) (rules.MoveResult, bool) {
	if !on {
		if s.player.Sliding() {
			s.player.Action = entity.ActionNormal
		}
		return rules.MoveResult{X: s.player.X, Y: s.player.Y}, false
	}
	if !s.live() {
		return rules.MoveResult{X: s.player.X, Y: s.player.Y}, false
	}
	s.player.Action = entity.ActionSlide
	dx, dy := s.player.Facing.Delta()
	return s.MovePlayer(ctx, dx, dy, true)
}

// Hold records a direction key going down or up, for counter-steering.
func (s *Session) Hold(dir world.Direction, held bool) {
	if held {
		s.held.Put(dir)
	} else {
		s.held.Remove(dir)
	}
}

// Advance runs the session's clock forward by d.
func (s *Session) Advance(ctx context.Context, d time.Duration) {
	s.sched.Advance(ctx, d)
}

// =============================================================================
// Periodic tasks
// =============================================================================

func fixed(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

func (s *Session) playing() bool {
	return s.mode == ModePlay && !s.state.Paused
}

// live gates everything that needs a player who can act.
func (s *Session) live() bool {
	return s.playing() && !s.state.Dying && !s.state.GameOver && !s.state.Win
}

func (s *Session) flashing() bool {
	return s.playing() && s.state.Dying
}

func (s *Session) autoRunning() bool {
	return s.live() && s.state.Running
}

func (s *Session) monsterInterval() time.Duration {
	if s.effects.Active(rules.MonsterSlow) {
		return s.rules.Timing.SlowMonsterTick
	}
	return s.rules.Timing.MonsterTick
}

func (s *Session) world() *rules.World {
	return &rules.World{
		Level:    s.level,
		Monsters: s.monsters,
		Effects:  s.effects,
		Held:     s.held,
		Rules:    s.rules,
	}
}

func (s *Session) tickEffects(ctx context.Context) {
	for _, k := range s.effects.Tick(s.rules.Timing.EffectTick) {
		switch k {
		case rules.ThirdEye:
			s.vanishPortals(ctx)
		case rules.WebSlow:
			s.webPresses = 0
		}
	}
}

// vanishPortals deletes every portal once the third eye lapses.
func (s *Session) vanishPortals(ctx context.Context) {
	if s.portalsGone {
		return
	}
	s.portalsGone = true
	n := s.level.RemoveKind(gamedata.KindPortal)
	s.log.Info("portals vanished", "count", n)
}

func (s *Session) tickMonsters(ctx context.Context) {
	interval := s.monsterInterval()
	if len(s.monsters) == 0 {
		if s.state.PlayTime >= s.rules.Timing.SpawnDelay {
			s.monsters = entity.SpawnMonsters(s.level)
			if len(s.monsters) > 0 {
				s.log.Info("monsters spawned", "count", len(s.monsters))
			}
		}
		s.state.PlayTime += interval
		return
	}
	s.state.PlayTime += interval
	s.aiTick++

	ctx, span := telemetry.Tracer("session").Start(ctx, "monsters.tick")
	span.SetAttributes(
		attribute.Int("tick", s.aiTick),
		attribute.Int("monsters", len(s.monsters)),
	)
	defer span.End()

	w := s.world()
	for _, m := range s.monsters {
		if !rules.Acts(m, s.aiTick) {
			continue
		}
		mv := w.StepMonster(m, s.player.X, s.player.Y)
		m.MoveTo(mv.X, mv.Y)
		s.apply(ctx, mv.Effects)
		if !s.live() {
			return
		}
	}
}

func (s *Session) tickTrapped(ctx context.Context) {
	if !s.world().Trapped(s.player.X, s.player.Y) {
		s.state.TrappedTicks = 0
		return
	}
	s.state.TrappedTicks++
	if s.state.TrappedTicks >= s.rules.Play.TrappedLimit {
		s.gameOver(ctx)
	}
}

func (s *Session) tickFlash(context.Context) {
	s.flashTick++
	s.state.Flashing = !s.state.Flashing
}

func (s *Session) tickAutoRun(ctx context.Context) {
	dx, dy := s.player.Facing.Delta()
	s.MovePlayer(ctx, dx, dy, false)
}

// =============================================================================
// Side effects and transitions
// =============================================================================

// apply performs the state changes a resolution asked for, in order.
func (s *Session) apply(ctx context.Context, effects []rules.SideEffect) {
	for _, e := range effects {
		switch e.Op {
		case rules.OpCollect:
			if t := s.level.Find(e.TileID); t != nil {
				t.Collected = true
			}
		case rules.OpGrant:
			s.effects.Grant(e.Effect, e.Duration)
			if e.Effect == rules.WebSlow {
				s.webPresses = 0
			}
		case rules.OpHeal:
			s.state.Health = min(s.rules.Play.MaxHealth, s.state.Health+e.Amount)
		case rules.OpArtefact:
			s.state.HasArtefact = true
		case rules.OpRotate:
			s.level.RotateTile(e.TileID)
		case rules.OpRemoveTile:
			s.removeTile(e.TileID)
		case rules.OpPush:
			s.level.ShiftTile(e.TileID, e.X, e.Y)
		case rules.OpNeutralize:
			s.level.Neutralize(e.TileID)
		case rules.OpSpawnWeb:
			s.level.SpawnTile(gamedata.KindWeb, e.X, e.Y)
		case rules.OpDeath:
			s.die(ctx, e.Cause)
		case rules.OpWin:
			s.win(ctx)
		}
	}
}

// removeTile deletes a runtime tile outright; an authored one is only marked
// collected so the next play reset brings it back.
func (s *Session) removeTile(id string) {
	t := s.level.Find(id)
	if t == nil {
		return
	}
	if t.Spawned {
		s.level.RemoveTile(id)
		return
	}
	t.Collected = true
}

func (s *Session) die(ctx context.Context, cause rules.Cause) {
	if s.state.Dying || s.state.GameOver || s.state.Win {
		return
	}
	_, span := telemetry.Tracer("session").Start(ctx, "session.death")
	defer span.End()

	s.state.Dying = true
	s.state.Flashing = true
	s.state.Health = 0
	s.state.DeathCount++
	s.flashTick = 0
	s.deathCause = cause
	span.SetAttributes(
		attribute.String("cause", cause.String()),
		attribute.Int("death_count", s.state.DeathCount),
	)
	s.log.Info("player died", "cause", cause.String(), "deaths", s.state.DeathCount)

	s.sched.After(timerRespawn, s.rules.Timing.Dying, s.respawn)
	s.sched.Sync()
}

// respawn ends the dying phase and puts the player back on the entrance.
// The artefact and the death count survive; effects do not. Only a monster
// death clears the monsters and restarts the spawn delay.
func (s *Session) respawn(ctx context.Context) {
	if s.effects.Active(rules.ThirdEye) {
		s.vanishPortals(ctx)
	}
	s.effects.Reset()
	s.webPresses = 0
	s.state.Dying = false
	s.state.Flashing = false
	s.state.Health = s.rules.Play.MaxHealth
	s.state.TrappedTicks = 0
	s.player.MoveTo(s.level.Entrance())
	s.player.Action = entity.ActionNormal
	if s.deathCause == rules.CauseMonster {
		s.monsters = nil
		s.state.PlayTime = 0
		s.aiTick = 0
	}
	s.sched.Sync()
}

func (s *Session) win(ctx context.Context) {
	if s.state.Win {
		return
	}
	s.state.Win = true
	s.log.Info("level won", "deaths", s.state.DeathCount)
	s.sched.Sync()
}

func (s *Session) gameOver(ctx context.Context) {
	if s.state.GameOver {
		return
	}
	_, span := telemetry.Tracer("session").Start(ctx, "session.death")
	defer span.End()

	s.state.GameOver = true
	s.state.DeathCount++
	span.SetAttributes(
		attribute.String("cause", rules.CauseTrapped.String()),
		attribute.Bool("game_over", true),
		attribute.Int("death_count", s.state.DeathCount),
	)
	s.log.Info("game over", "cause", rules.CauseTrapped.String(), "deaths", s.state.DeathCount)
	s.sched.Sync()
}
