package game

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/levelio"
	"github.com/samdwyer/dungeonbuilder/internal/rules"
	"github.com/samdwyer/dungeonbuilder/internal/telemetry"
	"github.com/samdwyer/dungeonbuilder/internal/ui"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

// frameInterval is how often the loop advances the session clock and redraws.
const frameInterval = 50 * time.Millisecond

// Game is the terminal application around a Session.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	cfg      Config
	log      *slog.Logger
	running  bool

	// Build mode
	cursor   ui.Cursor
	palette  []gamedata.TileKind
	selected int
	rotation int
	grab     grab

	// Terminals report key presses but not releases, so a held key is
	// assumed released once it has not repeated for a while.
	heldUntil  map[world.Direction]time.Time
	slideUntil time.Time

	message string
}

// grab is a tile or trigger picked up in build mode, waiting to be dropped.
type grab struct {
	id      string
	trigger bool
}

// New creates a new game instance on the terminal.
func New(cfg Config) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return newGame(screen, cfg), nil
}

func newGame(screen *ui.Screen, cfg Config) *Game {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = gamedata.MustLoadCatalog()
	}
	palette := make([]gamedata.TileKind, 0, cfg.Catalog.Count())
	for _, def := range cfg.Catalog.All() {
		palette = append(palette, def.Kind)
	}
	return &Game{
		screen:    screen,
		renderer:  ui.NewRenderer(screen),
		session:   NewSession(cfg.Rules, cfg.Catalog, WithLogger(cfg.Logger)),
		cfg:       cfg,
		log:       cfg.Logger,
		running:   true,
		palette:   palette,
		heldUntil: make(map[world.Direction]time.Time),
	}
}

// Session returns the session the game drives.
func (g *Game) Session() *Session {
	return g.session
}

// Run executes the main game loop until the player quits or ctx ends.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, initSpan := tracer.Start(ctx, "game.init")

	switch {
	case g.cfg.LevelPath != "":
		g.load(ctx)
	case len(g.cfg.Document) > 0:
		if err := g.session.ImportLevel(ctx, bytes.NewReader(g.cfg.Document)); err != nil {
			g.message = "Starting blank: " + err.Error()
		}
	}

	var levels <-chan *world.Level
	var reloadErrs <-chan error
	if g.cfg.Watch && g.cfg.LevelPath != "" {
		w, err := levelio.NewWatcher(g.cfg.LevelPath, g.session.levelOptions())
		if err != nil {
			g.log.Warn("level watch disabled", "path", g.cfg.LevelPath, "error", err)
		} else {
			defer w.Close()
			levels, reloadErrs = w.Levels, w.Errors
		}
	}

	if g.cfg.Play {
		g.session.SetMode(ctx, ModePlay)
	}
	initSpan.SetAttributes(
		attribute.String("level.name", g.session.Level().Name),
		attribute.Int("level.tiles", len(g.session.Level().Tiles)),
		attribute.Bool("watch", levels != nil),
	)
	initSpan.End()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go g.pollEvents(events, done)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()

	for g.running {
		g.render()

		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				continue
			}
			g.handleEvent(ctx, ev)
		case now := <-ticker.C:
			g.session.Advance(ctx, now.Sub(last))
			last = now
			g.releaseKeys(ctx, now)
		case lvl, ok := <-levels:
			if !ok {
				levels = nil
				continue
			}
			if err := g.session.ReplaceLevel(lvl); err != nil {
				g.message = "Level changed on disk; switch to build mode to reload"
				continue
			}
			g.message = "Reloaded " + lvl.Name
		case err, ok := <-reloadErrs:
			if !ok {
				reloadErrs = nil
				continue
			}
			g.log.Warn("level reload failed", "error", err)
			g.message = "Reload failed: " + err.Error()
		}
	}

	g.screen.Close()
	return nil
}

// pollEvents forwards terminal events until the screen is closed.
func (g *Game) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (g *Game) load(ctx context.Context) {
	lvl, err := levelio.LoadFile(ctx, g.cfg.LevelPath, g.session.levelOptions())
	if err != nil {
		g.log.Warn("level not loaded", "path", g.cfg.LevelPath, "error", err)
		g.message = "Starting blank: " + err.Error()
		return
	}
	if err := g.session.ReplaceLevel(lvl); err != nil {
		g.log.Warn("level not loaded", "path", g.cfg.LevelPath, "error", err)
	}
}

func (g *Game) save() {
	if g.cfg.LevelPath == "" {
		g.message = "No level file to save to"
		return
	}
	if err := levelio.SaveFile(g.cfg.LevelPath, g.session.Level(), g.cfg.Rules.Grid.CellSize); err != nil {
		g.log.Warn("level not saved", "path", g.cfg.LevelPath, "error", err)
		g.message = "Save failed: " + err.Error()
		return
	}
	g.message = "Saved " + g.cfg.LevelPath
}

// render draws the current session state.
func (g *Game) render() {
	s := g.session
	fx := s.Effects()
	play := s.Mode() == ModePlay

	sight := s.Level().DarknessRadius
	if fx.Active(rules.Light) {
		sight *= 2
	}
	f := ui.Frame{
		Level:       s.Level(),
		Player:      s.Player(),
		Monsters:    s.Monsters(),
		Play:        play,
		Reveal:      fx.Active(rules.VisionReveal),
		PortalSight: fx.PortalSight(),
		Sight:       sight,
		Flashing:    s.State().Flashing,
		HUD:         g.hud(),
	}
	if !play {
		f.Cursor = &g.cursor
	}
	g.renderer.Render(f)
}

// hud returns the status lines shown under the grid.
func (g *Game) hud() []string {
	s := g.session
	l := s.Level()
	var lines []string

	if s.Mode() == ModeBuild {
		kind := g.palette[g.selected]
		label := string(kind)
		if def := l.Catalog().Get(kind); def != nil {
			label = def.Label
		}
		issues := world.Validate(l)
		lines = append(lines,
			fmt.Sprintf("BUILD  %s  tile: %s %d°  (%d,%d)  issues: %d", l.Name, label, g.rotation, g.cursor.X, g.cursor.Y, len(issues)),
			"arrows move  enter place  [ ] tile  r rotation  t turn  x delete  g grab  c clear  w save  tab play  q quit",
		)
		lines = append(lines, clues(l, g.cursor.X, g.cursor.Y)...)
	} else {
		st := s.State()
		artefact := "no"
		if st.HasArtefact {
			artefact = "yes"
		}
		lines = append(lines,
			fmt.Sprintf("PLAY  %s  health %d  deaths %d  artefact %s  trapped %d/%d",
				l.Name, st.Health, st.DeathCount, artefact, st.TrappedTicks, s.Rules().Play.TrappedLimit),
			effectLine(s.Effects()),
			"wasd move  space jump  z slide  f auto-run  p pause  n restart  tab build  q quit",
		)
		if status := phaseLine(st); status != "" {
			lines = append(lines, status)
		}
		if s.Effects().Active(rules.VisionReveal) {
			lines = append(lines, clues(l, s.Player().X, s.Player().Y)...)
		}
	}
	if g.message != "" {
		lines = append(lines, g.message)
	}
	return lines
}

func effectLine(fx *rules.Effects) string {
	var parts []string
	for _, k := range rules.EffectKinds {
		if fx.Active(k) {
			parts = append(parts, fmt.Sprintf("%s %.1fs", k, fx.Left(k).Seconds()))
		}
	}
	if len(parts) == 0 {
		return "effects: none"
	}
	return "effects: " + strings.Join(parts, "  ")
}

func phaseLine(st SessionState) string {
	switch {
	case st.GameOver:
		return "GAME OVER: trapped with no way out. n to restart"
	case st.Win:
		return "You escaped with the artefact!"
	case st.Dying:
		return "You died..."
	case st.Paused:
		return "Paused"
	}
	return ""
}

func clues(l *world.Level, x, y int) []string {
	var out []string
	for _, t := range l.TilesAt(x, y) {
		if t.Clue != "" {
			out = append(out, "Clue: "+t.Clue)
		}
	}
	return out
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
