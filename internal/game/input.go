package game

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonbuilder/internal/ui"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

// holdWindow is how long a key counts as held after its last press or repeat.
const holdWindow = 600 * time.Millisecond

// keyDirection maps arrow keys and wasd to a direction.
func keyDirection(ev *tcell.EventKey) (world.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return world.Up, true
	case tcell.KeyRight:
		return world.Right, true
	case tcell.KeyDown:
		return world.Down, true
	case tcell.KeyLeft:
		return world.Left, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return world.Up, true
		case 'd', 'D':
			return world.Right, true
		case 's', 'S':
			return world.Down, true
		case 'a', 'A':
			return world.Left, true
		}
	}
	return world.Up, false
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventMouse:
		g.handleMouse(ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
		return
	case tcell.KeyTab:
		g.toggleMode(ctx)
		return
	case tcell.KeyRune:
		if ev.Rune() == 'q' || ev.Rune() == 'Q' {
			g.running = false
			return
		}
	}

	if g.session.Mode() == ModePlay {
		g.handlePlayKey(ctx, ev, time.Now())
	} else {
		g.handleBuildKey(ev)
	}
}

func (g *Game) toggleMode(ctx context.Context) {
	next := ModePlay
	if g.session.Mode() == ModePlay {
		next = ModeBuild
	}
	g.session.SetMode(ctx, next)
	g.heldUntil = make(map[world.Direction]time.Time)
	g.message = ""
}

func (g *Game) handlePlayKey(ctx context.Context, ev *tcell.EventKey, now time.Time) {
	if dir, ok := keyDirection(ev); ok {
		g.heldUntil[dir] = now.Add(holdWindow)
		g.session.Hold(dir, true)
		dx, dy := dir.Delta()
		g.session.MovePlayer(ctx, dx, dy, false)
		return
	}
	if ev.Key() != tcell.KeyRune {
		return
	}

	switch ev.Rune() {
	case ' ':
		g.session.Jump(ctx)
	case 'z', 'Z':
		if !g.session.Player().Sliding() {
			g.session.Slide(ctx, true)
		}
		g.slideUntil = now.Add(holdWindow)
	case 'p', 'P':
		g.session.SetPaused(!g.session.State().Paused)
	case 'f', 'F':
		g.session.SetRunning(!g.session.State().Running)
	case 'n', 'N':
		if err := g.session.Restart(ctx); err == nil {
			g.message = ""
		}
	}
}

// releaseKeys lets go of keys that stopped repeating.
func (g *Game) releaseKeys(ctx context.Context, now time.Time) {
	for dir, until := range g.heldUntil {
		if now.After(until) {
			g.session.Hold(dir, false)
			delete(g.heldUntil, dir)
		}
	}
	if g.session.Player().Sliding() && now.After(g.slideUntil) {
		g.session.Slide(ctx, false)
	}
}

func (g *Game) handleBuildKey(ev *tcell.EventKey) {
	l := g.session.Level()
	switch ev.Key() {
	case tcell.KeyUp:
		g.moveCursor(0, -1)
	case tcell.KeyDown:
		g.moveCursor(0, 1)
	case tcell.KeyLeft:
		g.moveCursor(-1, 0)
	case tcell.KeyRight:
		g.moveCursor(1, 0)
	case tcell.KeyEnter:
		g.place()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		g.report(g.session.DeleteTileAt(g.cursor.X, g.cursor.Y))
	case tcell.KeyRune:
		switch ev.Rune() {
		case ']':
			g.selected = (g.selected + 1) % len(g.palette)
		case '[':
			g.selected = (g.selected + len(g.palette) - 1) % len(g.palette)
		case 'r':
			g.rotation = (g.rotation + 90) % 360
		case 't':
			g.report(g.session.RotateTileAt(g.cursor.X, g.cursor.Y))
		case 'x':
			g.report(g.session.DeleteTileAt(g.cursor.X, g.cursor.Y))
		case 'g':
			g.grabOrDrop(l)
		case 'c':
			g.report(g.session.ClearLevel())
		case 'w':
			g.save()
		}
	}
}

func (g *Game) moveCursor(dx, dy int) {
	l := g.session.Level()
	g.cursor.X = min(max(g.cursor.X+dx, 0), l.Width-1)
	g.cursor.Y = min(max(g.cursor.Y+dy, 0), l.Height-1)
}

func (g *Game) place() {
	_, err := g.session.PlaceTile(g.palette[g.selected], g.cursor.X, g.cursor.Y, g.rotation)
	g.report(err)
}

// grabOrDrop picks up the trigger or top-most tile under the cursor, or drops
// what is held at the cursor.
func (g *Game) grabOrDrop(l *world.Level) {
	if g.grab.id != "" {
		var err error
		if g.grab.trigger {
			err = g.session.MoveTrigger(g.grab.id, g.cursor.X, g.cursor.Y)
		} else {
			err = g.session.MoveTile(g.grab.id, g.cursor.X, g.cursor.Y)
		}
		g.grab = grab{}
		g.report(err)
		return
	}
	if tr := l.TriggerAt(g.cursor.X, g.cursor.Y); tr != nil {
		g.grab = grab{id: tr.ID, trigger: true}
		g.message = "Holding trigger; g to drop"
		return
	}
	if tiles := l.TilesAt(g.cursor.X, g.cursor.Y); len(tiles) > 0 {
		top := tiles[len(tiles)-1]
		g.grab = grab{id: top.ID}
		g.message = "Holding " + string(top.Kind) + "; g to drop"
	}
}

func (g *Game) handleMouse(ev *tcell.EventMouse) {
	if g.session.Mode() != ModeBuild {
		return
	}
	mx, my := ev.Position()
	x, y := mx/ui.CellWidth, my
	if !g.session.Level().InBounds(x, y) {
		return
	}
	g.cursor = ui.Cursor{X: x, Y: y}
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		g.place()
	case ev.Buttons()&(tcell.Button2|tcell.Button3) != 0:
		g.report(g.session.DeleteTileAt(x, y))
	}
}

// report turns a build command error into a status message.
func (g *Game) report(err error) {
	switch {
	case err == nil:
		g.message = ""
	case errors.Is(err, world.ErrOccupied):
		g.message = "Something is already there"
	case errors.Is(err, world.ErrOutOfBounds):
		g.message = "Does not fit on the grid"
	case errors.Is(err, world.ErrNotFound):
		g.message = "Nothing there"
	default:
		g.message = err.Error()
	}
}
