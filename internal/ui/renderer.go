package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/samdwyer/dungeonbuilder/internal/entity"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

// CellWidth is the number of terminal columns one grid cell takes.
const CellWidth = 2

// Cursor is the build-mode edit position.
type Cursor struct {
	X, Y int
}

// Frame is everything the renderer needs for one redraw. The renderer only
// reads it.
type Frame struct {
	Level       *world.Level
	Player      *entity.Player
	Monsters    []*entity.Monster
	Play        bool // hide what only the author may see
	Reveal      bool // vision-reveal shows clues
	PortalSight bool // portals are drawn only while visible
	Sight       int  // cells visible around the player in play, 0 for no darkness
	Flashing    bool
	Cursor      *Cursor
	HUD         []string
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the level, the actors and the HUD.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()
	l := f.Level

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if !f.inSight(x, y) {
				continue
			}
			r.drawCell(f, x, y)
		}
	}

	for _, m := range f.Monsters {
		if !f.inSight(m.X, m.Y) {
			continue
		}
		style := tcell.StyleDefault.Foreground(m.Color()).Bold(true)
		r.screen.SetContent(m.X*CellWidth, m.Y, m.Symbol, style)
	}

	if f.Play && f.Player != nil {
		style := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
		if f.Flashing {
			style = style.Foreground(tcell.ColorRed).Reverse(true)
		}
		r.screen.SetContent(f.Player.X*CellWidth, f.Player.Y, f.Player.Symbol, style)
	}

	if f.Cursor != nil {
		cx, cy := f.Cursor.X*CellWidth, f.Cursor.Y
		ch, style := r.screen.Content(cx, cy)
		if ch == 0 || ch == ' ' {
			ch = '·'
		}
		r.screen.SetContent(cx, cy, ch, style.Reverse(true))
	}

	for i, line := range f.HUD {
		r.RenderMessage(line, l.Height+1+i)
	}

	r.screen.Show()
}

// inSight applies the darkness radius around the player.
func (f Frame) inSight(x, y int) bool {
	if !f.Play || f.Sight <= 0 || f.Player == nil {
		return true
	}
	dx, dy := x-f.Player.X, y-f.Player.Y
	return dx*dx+dy*dy <= f.Sight*f.Sight
}

// visible reports whether a tile is drawn at all in this frame.
func (f Frame) visible(t *world.PlacedTile, def *gamedata.TileDef) bool {
	if !f.Play {
		return true
	}
	if !t.Active() || def.Category == gamedata.CategoryMonster {
		return false
	}
	return t.Kind != gamedata.KindPortal || f.PortalSight
}

func (r *Renderer) drawCell(f Frame, x, y int) {
	l := f.Level
	var base, top *world.PlacedTile
	var clue bool
	walled := false
	for _, t := range l.TilesAt(x, y) {
		def := l.Def(t)
		if def == nil || !f.visible(t, def) {
			continue
		}
		if t.Clue != "" && (!f.Play || f.Reveal) {
			clue = true
		}
		switch {
		case def.IsBase():
			if base == nil {
				base = t
			}
			walled = true
		case t.Kind == gamedata.KindRotWall:
			walled = true
		default:
			top = t
		}
	}

	sx := x * CellWidth
	var ch, fill rune = ' ', ' '
	style := tcell.StyleDefault

	switch {
	case top != nil:
		def := l.Def(top)
		ch = def.GlyphRune()
		color := def.TCellColor()
		if top.Neutralized {
			color = gamedata.Dim(color, 0.4)
		}
		style = style.Foreground(color)
	case walled:
		open := openSides(l, x, y)
		ch = wallGlyph(open)
		if ch == 0 && base != nil {
			ch = l.Def(base).GlyphRune()
		}
		if open&sideMask(world.Right) != 0 && ch != 0 && open != allSides {
			fill = '─'
		}
		color := tcell.ColorGray
		if base != nil {
			color = l.Def(base).TCellColor()
		}
		style = style.Foreground(color)
	case l.TriggerAt(x, y) != nil:
		ch = '◦'
		style = style.Foreground(tcell.ColorMediumPurple)
	case !f.Play:
		ch = '.'
		style = style.Foreground(tcell.ColorDarkGray)
	}
	if ch == 0 {
		ch = '·'
	}
	if clue {
		style = style.Underline(true)
	}

	r.screen.SetContent(sx, y, ch, style)
	if runewidth.RuneWidth(ch) < CellWidth {
		r.screen.SetContent(sx+1, y, fill, style.Underline(false))
	}
}

// RenderMessage displays a message at the given row, cut to the screen width.
func (r *Renderer) RenderMessage(msg string, y int) {
	width, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	x := 0
	for _, ch := range runewidth.Truncate(msg, width, "…") {
		r.screen.SetContent(x, y, ch, style)
		x += max(1, runewidth.RuneWidth(ch))
	}
}
