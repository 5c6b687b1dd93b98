package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonbuilder/internal/entity"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

func newTestRenderer(t *testing.T) (*Renderer, *Screen) {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(60, 24)
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	screen := Wrap(ss)
	t.Cleanup(screen.Close)
	return NewRenderer(screen), screen
}

func newTestLevel(t *testing.T) *world.Level {
	t.Helper()
	return world.NewLevel("render", world.DefaultWidth, world.DefaultHeight,
		gamedata.MustLoadCatalog(), &world.SequentialIDs{Prefix: "r"})
}

func mustPlace(t *testing.T, l *world.Level, kind gamedata.TileKind, x, y, rot int) {
	t.Helper()
	if _, err := l.PlaceTile(kind, x, y, rot); err != nil {
		t.Fatalf("PlaceTile(%s) error = %v", kind, err)
	}
}

func cell(s *Screen, x, y int) rune {
	ch, _ := s.Content(x*CellWidth, y)
	return ch
}

func TestRenderWalls(t *testing.T) {
	r, s := newTestRenderer(t)
	l := newTestLevel(t)
	mustPlace(t, l, gamedata.KindCorridor, 0, 0, 0)
	mustPlace(t, l, gamedata.KindCorridor, 0, 1, 90)
	mustPlace(t, l, gamedata.KindCorner, 0, 2, 0)

	r.Render(Frame{Level: l})

	tests := []struct {
		y    int
		want rune
	}{
		{0, '─'},
		{1, '│'},
		{2, '┌'},
	}
	for _, tt := range tests {
		if got := cell(s, 0, tt.y); got != tt.want {
			t.Errorf("cell (0,%d) = %q, want %q", tt.y, got, tt.want)
		}
	}
	if fill, _ := s.Content(1, 0); fill != '─' {
		t.Errorf("A passage open to the right should run into the next column, got %q", fill)
	}
}

func TestRenderHidesPortalsAndMonsterTiles(t *testing.T) {
	r, s := newTestRenderer(t)
	l := newTestLevel(t)
	mustPlace(t, l, gamedata.KindPortal, 3, 3, 0)
	mustPlace(t, l, gamedata.KindOrc, 5, 5, 0)
	portal := l.Catalog().Get(gamedata.KindPortal).GlyphRune()
	orc := l.Catalog().Get(gamedata.KindOrc).GlyphRune()

	r.Render(Frame{Level: l})
	if cell(s, 3, 3) != portal || cell(s, 5, 5) != orc {
		t.Error("Build mode should show every tile")
	}

	r.Render(Frame{Level: l, Play: true, Player: entity.NewPlayer(0, 0)})
	if cell(s, 3, 3) == portal {
		t.Error("Portals should be hidden without portal sight")
	}
	if cell(s, 5, 5) == orc {
		t.Error("Monster tiles should not be drawn in play")
	}

	r.Render(Frame{Level: l, Play: true, Player: entity.NewPlayer(0, 0), PortalSight: true})
	if cell(s, 3, 3) != portal {
		t.Error("Portal sight should show portals")
	}
}

func TestRenderDarkness(t *testing.T) {
	r, s := newTestRenderer(t)
	l := newTestLevel(t)
	mustPlace(t, l, gamedata.KindLava, 1, 0, 0)
	mustPlace(t, l, gamedata.KindLava, 6, 0, 0)
	lava := l.Catalog().Get(gamedata.KindLava).GlyphRune()

	r.Render(Frame{Level: l, Play: true, Player: entity.NewPlayer(0, 0), Sight: 2})
	if cell(s, 1, 0) != lava {
		t.Error("Tiles within the sight radius should be drawn")
	}
	if cell(s, 6, 0) == lava {
		t.Error("Tiles beyond the sight radius should stay dark")
	}
	if cell(s, 0, 0) != '@' {
		t.Errorf("Player cell = %q, want @", cell(s, 0, 0))
	}
}

func TestRenderMessageTruncates(t *testing.T) {
	r, s := newTestRenderer(t)
	r.RenderMessage(strings.Repeat("x", 100), 20)

	if ch, _ := s.Content(59, 20); ch != '…' {
		t.Errorf("Last column = %q, want an ellipsis", ch)
	}
}
