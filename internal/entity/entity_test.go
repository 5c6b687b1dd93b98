package entity

import (
	"testing"

	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{ActionNormal, "normal"},
		{ActionJump, "jump"},
		{ActionSlide, "slide"},
		{Action(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("Action(%d).String() = %q, want %q", tt.action, got, tt.want)
		}
	}
}

func TestPlayerMoves(t *testing.T) {
	p := NewPlayer(2, 3)
	if x, y := p.Position(); x != 2 || y != 3 {
		t.Errorf("Position() = (%d,%d), want (2,3)", x, y)
	}
	p.MoveTo(5, 1)
	if p.X != 5 || p.Y != 1 {
		t.Errorf("After MoveTo = (%d,%d), want (5,1)", p.X, p.Y)
	}
	p.Action = ActionJump
	if !p.Jumping() || p.Sliding() {
		t.Error("Jumping player should report Jumping only")
	}
}

func TestSpawnMonsters(t *testing.T) {
	catalog := gamedata.MustLoadCatalog()
	level := world.NewLevel("m", 10, 10, catalog, &world.SequentialIDs{Prefix: "m"})
	for _, p := range []struct {
		kind gamedata.TileKind
		x, y int
	}{
		{gamedata.KindCorridor, 1, 1},
		{gamedata.KindOrc, 1, 1},
		{gamedata.KindTeeth, 4, 2},
		{gamedata.KindSpider, 6, 6},
	} {
		if _, err := level.PlaceTile(p.kind, p.x, p.y, 0); err != nil {
			t.Fatalf("PlaceTile(%s) error = %v", p.kind, err)
		}
	}

	monsters := SpawnMonsters(level)
	if len(monsters) != 3 {
		t.Fatalf("SpawnMonsters() = %d, want 3", len(monsters))
	}

	tests := []struct {
		kind     gamedata.TileKind
		orc      bool
		jumpable bool
		weaver   bool
	}{
		{gamedata.KindOrc, true, false, false},
		{gamedata.KindTeeth, false, true, false},
		{gamedata.KindSpider, false, false, true},
	}
	for i, tt := range tests {
		m := monsters[i]
		if m.Kind != tt.kind {
			t.Fatalf("monster %d kind = %s, want %s", i, m.Kind, tt.kind)
		}
		if m.IsOrc() != tt.orc || m.Jumpable() != tt.jumpable || m.Weaver() != tt.weaver {
			t.Errorf("%s: orc/jumpable/weaver = %v/%v/%v, want %v/%v/%v",
				m.Kind, m.IsOrc(), m.Jumpable(), m.Weaver(), tt.orc, tt.jumpable, tt.weaver)
		}
	}
	if !monsters[0].At(1, 1) {
		t.Error("Orc should stand on its authored cell")
	}
}
