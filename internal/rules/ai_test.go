package rules

import (
	"testing"
	"time"

	"github.com/samdwyer/dungeonbuilder/internal/entity"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

func spawn(t *testing.T, w *World, kind gamedata.TileKind, x, y int) *entity.Monster {
	t.Helper()
	tile := place(t, w, kind, x, y, 0)
	m := entity.NewMonster(tile, w.Level.Def(tile))
	w.Monsters = append(w.Monsters, m)
	return m
}

func TestOrcClosesDistance(t *testing.T) {
	w := newTestWorld(t)
	corridorRow(t, w, 0, 6, 0)
	orc := spawn(t, w, gamedata.KindOrc, 4, 0)

	mv := w.StepMonster(orc, 2, 0)
	if !mv.Moved || mv.X != 3 || mv.Caught {
		t.Fatalf("First step = %+v, want (3,0) not caught", mv)
	}
	orc.MoveTo(mv.X, mv.Y)

	mv = w.StepMonster(orc, 2, 0)
	if mv.X != 2 || !mv.Caught {
		t.Errorf("Second step = %+v, want (2,0) caught", mv)
	}
	if !hasOp(mv.Effects, OpDeath) {
		t.Error("Catching the player should report a death")
	}
}

func TestMonsterPrefersLongerAxis(t *testing.T) {
	w := newTestWorld(t)
	for x := 0; x < 6; x++ {
		for y := 0; y < 6; y++ {
			place(t, w, gamedata.KindOpenFloor, x, y, 0)
		}
	}
	teeth := spawn(t, w, gamedata.KindTeeth, 0, 0)

	if mv := w.StepMonster(teeth, 4, 1); mv.X != 1 || mv.Y != 0 {
		t.Errorf("Step toward (4,1) = (%d,%d), want (1,0)", mv.X, mv.Y)
	}
	if mv := w.StepMonster(teeth, 1, 4); mv.X != 0 || mv.Y != 1 {
		t.Errorf("Step toward (1,4) = (%d,%d), want (0,1)", mv.X, mv.Y)
	}
	if mv := w.StepMonster(teeth, 2, 2); mv.X != 0 || mv.Y != 1 {
		t.Errorf("Tie should try the vertical axis first, got (%d,%d)", mv.X, mv.Y)
	}
}

func TestMonsterFallsBackToOtherAxis(t *testing.T) {
	w := newTestWorld(t)
	place(t, w, gamedata.KindOpenFloor, 0, 0, 0)
	place(t, w, gamedata.KindOpenFloor, 0, 1, 0)
	teeth := spawn(t, w, gamedata.KindTeeth, 0, 0)

	// Nothing to stand on at (1,0), so the monster goes down instead.
	if mv := w.StepMonster(teeth, 5, 1); mv.X != 0 || mv.Y != 1 {
		t.Errorf("Fallback step = (%d,%d), want (0,1)", mv.X, mv.Y)
	}
}

func TestMonsterStuckBehindWall(t *testing.T) {
	w := newTestWorld(t)
	corridorRow(t, w, 0, 4, 0)
	place(t, w, gamedata.KindOpenFloor, 2, 1, 0)
	orc := spawn(t, w, gamedata.KindOrc, 2, 0)

	mv := w.StepMonster(orc, 2, 3)
	if mv.Moved {
		t.Errorf("Orc walked through a corridor wall to (%d,%d)", mv.X, mv.Y)
	}
}

func TestMonstersNeedFloor(t *testing.T) {
	w := newTestWorld(t)
	place(t, w, gamedata.KindCorridor, 3, 0, 0)
	place(t, w, gamedata.KindTree, 1, 0, 0)
	teeth := spawn(t, w, gamedata.KindTeeth, 3, 0)

	if mv := w.StepMonster(teeth, 0, 0); mv.Moved {
		t.Errorf("Monster stepped onto bare ground at (%d,%d)", mv.X, mv.Y)
	}
	teeth.MoveTo(3, 1)
	if mv := w.StepMonster(teeth, 0, 1); mv.Moved {
		t.Errorf("Monster stepped into a tree at (%d,%d)", mv.X, mv.Y)
	}
}

func TestOrcAvoidsHazardsOthersDoNot(t *testing.T) {
	w := newTestWorld(t)
	corridorRow(t, w, 0, 4, 0)
	place(t, w, gamedata.KindLava, 2, 0, 0)
	orc := spawn(t, w, gamedata.KindOrc, 3, 0)

	if mv := w.StepMonster(orc, 0, 0); mv.Moved {
		t.Error("Orc should not walk into lava")
	}

	teeth := spawn(t, w, gamedata.KindTeeth, 3, 0)
	if mv := w.StepMonster(teeth, 0, 0); !mv.Moved || mv.X != 2 {
		t.Errorf("Teeth should cross lava, got %+v", mv)
	}
}

func TestOrcPushesSwerve(t *testing.T) {
	tests := []struct {
		name       string
		target     gamedata.TileKind // what lies past the obstacle at (2,0)
		wantMoved  bool
		wantFallIn bool
	}{
		{"onto floor", "", true, false},
		{"into lava", gamedata.KindLava, true, true},
		{"into water", gamedata.KindWater, true, true},
		{"against column", gamedata.KindColumn, false, false},
		{"against another swerve", gamedata.KindSwerve, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			corridorRow(t, w, 0, 4, 0)
			swerve := place(t, w, gamedata.KindSwerve, 3, 0, 0)
			var hazard *world.PlacedTile
			if tt.target != "" {
				hazard = place(t, w, tt.target, 2, 0, 0)
			}
			orc := spawn(t, w, gamedata.KindOrc, 4, 0)

			mv := w.StepMonster(orc, 0, 0)
			if mv.Moved != tt.wantMoved {
				t.Fatalf("Moved = %v, want %v", mv.Moved, tt.wantMoved)
			}
			if !tt.wantMoved {
				return
			}
			if mv.X != 3 {
				t.Errorf("Orc ended at x=%d, want 3", mv.X)
			}

			var pushed bool
			neutralized := map[string]bool{}
			for _, e := range mv.Effects {
				switch e.Op {
				case OpPush:
					pushed = e.TileID == swerve.ID && e.X == 2 && e.Y == 0
				case OpNeutralize:
					neutralized[e.TileID] = true
				}
			}
			if !pushed {
				t.Errorf("Swerve should be pushed to (2,0), effects = %v", mv.Effects)
			}
			if tt.wantFallIn && (!neutralized[swerve.ID] || !neutralized[hazard.ID]) {
				t.Errorf("Fall-in should neutralize both tiles, got %v", neutralized)
			}
			if !tt.wantFallIn && len(neutralized) != 0 {
				t.Errorf("Plain push should neutralize nothing, got %v", neutralized)
			}
		})
	}
}

func TestOrcUsesPortalsUnderVision(t *testing.T) {
	w := newTestWorld(t)
	corridorRow(t, w, 0, 4, 0)
	place(t, w, gamedata.KindPortal, 3, 0, 0)
	place(t, w, gamedata.KindPortal, 9, 9, 0)
	orc := spawn(t, w, gamedata.KindOrc, 4, 0)

	w.Effects.Grant(ThirdEye, time.Second)
	if mv := w.StepMonster(orc, 0, 0); mv.X != 3 {
		t.Errorf("Third eye should not open portals to orcs, orc at x=%d", mv.X)
	}

	w.Effects.Grant(VisionReveal, time.Second)
	if mv := w.StepMonster(orc, 0, 0); mv.X != 9 || mv.Y != 9 {
		t.Errorf("Orc under vision should teleport to (9,9), got (%d,%d)", mv.X, mv.Y)
	}
}

func TestSpiderLeavesWebs(t *testing.T) {
	w := newTestWorld(t)
	corridorRow(t, w, 0, 6, 0)
	spider := spawn(t, w, gamedata.KindSpider, 5, 0)

	if Acts(spider, 1) {
		t.Error("Spiders should skip odd ticks")
	}
	if !Acts(spider, 2) || !Acts(w.Monsters[0], 0) {
		t.Error("Spiders should act on even ticks")
	}
	orc := &entity.Monster{Kind: gamedata.KindOrc, Def: w.Level.Catalog().Get(gamedata.KindOrc)}
	if !Acts(orc, 1) {
		t.Error("Orcs act on every tick")
	}

	mv := w.StepMonster(spider, 0, 0)
	webs := 0
	for _, e := range mv.Effects {
		if e.Op == OpSpawnWeb {
			webs++
			if e.X != 5 || e.Y != 0 {
				t.Errorf("Web at (%d,%d), want vacated cell (5,0)", e.X, e.Y)
			}
		}
	}
	if webs != 1 {
		t.Errorf("webs = %d, want 1", webs)
	}

	place(t, w, gamedata.KindWeb, 5, 0, 0)
	if mv := w.StepMonster(spider, 0, 0); hasOp(mv.Effects, OpSpawnWeb) {
		t.Error("A cell that already has a web should not get another")
	}
}

func TestTrapped(t *testing.T) {
	w := newTestWorld(t)
	place(t, w, gamedata.KindCulDeSac, 5, 5, 0)
	place(t, w, gamedata.KindColumn, 5, 6, 0)

	if w.Trapped(5, 5) {
		t.Error("Without portals the player is not trapped, just stuck")
	}

	place(t, w, gamedata.KindPortal, 0, 0, 0)
	if !w.Trapped(5, 5) {
		t.Error("Walled in with an unseen portal should count as trapped")
	}

	w.Effects.Grant(ThirdEye, time.Second)
	if w.Trapped(5, 5) {
		t.Error("Portal sight should end the trap")
	}
	w.Effects.Reset()

	if w.Trapped(2, 2) {
		t.Error("Open ground is never a trap")
	}
}

func TestOpenDirections(t *testing.T) {
	w := newTestWorld(t)
	place(t, w, gamedata.KindCorridor, 5, 5, 0)
	place(t, w, gamedata.KindLava, 6, 5, 0)
	place(t, w, gamedata.KindHalfHeight, 4, 5, 0)

	open := w.OpenDirections(5, 5)
	if open.Size() != 1 || !open.Has(world.Left) {
		t.Errorf("Open directions = %d, want only left (jumpable obstacle)", open.Size())
	}
}

func TestMonstersFireTriggers(t *testing.T) {
	for _, kind := range []gamedata.TileKind{gamedata.KindOrc, gamedata.KindTeeth} {
		t.Run(string(kind), func(t *testing.T) {
			w := newTestWorld(t)
			corridorRow(t, w, 0, 6, 0)
			quad := place(t, w, gamedata.KindRotWallI, 8, 3, 0)
			if err := w.Level.MoveTrigger(w.Level.Triggers[0].ID, 3, 0); err != nil {
				t.Fatalf("MoveTrigger() error = %v", err)
			}
			m := spawn(t, w, kind, 4, 0)

			mv := w.StepMonster(m, 0, 0)
			if mv.X != 3 {
				t.Fatalf("Step = (%d,%d), want (3,0)", mv.X, mv.Y)
			}
			var rotated bool
			for _, e := range mv.Effects {
				rotated = rotated || (e.Op == OpRotate && e.TileID == quad.ID)
			}
			if !rotated {
				t.Errorf("A monster entering a trigger cell should rotate %s, effects = %v", quad.ID, mv.Effects)
			}
		})
	}
}
