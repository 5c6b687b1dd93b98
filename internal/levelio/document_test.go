package levelio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

func testOptions() Options {
	return Options{
		Width:    world.DefaultWidth,
		Height:   world.DefaultHeight,
		CellSize: 40,
		Catalog:  gamedata.MustLoadCatalog(),
		IDs:      &world.SequentialIDs{Prefix: "gen"},
	}
}

func buildLevel(t *testing.T) *world.Level {
	t.Helper()
	opts := testOptions()
	lvl := world.NewLevel("round trip", opts.Width, opts.Height, opts.Catalog, &world.SequentialIDs{Prefix: "t"})
	lvl.PowerUpDuration = 8
	lvl.DarknessRadius = 3
	lvl.Purpose = "find the idol"
	for _, p := range []struct {
		kind gamedata.TileKind
		x, y int
		rot  int
	}{
		{gamedata.KindEntrance, 0, 0, 0},
		{gamedata.KindCorridor, 1, 0, 90},
		{gamedata.KindLava, 2, 0, 0},
		{gamedata.KindRotWallL, 4, 4, 180},
	} {
		if _, err := lvl.PlaceTile(p.kind, p.x, p.y, p.rot); err != nil {
			t.Fatalf("PlaceTile(%s) error = %v", p.kind, err)
		}
	}
	lvl.Tiles[2].Neutralized = true
	lvl.Tiles[1].Clue = "mind the lava"
	return lvl
}

func TestRoundTrip(t *testing.T) {
	orig := buildLevel(t)
	orig.SpawnTile(gamedata.KindWeb, 9, 9)

	var buf bytes.Buffer
	if err := Encode(&buf, orig, 40); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(context.Background(), &buf, testOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got.Name != orig.Name || got.PowerUpDuration != 8 || got.DarknessRadius != 3 || got.Purpose != orig.Purpose {
		t.Errorf("Settings = %q/%v/%d/%q, want %q/8/3/%q",
			got.Name, got.PowerUpDuration, got.DarknessRadius, got.Purpose, orig.Name, orig.Purpose)
	}
	if len(got.Tiles) != 4 {
		t.Fatalf("Tiles = %d, want 4 (spawned web dropped)", len(got.Tiles))
	}
	for i, want := range orig.Tiles[:4] {
		if *got.Tiles[i] != *want {
			t.Errorf("Tile %d = %+v, want %+v", i, *got.Tiles[i], *want)
		}
	}
	if len(got.Triggers) != 1 || *got.Triggers[0] != *orig.Triggers[0] {
		t.Errorf("Triggers = %v, want %v", got.Triggers, orig.Triggers)
	}
}

func TestDecodeDefaults(t *testing.T) {
	doc := `{"name":"bare","tiles":[{"type":"corridor","x":1,"y":2}],"triggers":[]}`
	lvl, err := Decode(context.Background(), strings.NewReader(doc), testOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if lvl.PowerUpDuration != world.DefaultPowerUpDuration {
		t.Errorf("PowerUpDuration = %v, want %v", lvl.PowerUpDuration, world.DefaultPowerUpDuration)
	}
	tile := lvl.Tiles[0]
	if tile.ID != "gen1" {
		t.Errorf("Generated id = %q, want gen1", tile.ID)
	}
	if tile.Size != 1 {
		t.Errorf("Size = %d, want catalog size 1", tile.Size)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"not json", `{"name": `, ErrMalformed},
		{"wrong shape", `{"tiles": "nope"}`, ErrMalformed},
		{"unknown kind", `{"tiles":[{"id":"a","type":"dragon"}]}`, ErrInvalid},
		{"duplicate id", `{"tiles":[{"id":"a","type":"lava"},{"id":"a","type":"water"}]}`, ErrInvalid},
		{"trigger reuses tile id", `{"tiles":[{"id":"a","type":"lava"}],"triggers":[{"id":"a","targetId":"a"}]}`, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := Decode(context.Background(), strings.NewReader(tt.doc), testOptions())
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
			if lvl != nil {
				t.Error("Decode() should not return a level on error")
			}
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.json")
	if err := SaveFile(path, buildLevel(t), 40); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	lvl, err := LoadFile(context.Background(), path, testOptions())
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(lvl.Tiles) != 4 {
		t.Errorf("Tiles = %d, want 4", len(lvl.Tiles))
	}

	if _, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), testOptions()); err == nil {
		t.Error("LoadFile() on missing file should fail")
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.json")
	if err := SaveFile(path, buildLevel(t), 40); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	w, err := NewWatcher(path, testOptions())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	renamed := buildLevel(t)
	renamed.Name = "edited"
	var buf bytes.Buffer
	if err := Encode(&buf, renamed, 40); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case lvl := <-w.Levels:
		if lvl.Name != "edited" {
			t.Errorf("Reloaded name = %q, want edited", lvl.Name)
		}
	case err := <-w.Errors:
		t.Fatalf("Watcher error = %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}
}
