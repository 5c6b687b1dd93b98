package data

import (
	"bytes"
	"context"
	"testing"

	"github.com/samdwyer/dungeonbuilder/internal/config"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/levelio"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

func TestSamples(t *testing.T) {
	names, err := Samples()
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	want := []string{"crypt", "tutorial"}
	if len(names) != len(want) {
		t.Fatalf("Samples() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Samples()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSamplesAreValidLevels(t *testing.T) {
	rules := config.Default()
	opts := levelio.Options{
		Width:    rules.Grid.Width,
		Height:   rules.Grid.Height,
		CellSize: rules.Grid.CellSize,
		Catalog:  gamedata.MustLoadCatalog(),
	}
	names, err := Samples()
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			b, err := Sample(name)
			if err != nil {
				t.Fatalf("Sample(%q) error = %v", name, err)
			}
			lvl, err := levelio.Decode(context.Background(), bytes.NewReader(b), opts)
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", name, err)
			}
			for _, issue := range world.Validate(lvl) {
				if issue.Severity == world.SeverityError {
					t.Errorf("Validate(%q) reported %s", name, issue)
				}
			}
		})
	}
}

func TestUnknownSample(t *testing.T) {
	if _, err := Sample("nowhere"); err == nil {
		t.Error("Sample(nowhere) should fail")
	}
}
