// Package levelio reads and writes level documents and watches them for edits.
package levelio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/telemetry"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

var (
	// ErrMalformed marks documents that are not valid JSON.
	ErrMalformed = errors.New("malformed level document")
	// ErrInvalid marks well-formed documents that describe an impossible level.
	ErrInvalid = errors.New("invalid level document")
)

// Document is the on-disk form of a level.
type Document struct {
	Name            string       `json:"name"`
	Tiles           []TileDoc    `json:"tiles"`
	Triggers        []TriggerDoc `json:"triggers"`
	GridSize        int          `json:"gridSize"`
	PowerUpDuration float64      `json:"powerUpDuration"`
	DarknessRadius  int          `json:"darknessRadius,omitempty"`
	Purpose         string       `json:"purpose,omitempty"`
	HowTo           string       `json:"howTo,omitempty"`
	Instructions    string       `json:"instructions,omitempty"`
}

// TileDoc is one placed tile. Positions are in grid cells.
type TileDoc struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Rotation      int    `json:"rotation"`
	Size          int    `json:"size"`
	IsNeutralized bool   `json:"isNeutralized,omitempty"`
	Clue          string `json:"clue,omitempty"`
}

// TriggerDoc is one trigger.
type TriggerDoc struct {
	ID       string `json:"id"`
	TargetID string `json:"targetId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// Options carries what a document needs to become a level.
type Options struct {
	Width, Height int
	CellSize      int // written as gridSize
	Catalog       *gamedata.Catalog
	IDs           world.IDGenerator // fills in missing ids; defaults to UUIDs
}

// FromLevel converts a level into its document form. Tiles spawned during play are left out.
func FromLevel(l *world.Level, cellSize int) Document {
	doc := Document{
		Name:            l.Name,
		Tiles:           make([]TileDoc, 0, len(l.Tiles)),
		Triggers:        make([]TriggerDoc, 0, len(l.Triggers)),
		GridSize:        cellSize,
		PowerUpDuration: l.PowerUpDuration,
		DarknessRadius:  l.DarknessRadius,
		Purpose:         l.Purpose,
		HowTo:           l.HowTo,
		Instructions:    l.Instructions,
	}
	for _, t := range l.Tiles {
		if t.Spawned {
			continue
		}
		doc.Tiles = append(doc.Tiles, TileDoc{
			ID:            t.ID,
			Type:          string(t.Kind),
			X:             t.X,
			Y:             t.Y,
			Rotation:      t.Rotation,
			Size:          t.Size,
			IsNeutralized: t.Neutralized,
			Clue:          t.Clue,
		})
	}
	for _, tr := range l.Triggers {
		doc.Triggers = append(doc.Triggers, TriggerDoc{ID: tr.ID, TargetID: tr.TargetID, X: tr.X, Y: tr.Y})
	}
	return doc
}

// Level builds a level from the document. Every tile kind must be in the
// catalog and ids must be unique; missing ids are generated.
func (d Document) Level(opts Options) (*world.Level, error) {
	lvl := world.NewLevel(d.Name, opts.Width, opts.Height, opts.Catalog, opts.IDs)
	lvl.PowerUpDuration = d.PowerUpDuration
	if lvl.PowerUpDuration <= 0 {
		lvl.PowerUpDuration = world.DefaultPowerUpDuration
	}
	lvl.DarknessRadius = max(0, d.DarknessRadius)
	lvl.Purpose = d.Purpose
	lvl.HowTo = d.HowTo
	lvl.Instructions = d.Instructions

	seen := mapset.New[string]()
	claim := func(id string) (string, error) {
		if id == "" {
			id = lvl.NewID()
		}
		if seen.Has(id) {
			return "", fmt.Errorf("%w: duplicate id %q", ErrInvalid, id)
		}
		seen.Put(id)
		return id, nil
	}

	for _, td := range d.Tiles {
		kind := gamedata.TileKind(td.Type)
		def := opts.Catalog.Get(kind)
		if def == nil {
			return nil, fmt.Errorf("%w: unknown tile type %q", ErrInvalid, td.Type)
		}
		id, err := claim(td.ID)
		if err != nil {
			return nil, err
		}
		size := td.Size
		if size != 1 && size != 2 {
			size = def.Size
		}
		lvl.AddTile(&world.PlacedTile{
			ID:          id,
			Kind:        kind,
			X:           td.X,
			Y:           td.Y,
			Rotation:    world.NormalizeRotation(td.Rotation),
			Size:        size,
			Neutralized: td.IsNeutralized,
			Clue:        td.Clue,
		})
	}

	for _, tr := range d.Triggers {
		id, err := claim(tr.ID)
		if err != nil {
			return nil, err
		}
		lvl.AddTrigger(&world.Trigger{ID: id, TargetID: tr.TargetID, X: tr.X, Y: tr.Y})
	}
	return lvl, nil
}

// Decode reads a level document. On any error no level is returned.
func Decode(ctx context.Context, r io.Reader, opts Options) (*world.Level, error) {
	_, span := telemetry.Tracer("levelio").Start(ctx, "level.import")
	defer span.End()

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		err = fmt.Errorf("%w: %w", ErrMalformed, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, err
	}

	lvl, err := doc.Level(opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid document")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("level.name", lvl.Name),
		attribute.Int("level.tiles", len(lvl.Tiles)),
		attribute.Int("level.triggers", len(lvl.Triggers)),
	)
	return lvl, nil
}

// Encode writes the level as an indented JSON document.
func Encode(w io.Writer, l *world.Level, cellSize int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromLevel(l, cellSize)); err != nil {
		return fmt.Errorf("encoding level %q: %w", l.Name, err)
	}
	return nil
}

// LoadFile decodes the level stored at path.
func LoadFile(ctx context.Context, path string, opts Options) (*world.Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening level: %w", err)
	}
	defer f.Close()

	lvl, err := Decode(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return lvl, nil
}

// SaveFile writes the level to path, replacing any existing file.
func SaveFile(path string, l *world.Level, cellSize int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating level file: %w", err)
	}
	if err := Encode(f, l, cellSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
