package game

import (
	"log/slog"

	"github.com/samdwyer/dungeonbuilder/internal/config"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
)

// Config holds what the terminal application needs to start.
type Config struct {
	Rules   config.Rules
	Catalog *gamedata.Catalog

	// LevelPath is loaded at start and written by the save key.
	// Empty means start from a blank level with nowhere to save.
	LevelPath string

	// Document is an encoded level loaded at start when LevelPath is empty,
	// such as one of the embedded samples.
	Document []byte

	// Watch reloads LevelPath whenever it changes on disk (build mode only).
	Watch bool

	// Play starts the session in play mode instead of build mode.
	Play bool

	Logger *slog.Logger
}
