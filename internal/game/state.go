// Package game runs a level: the build/play session, its periodic tasks and
// the terminal loop around it.
package game

import "time"

// Mode is the editor mode the session is in.
type Mode int

const (
	// ModeBuild lets the level be edited; nothing moves.
	ModeBuild Mode = iota
	// ModePlay runs the level with a player, monsters and timers.
	ModePlay
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeBuild:
		return "build"
	case ModePlay:
		return "play"
	default:
		return "unknown"
	}
}

// Phase is where the player stands in the death and win state machine.
type Phase int

const (
	// PhaseAlive is normal play.
	PhaseAlive Phase = iota
	// PhaseDying is the flashing pause before respawning at the entrance.
	PhaseDying
	// PhaseWon means the artefact reached the exit.
	PhaseWon
	// PhaseGameOver means the player stayed trapped too long.
	PhaseGameOver
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAlive:
		return "alive"
	case PhaseDying:
		return "dying"
	case PhaseWon:
		return "won"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// SessionState is the play-session record shown to the player.
type SessionState struct {
	Dying        bool
	GameOver     bool
	Win          bool
	HasArtefact  bool
	Health       int
	DeathCount   int
	TrappedTicks int           // consecutive trapped checks that found no way out
	PlayTime     time.Duration // drives the monster spawn delay
	Paused       bool
	Running      bool // auto-run repeats the last direction
	Flashing     bool
}

// Phase derives the state machine phase from the flags.
func (s SessionState) Phase() Phase {
	switch {
	case s.GameOver:
		return PhaseGameOver
	case s.Win:
		return PhaseWon
	case s.Dying:
		return PhaseDying
	default:
		return PhaseAlive
	}
}
