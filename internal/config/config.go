// Package config loads the rule and timing configuration for the engine.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when no path is given.
const DefaultPath = "dungeonbuilder.yaml"

// Rules holds every tunable number the engine uses.
type Rules struct {
	Grid    GridConfig   `yaml:"grid"`
	Timing  TimingConfig `yaml:"timing"`
	Effects EffectConfig `yaml:"effects"`
	Play    PlayConfig   `yaml:"play"`
}

type GridConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cellSize"` // exported as the document's gridSize
}

type TimingConfig struct {
	EffectTick      time.Duration `yaml:"effectTick"`
	MonsterTick     time.Duration `yaml:"monsterTick"`
	SlowMonsterTick time.Duration `yaml:"slowMonsterTick"`
	TrappedTick     time.Duration `yaml:"trappedTick"`
	FlashTick       time.Duration `yaml:"flashTick"`
	Dying           time.Duration `yaml:"dying"`
	SpawnDelay      time.Duration `yaml:"spawnDelay"`
	JumpAction      time.Duration `yaml:"jumpAction"`
	AutoRun         time.Duration `yaml:"autoRun"`
}

type EffectConfig struct {
	Light       time.Duration `yaml:"light"`
	Speed       time.Duration `yaml:"speed"`
	Jump        time.Duration `yaml:"jump"`
	MonsterSlow time.Duration `yaml:"monsterSlow"`
	WebSlow     time.Duration `yaml:"webSlow"`
}

type PlayConfig struct {
	TrappedLimit           int     `yaml:"trappedLimit"`
	HealthPotion           int     `yaml:"healthPotion"`
	MaxHealth              int     `yaml:"maxHealth"`
	DefaultPowerUpDuration float64 `yaml:"defaultPowerUpDuration"` // seconds
}

// Default returns the rules the game ships with.
func Default() Rules {
	return Rules{
		Grid: GridConfig{Width: 20, Height: 15, CellSize: 40},
		Timing: TimingConfig{
			EffectTick:      100 * time.Millisecond,
			MonsterTick:     500 * time.Millisecond,
			SlowMonsterTick: time.Second,
			TrappedTick:     time.Second,
			FlashTick:       200 * time.Millisecond,
			Dying:           time.Second,
			SpawnDelay:      5 * time.Second,
			JumpAction:      500 * time.Millisecond,
			AutoRun:         250 * time.Millisecond,
		},
		Effects: EffectConfig{
			Light:       10 * time.Second,
			Speed:       10 * time.Second,
			Jump:        10 * time.Second,
			MonsterSlow: 10 * time.Second,
			WebSlow:     5 * time.Second,
		},
		Play: PlayConfig{
			TrappedLimit:           10,
			HealthPotion:           25,
			MaxHealth:              100,
			DefaultPowerUpDuration: 15,
		},
	}
}

// Load reads rules from a YAML file on top of the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Rules, error) {
	rules := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return rules, nil
	}
	if err != nil {
		return rules, fmt.Errorf("loading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("loading config: %w", err)
	}

	if err := Validate(rules); err != nil {
		return rules, fmt.Errorf("loading config: %w", err)
	}

	return rules, nil
}

// Validate checks that every value is usable by the engine.
func Validate(r Rules) error {
	if r.Grid.Width <= 0 || r.Grid.Height <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", r.Grid.Width, r.Grid.Height)
	}
	ticks := map[string]time.Duration{
		"effectTick":      r.Timing.EffectTick,
		"monsterTick":     r.Timing.MonsterTick,
		"slowMonsterTick": r.Timing.SlowMonsterTick,
		"trappedTick":     r.Timing.TrappedTick,
		"flashTick":       r.Timing.FlashTick,
		"dying":           r.Timing.Dying,
		"autoRun":         r.Timing.AutoRun,
	}
	for name, d := range ticks {
		if d <= 0 {
			return fmt.Errorf("timing.%s must be positive, got %s", name, d)
		}
	}
	if r.Timing.SpawnDelay < 0 {
		return fmt.Errorf("timing.spawnDelay must not be negative")
	}
	if r.Play.TrappedLimit <= 0 {
		return fmt.Errorf("play.trappedLimit must be positive, got %d", r.Play.TrappedLimit)
	}
	if r.Play.MaxHealth <= 0 {
		return fmt.Errorf("play.maxHealth must be positive, got %d", r.Play.MaxHealth)
	}
	if r.Play.DefaultPowerUpDuration <= 0 {
		return fmt.Errorf("play.defaultPowerUpDuration must be positive")
	}
	return nil
}

// PowerUpDuration converts a duration in seconds to a time.Duration.
func PowerUpDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
