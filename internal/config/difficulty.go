package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q", s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Normal leaves the loaded values untouched.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Game.SpawnImmunity = 8
		cfg.Game.PropSpawnTicks = 3
		cfg.Server.TicksPerSecond = 6
		cfg.Game.PropWeights = map[string]int{
			"grow_food": 3,
			"bad_food":  1,
			"gold_food": 1,
			"rock":      0,
		}
	case DifficultyHard:
		cfg.Game.SpawnImmunity = 3
		cfg.Game.PropSpawnTicks = 4
		cfg.Server.TicksPerSecond = 12
		cfg.Game.PropWeights = map[string]int{
			"grow_food": 2,
			"bad_food":  2,
			"gold_food": 1,
			"rock":      1,
		}
	}
}
