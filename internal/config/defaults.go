package config

import (
	_ "embed"
)

//go:embed defaults/snuake.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration, identical to the embedded
// defaults/snuake.yaml.
func Default() Config {
	return Config{
		Game: GameConfig{
			Rows:           16,
			Cols:           16,
			PropSpawnTicks: 5,
			SpawnImmunity:  5,
			PropLifetime:   0,
			PropWeights: map[string]int{
				"grow_food": 1,
				"bad_food":  1,
				"gold_food": 0,
				"rock":      0,
			},
		},
		Server: ServerConfig{
			TicksPerSecond:      8,
			Broadcast:           "game",
			DespawnOnDisconnect: true,
			EventBuffer:         256,
		},
		Storage: StorageConfig{
			Path: "~/.snuake/scores.db",
		},
	}
}
