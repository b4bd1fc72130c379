// Package config provides YAML and TOML configuration loading for the
// snuake server, with embedded defaults and difficulty presets.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/snuake/internal/core"
	"github.com/vovakirdan/snuake/internal/games/snake"
	"github.com/vovakirdan/snuake/internal/multiplayer"
)

// Config contains all configuration for a snuake server.
type Config struct {
	Game    GameConfig    `yaml:"game" toml:"game"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
}

// GameConfig defines the simulation parameters.
type GameConfig struct {
	Rows           int            `yaml:"rows" toml:"rows"`
	Cols           int            `yaml:"cols" toml:"cols"`
	PropSpawnTicks int            `yaml:"prop_spawn_ticks" toml:"prop_spawn_ticks"`
	SpawnImmunity  int            `yaml:"spawn_immunity" toml:"spawn_immunity"`
	PropLifetime   int            `yaml:"prop_lifetime" toml:"prop_lifetime"` // 0 = per kind, <0 = never expire
	PropWeights    map[string]int `yaml:"prop_weights" toml:"prop_weights"`   // Keyed by prop kind name
}

// ServerConfig defines the session server parameters.
type ServerConfig struct {
	TicksPerSecond      int    `yaml:"ticks_per_second" toml:"ticks_per_second"`
	Broadcast           string `yaml:"broadcast" toml:"broadcast"` // "game" or "grid"
	DespawnOnDisconnect bool   `yaml:"despawn_on_disconnect" toml:"despawn_on_disconnect"`
	EventBuffer         int    `yaml:"event_buffer" toml:"event_buffer"`
}

// StorageConfig defines where scores are kept.
type StorageConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Weights converts the named weight table.
func (g GameConfig) Weights() (snake.PropWeights, error) {
	w := make(snake.PropWeights, len(g.PropWeights))
	for name, weight := range g.PropWeights {
		kind, err := snake.ParsePropKind(name)
		if err != nil {
			return nil, fmt.Errorf("config: prop_weights: %w", err)
		}
		w[kind] = weight
	}
	return w, nil
}

// Builder returns a GameState builder configured from g and seeded with seed.
func (g GameConfig) Builder(seed int64) (*snake.Builder, error) {
	w, err := g.Weights()
	if err != nil {
		return nil, err
	}

	return snake.NewBuilder().
		WithDimensions(g.Rows, g.Cols).
		WithPropSpawnTimer(core.NewTimer(g.PropSpawnTicks)).
		WithSpawnImmunity(g.SpawnImmunity).
		WithPropLifetime(g.PropLifetime).
		WithPropWeights(w).
		WithSeed(seed), nil
}

// Multiplayer converts the section into the server's own configuration.
func (s ServerConfig) Multiplayer() (multiplayer.ServerConfig, error) {
	mode, err := multiplayer.ParseBroadcastMode(s.Broadcast)
	if err != nil {
		return multiplayer.ServerConfig{}, fmt.Errorf("config: server: %w", err)
	}

	return multiplayer.ServerConfig{
		TickRate:            s.TicksPerSecond,
		Broadcast:           mode,
		DespawnOnDisconnect: s.DespawnOnDisconnect,
		EventBuffer:         s.EventBuffer,
	}, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if c.Game.Rows <= 0 || c.Game.Cols <= 0 {
		errs = append(errs, fmt.Errorf("game: dimensions must be positive, got %dx%d", c.Game.Rows, c.Game.Cols))
	}
	if c.Game.PropSpawnTicks <= 0 {
		errs = append(errs, fmt.Errorf("game: prop_spawn_ticks must be positive, got %d", c.Game.PropSpawnTicks))
	}
	if c.Game.SpawnImmunity <= 0 {
		errs = append(errs, fmt.Errorf("game: spawn_immunity must be positive, got %d", c.Game.SpawnImmunity))
	}
	if w, err := c.Game.Weights(); err != nil {
		errs = append(errs, err)
	} else if w.Total() == 0 {
		errs = append(errs, errors.New("game: prop_weights must have a positive entry"))
	}

	if c.Server.TicksPerSecond <= 0 || c.Server.TicksPerSecond > core.MaxTickRate {
		errs = append(errs, fmt.Errorf("server: ticks_per_second must be in 1..%d, got %d", core.MaxTickRate, c.Server.TicksPerSecond))
	}
	if _, err := multiplayer.ParseBroadcastMode(c.Server.Broadcast); err != nil {
		errs = append(errs, err)
	}

	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage: path is empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
