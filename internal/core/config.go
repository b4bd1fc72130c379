package core

import "time"

// MaxTickRate is the fastest supported tick rate: one tick per millisecond.
const MaxTickRate = 1000

// RuntimeConfig contains the process-level settings the session layer needs
// to drive a simulation.
type RuntimeConfig struct {
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed for deterministic gameplay; 0 means time-based
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 8,
		Seed:     0, // 0 means use current time in the platform layer
	}
}

// TickPeriod returns the wall-clock duration of one tick
// (1000/TickRate milliseconds). Non-positive rates fall back to one tick per
// second; rates above MaxTickRate are clamped to one tick per millisecond.
func (c RuntimeConfig) TickPeriod() time.Duration {
	if c.TickRate <= 0 {
		return time.Second
	}
	return time.Duration(1000/min(c.TickRate, MaxTickRate)) * time.Millisecond
}

// ResolveSeed returns Seed, or a time-derived seed when Seed is zero.
func (c RuntimeConfig) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
