package core

// RuntimeConfig contains configuration passed to the game at initialization.
// PixelW/PixelH define the virtual coordinate space all gameplay geometry
// lives in; the platform projects it onto whatever terminal it has.
type RuntimeConfig struct {
	PixelW   int   // Virtual screen width in pixels
	PixelH   int   // Virtual screen height in pixels
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic board shuffles
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		PixelW:   800,
		PixelH:   600,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is the platform-facing status of a running game.
// Returned by Game.State() so the host loop can react to pauses and endings
// without reaching into gameplay internals.
type GameState struct {
	Level    int  // Current level number (1-based)
	Moves    int  // Move counter for the active attempt
	GameOver bool // Session ended; the host should leave the game view
	Paused   bool // Countdown frozen
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
