package core

// Game is the interface the platform drives.
// Games contain pure logic with no terminal dependencies; the platform handles
// input mapping, scheduling and drawing the screen buffer.
type Game interface {
	// ID returns the identifier used for leaderboards (e.g. a song ID).
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a fresh run. Called once at start and again on retry.
	Reset(cfg RuntimeConfig) error

	// Step advances the game by one frame, reading its own clock.
	Step(in InputFrame) StepResult

	// Press delivers an action the instant it is dequeued, without waiting
	// for the next frame.
	Press(a Action)

	// Render draws the current state into the provided screen buffer.
	Render(dst *Screen)

	// State returns the current game state.
	State() GameState

	// Close releases resources held by the game (audio devices, files).
	Close() error
}
