package game

import "time"

// Session tracks the per-game counters shown in the HUD: moves taken
// and elapsed time. The clock starts at the first card flip and freezes
// permanently once the game is won.
type Session struct {
	Moves   int
	Elapsed time.Duration
	Started bool
	Won     bool
}

func NewSession() *Session {
	return &Session{}
}

// Begin starts the clock. Repeated calls are harmless.
func (s *Session) Begin() {
	s.Started = true
}

// Advance moves the clock forward. It does nothing before the first
// flip or after the win.
func (s *Session) Advance(dt time.Duration) {
	if !s.Started || s.Won {
		return
	}
	s.Elapsed += dt
}

// RecordMove counts one completed pair flip, match or mismatch.
func (s *Session) RecordMove() {
	s.Moves++
}

// Freeze stops the clock at the win.
func (s *Session) Freeze() {
	s.Won = true
}

// Reset returns the session to its initial zero state.
func (s *Session) Reset() {
	*s = Session{}
}
