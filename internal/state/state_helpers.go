package state

// Index converts grid coordinates to a row-major card index.
func Index(row, col int) int {
	return row*GridSize + col
}

// Coords converts a row-major card index back to grid coordinates.
func Coords(idx int) (row, col int) {
	return idx / GridSize, idx % GridSize
}

// InBounds reports whether (row, col) lies on the grid.
func InBounds(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}

// CardAt returns the card at (row, col).
func (s *State) CardAt(row, col int) *Card {
	return &s.Cards[Index(row, col)]
}

// RevealedCount is the number of cards currently face up awaiting
// evaluation. Matched cards do not count.
func (s *State) RevealedCount() int {
	return len(s.Revealed)
}

// Holding reports whether a mismatched pair is being held face up.
func (s *State) Holding() bool {
	return s.FSM.Current() == "holding"
}

// Phase exposes the current board phase for display and tests.
func (s *State) Phase() string {
	return s.FSM.Current()
}

// AllMatched reports whether every card on the board has been matched.
func (s *State) AllMatched() bool {
	for i := range s.Cards {
		if s.Cards[i].State != CardMatched {
			return false
		}
	}
	return true
}

// MatchedCount returns the number of matched cards.
func (s *State) MatchedCount() int {
	n := 0
	for i := range s.Cards {
		if s.Cards[i].State == CardMatched {
			n++
		}
	}
	return n
}
