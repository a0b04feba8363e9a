package state

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/looplab/fsm"
)

const (
	GridSize  = 4
	CellCount = GridSize * GridSize
	PairCount = CellCount / 2

	// MismatchDelay is the default hold, in seconds, before a
	// non-matching pair flips back over.
	MismatchDelay = 1.0

	flipSpeed  = 8.0
	matchSpeed = 4.0
)

// CardState is the visibility state of a single card.
type CardState int

const (
	CardHidden CardState = iota
	CardRevealed
	CardMatched
	CardFlipping
)

func (cs CardState) String() string {
	switch cs {
	case CardHidden:
		return "hidden"
	case CardRevealed:
		return "revealed"
	case CardMatched:
		return "matched"
	case CardFlipping:
		return "flipping"
	}
	return "unknown"
}

// Card is one cell of the grid. Flip and Match track animation progress
// in [0,1]; they only affect how the card is drawn, never whether a
// logical transition may happen.
type Card struct {
	ID    string
	Row   int
	Col   int
	State CardState
	Flip  float64
	Match float64
}

// StartFlip begins the face-up flip animation.
func (c *Card) StartFlip() {
	c.State = CardFlipping
	c.Flip = 0
}

// AdvanceFlip moves the flip animation forward. Returns true once the
// card has settled face up.
func (c *Card) AdvanceFlip(dt float64) bool {
	if c.State != CardFlipping {
		return false
	}
	c.Flip += dt * flipSpeed
	if c.Flip >= 1.0 {
		c.Flip = 1.0
		c.State = CardRevealed
		return true
	}
	return false
}

// AdvanceMatch moves the matched highlight animation forward.
func (c *Card) AdvanceMatch(dt float64) bool {
	if c.State != CardMatched || c.Match >= 1.0 {
		return false
	}
	c.Match += dt * matchSpeed
	if c.Match >= 1.0 {
		c.Match = 1.0
		return true
	}
	return false
}

// FaceUp reports whether the card's image should currently be visible.
// A flipping card shows its face past the halfway point, matching the
// scale effect of the flip.
func (c *Card) FaceUp() bool {
	switch c.State {
	case CardRevealed, CardMatched:
		return true
	case CardFlipping:
		return c.Flip > 0.5
	}
	return false
}

// State holds the full board: a fixed arena of 16 cards in row-major
// order plus the indices of the (at most two) currently revealed cards.
type State struct {
	Cards    [CellCount]Card
	Revealed []int
	Hold     float64 // mismatch hold countdown, seconds
	Judged   int     // completed pair flips, match or not
	Won      bool
	Delay    float64
	FSM      *fsm.FSM

	rng *rand.Rand
}

// NewState creates an undealt board. delay is the mismatch hold in
// seconds (<= 0 selects the default). A nil rng gets a time-seeded one.
func NewState(delay float64, rng *rand.Rand) *State {
	if delay <= 0 {
		delay = MismatchDelay
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &State{
		Delay: delay,
		rng:   rng,
	}

	s.FSM = fsm.NewFSM(
		"start",
		getStateTransitions(),
		getStateCallbacks(s),
	)

	return s
}

// Deal builds and shuffles a fresh board from the given pair
// identifiers. It is only legal before the first deal and from the win
// screen; every identifier ends up on exactly two cards.
func (s *State) Deal(ids []string) error {
	if len(ids) != PairCount {
		return fmt.Errorf("deal requires %d identifiers, got %d", PairCount, len(ids))
	}
	return s.FSM.Event(context.Background(), "deal", ids)
}

// Click attempts to flip the card at (row, col). Illegal clicks are
// dropped silently: out-of-bounds positions, face-up or matched cards,
// and any click while a mismatched pair is being held face up.
func (s *State) Click(row, col int) {
	if !InBounds(row, col) {
		return
	}

	phase := s.FSM.Current()
	if phase != "idle" && phase != "oneUp" {
		return
	}

	idx := Index(row, col)
	if s.Cards[idx].State != CardHidden {
		return
	}

	_ = s.FSM.Event(context.Background(), "flip", idx)
}

// AdvanceTimers moves all card animations and the mismatch hold forward
// by dt seconds. When the hold expires the revealed pair flips back.
func (s *State) AdvanceTimers(dt float64) {
	for i := range s.Cards {
		s.Cards[i].AdvanceFlip(dt)
		s.Cards[i].AdvanceMatch(dt)
	}

	if s.FSM.Current() == "holding" {
		s.Hold -= dt
		if s.Hold <= 0 {
			s.Hold = 0
			_ = s.FSM.Event(context.Background(), "conceal")
		}
	}
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "deal", Src: []string{"start", "won"}, Dst: "idle"},

		// Flipping cards
		{Name: "flip", Src: []string{"idle"}, Dst: "oneUp"},
		{Name: "flip", Src: []string{"oneUp"}, Dst: "judging"},

		// Pair evaluation
		{Name: "match", Src: []string{"judging"}, Dst: "idle"},
		{Name: "mismatch", Src: []string{"judging"}, Dst: "holding"},
		{Name: "win", Src: []string{"judging"}, Dst: "won"},

		// Mismatch hold expiry
		{Name: "conceal", Src: []string{"holding"}, Dst: "idle"},
	}
}

func getStateCallbacks(s *State) map[string]fsm.Callback {
	return fsm.Callbacks{
		"before_deal": func(ctx context.Context, e *fsm.Event) {
			s.applyDeal(e.Args[0].([]string))
		},
		"enter_oneUp": func(ctx context.Context, e *fsm.Event) {
			s.revealAt(e.Args[0].(int))
		},
		"enter_judging": func(ctx context.Context, e *fsm.Event) {
			s.revealAt(e.Args[0].(int))
			s.Judged++

			first := &s.Cards[s.Revealed[0]]
			second := &s.Cards[s.Revealed[1]]

			if first.ID == second.ID {
				first.State = CardMatched
				first.Match = 0
				second.State = CardMatched
				second.Match = 0
				s.Revealed = nil

				if s.AllMatched() {
					_ = e.FSM.Event(ctx, "win")
					return
				}
				_ = e.FSM.Event(ctx, "match")
				return
			}

			_ = e.FSM.Event(ctx, "mismatch")
		},
		"enter_holding": func(ctx context.Context, e *fsm.Event) {
			s.Hold = s.Delay
		},
		"before_conceal": func(ctx context.Context, e *fsm.Event) {
			for _, idx := range s.Revealed {
				s.Cards[idx].State = CardHidden
				s.Cards[idx].Flip = 0
			}
			s.Revealed = nil
		},
		"enter_won": func(ctx context.Context, e *fsm.Event) {
			s.Won = true
		},
	}
}

func (s *State) applyDeal(ids []string) {
	deck := make([]string, 0, CellCount)
	for _, id := range ids {
		deck = append(deck, id, id)
	}
	s.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	for i, id := range deck {
		row, col := Coords(i)
		s.Cards[i] = Card{ID: id, Row: row, Col: col}
	}

	s.Revealed = nil
	s.Hold = 0
	s.Judged = 0
	s.Won = false
}

func (s *State) revealAt(idx int) {
	s.Cards[idx].StartFlip()
	s.Revealed = append(s.Revealed, idx)
}
