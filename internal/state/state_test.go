package state

import (
	"fmt"
	"math/rand"
	"testing"
)

func testIDs() []string {
	ids := make([]string, PairCount)
	for i := range ids {
		ids[i] = fmt.Sprintf("img_%d", i)
	}
	return ids
}

func newTestState(t *testing.T, seed int64) *State {
	t.Helper()
	s := NewState(MismatchDelay, rand.New(rand.NewSource(seed)))
	if err := s.Deal(testIDs()); err != nil {
		t.Fatalf("Deal failed: %v", err)
	}
	return s
}

// indicesOf returns the card indices holding the given identifier.
func indicesOf(s *State, id string) []int {
	var out []int
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			out = append(out, i)
		}
	}
	return out
}

func clickIndex(s *State, idx int) {
	row, col := Coords(idx)
	s.Click(row, col)
}

// mismatchIndices returns two hidden cards with different identifiers.
func mismatchIndices(t *testing.T, s *State) (int, int) {
	t.Helper()
	for i := range s.Cards {
		if s.Cards[i].State != CardHidden {
			continue
		}
		for j := i + 1; j < len(s.Cards); j++ {
			if s.Cards[j].State == CardHidden && s.Cards[j].ID != s.Cards[i].ID {
				return i, j
			}
		}
	}
	t.Fatal("no mismatching hidden pair on board")
	return 0, 0
}

func TestState_DealInvariant(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		s := newTestState(t, seed)

		counts := make(map[string]int)
		for i := range s.Cards {
			counts[s.Cards[i].ID]++
		}

		if len(counts) != PairCount {
			t.Errorf("seed %d: expected %d distinct identifiers, got %d", seed, PairCount, len(counts))
		}
		for id, n := range counts {
			if n != 2 {
				t.Errorf("seed %d: identifier %s appears %d times, want 2", seed, id, n)
			}
		}
	}
}

func TestState_DealAssignsGridPositions(t *testing.T) {
	s := newTestState(t, 1)
	for i := range s.Cards {
		row, col := Coords(i)
		if s.Cards[i].Row != row || s.Cards[i].Col != col {
			t.Errorf("card %d has position (%d,%d), want (%d,%d)",
				i, s.Cards[i].Row, s.Cards[i].Col, row, col)
		}
		if s.Cards[i].State != CardHidden {
			t.Errorf("card %d dealt in state %s, want hidden", i, s.Cards[i].State)
		}
	}
}

func TestState_DealRequiresPairCount(t *testing.T) {
	s := NewState(MismatchDelay, rand.New(rand.NewSource(1)))
	if err := s.Deal([]string{"a", "b"}); err == nil {
		t.Error("expected error dealing with too few identifiers")
	}
}

func TestState_ClickRevealsCard(t *testing.T) {
	s := newTestState(t, 2)

	clickIndex(s, 0)

	if s.Cards[0].State != CardFlipping {
		t.Errorf("clicked card in state %s, want flipping", s.Cards[0].State)
	}
	if s.RevealedCount() != 1 {
		t.Errorf("RevealedCount = %d, want 1", s.RevealedCount())
	}
	if s.Phase() != "oneUp" {
		t.Errorf("phase = %s, want oneUp", s.Phase())
	}
}

func TestState_ClickSameCardTwiceIsNoOp(t *testing.T) {
	s := newTestState(t, 3)

	clickIndex(s, 0)
	clickIndex(s, 0)

	if s.RevealedCount() != 1 {
		t.Errorf("RevealedCount = %d after double click, want 1", s.RevealedCount())
	}
	if s.Judged != 0 {
		t.Errorf("Judged = %d after double click, want 0", s.Judged)
	}
}

func TestState_MatchingPair(t *testing.T) {
	s := newTestState(t, 4)

	pair := indicesOf(s, "img_0")
	clickIndex(s, pair[0])
	clickIndex(s, pair[1])

	if s.Cards[pair[0]].State != CardMatched || s.Cards[pair[1]].State != CardMatched {
		t.Errorf("pair states = %s/%s, want matched/matched",
			s.Cards[pair[0]].State, s.Cards[pair[1]].State)
	}
	if s.RevealedCount() != 0 {
		t.Errorf("RevealedCount = %d after match, want 0", s.RevealedCount())
	}
	if s.Holding() {
		t.Error("match must not start the mismatch hold")
	}
	if s.Judged != 1 {
		t.Errorf("Judged = %d, want 1", s.Judged)
	}
	if s.Phase() != "idle" {
		t.Errorf("phase = %s, want idle", s.Phase())
	}
}

func TestState_MismatchHold(t *testing.T) {
	s := newTestState(t, 5)

	a, b := mismatchIndices(t, s)
	clickIndex(s, a)
	clickIndex(s, b)

	if !s.Holding() {
		t.Fatal("expected board to be holding after mismatch")
	}
	if s.Hold != s.Delay {
		t.Errorf("Hold = %v, want %v", s.Hold, s.Delay)
	}
	if s.Judged != 1 {
		t.Errorf("Judged = %d, want 1", s.Judged)
	}

	// Half the delay: still face up.
	s.AdvanceTimers(0.5)
	if !s.Holding() {
		t.Error("hold expired too early")
	}
	if s.RevealedCount() != 2 {
		t.Errorf("RevealedCount = %d mid-hold, want 2", s.RevealedCount())
	}

	// Past the full second: both flip back.
	s.AdvanceTimers(0.6)
	if s.Holding() {
		t.Error("hold did not expire")
	}
	if s.Cards[a].State != CardHidden || s.Cards[b].State != CardHidden {
		t.Errorf("pair states = %s/%s after hold, want hidden/hidden",
			s.Cards[a].State, s.Cards[b].State)
	}
	if s.RevealedCount() != 0 {
		t.Errorf("RevealedCount = %d after hold, want 0", s.RevealedCount())
	}
	if s.Phase() != "idle" {
		t.Errorf("phase = %s, want idle", s.Phase())
	}
}

func TestState_ThirdClickDroppedDuringHold(t *testing.T) {
	s := newTestState(t, 6)

	a, b := mismatchIndices(t, s)
	clickIndex(s, a)
	clickIndex(s, b)

	var third int
	for i := range s.Cards {
		if s.Cards[i].State == CardHidden {
			third = i
			break
		}
	}
	clickIndex(s, third)

	if s.Cards[third].State != CardHidden {
		t.Errorf("third card state = %s during hold, want hidden", s.Cards[third].State)
	}
	if s.RevealedCount() != 2 {
		t.Errorf("RevealedCount = %d, want 2", s.RevealedCount())
	}
	if s.Judged != 1 {
		t.Errorf("Judged = %d, want 1", s.Judged)
	}
}

func TestState_NeverMoreThanTwoRevealed(t *testing.T) {
	s := newTestState(t, 7)

	// Hammer every cell repeatedly, advancing time a little between
	// clicks so holds eventually expire.
	for round := 0; round < 10; round++ {
		for i := 0; i < CellCount; i++ {
			clickIndex(s, i)
			if s.RevealedCount() > 2 {
				t.Fatalf("RevealedCount = %d, invariant allows at most 2", s.RevealedCount())
			}
			s.AdvanceTimers(0.3)
		}
	}
}

func TestState_WinDetection(t *testing.T) {
	s := newTestState(t, 8)

	for i, id := range testIDs() {
		if s.Won {
			t.Fatalf("Won before all pairs matched (after %d pairs)", i)
		}
		pair := indicesOf(s, id)
		clickIndex(s, pair[0])
		clickIndex(s, pair[1])
	}

	if !s.Won {
		t.Error("all pairs matched but Won is false")
	}
	if !s.AllMatched() {
		t.Error("AllMatched false after matching every pair")
	}
	if s.Phase() != "won" {
		t.Errorf("phase = %s, want won", s.Phase())
	}
	if s.Judged != PairCount {
		t.Errorf("Judged = %d, want %d", s.Judged, PairCount)
	}

	// Clicks on the won board do nothing.
	clickIndex(s, 0)
	if s.RevealedCount() != 0 {
		t.Error("click accepted on a won board")
	}
}

func TestState_RedealFromWin(t *testing.T) {
	s := newTestState(t, 9)

	for _, id := range testIDs() {
		pair := indicesOf(s, id)
		clickIndex(s, pair[0])
		clickIndex(s, pair[1])
	}
	if !s.Won {
		t.Fatal("setup: board not won")
	}

	if err := s.Deal(testIDs()); err != nil {
		t.Fatalf("re-deal from win failed: %v", err)
	}
	if s.Won {
		t.Error("Won not reset by re-deal")
	}
	if s.Judged != 0 {
		t.Errorf("Judged = %d after re-deal, want 0", s.Judged)
	}
	if s.Phase() != "idle" {
		t.Errorf("phase = %s after re-deal, want idle", s.Phase())
	}

	counts := make(map[string]int)
	for i := range s.Cards {
		if s.Cards[i].State != CardHidden {
			t.Errorf("card %d in state %s after re-deal, want hidden", i, s.Cards[i].State)
		}
		counts[s.Cards[i].ID]++
	}
	for id, n := range counts {
		if n != 2 {
			t.Errorf("identifier %s appears %d times after re-deal, want 2", id, n)
		}
	}
}

func TestState_DealRejectedMidGame(t *testing.T) {
	s := newTestState(t, 10)
	clickIndex(s, 0)

	if err := s.Deal(testIDs()); err == nil {
		t.Error("expected deal to be rejected mid-game")
	}
	if s.RevealedCount() != 1 {
		t.Errorf("rejected deal disturbed the board: RevealedCount = %d", s.RevealedCount())
	}
}

func TestCard_FlipAnimation(t *testing.T) {
	c := Card{ID: "x"}
	c.StartFlip()

	if c.State != CardFlipping {
		t.Fatalf("state = %s after StartFlip, want flipping", c.State)
	}
	if c.FaceUp() {
		t.Error("card face up at flip progress 0")
	}

	// flipSpeed is 8/s, so 1/16s lands at progress 0.5.
	c.AdvanceFlip(1.0 / 16.0)
	if c.State != CardFlipping {
		t.Errorf("state = %s mid-flip, want flipping", c.State)
	}

	if done := c.AdvanceFlip(1.0 / 16.0); !done {
		t.Error("flip did not complete after full duration")
	}
	if c.State != CardRevealed {
		t.Errorf("state = %s after flip, want revealed", c.State)
	}
	if !c.FaceUp() {
		t.Error("revealed card not face up")
	}
}

func TestCard_MatchAnimation(t *testing.T) {
	c := Card{ID: "x", State: CardMatched}

	if done := c.AdvanceMatch(0.1); done {
		t.Error("match animation finished too early")
	}
	if done := c.AdvanceMatch(1.0); !done {
		t.Error("match animation did not finish")
	}
	if c.Match != 1.0 {
		t.Errorf("Match = %v, want 1.0", c.Match)
	}

	// Finished animations stay finished.
	if c.AdvanceMatch(0.1) {
		t.Error("AdvanceMatch reported completion twice")
	}
}

func TestCardState_String(t *testing.T) {
	tests := []struct {
		state CardState
		want  string
	}{
		{CardHidden, "hidden"},
		{CardRevealed, "revealed"},
		{CardMatched, "matched"},
		{CardFlipping, "flipping"},
		{CardState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("CardState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestIndexCoords_RoundTrip(t *testing.T) {
	for idx := 0; idx < CellCount; idx++ {
		row, col := Coords(idx)
		if !InBounds(row, col) {
			t.Errorf("Coords(%d) = (%d,%d) out of bounds", idx, row, col)
		}
		if back := Index(row, col); back != idx {
			t.Errorf("Index(Coords(%d)) = %d", idx, back)
		}
	}

	if InBounds(-1, 0) || InBounds(0, GridSize) {
		t.Error("InBounds accepted an out-of-range position")
	}
}
