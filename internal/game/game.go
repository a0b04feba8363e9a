package game

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go-pairs/internal/state"
	"go-pairs/internal/stats"
)

// Game ties the board state machine to the session counters and the
// shared image surfaces. The surfaces outlive restarts; board and
// session are rebuilt in place.
type Game struct {
	State    *state.State
	Session  *Session
	Surfaces map[string]*Surface
	History  *stats.History

	ids []string
}

// NewGame deals a board from the given surfaces. Exactly
// state.PairCount surfaces are used (sorted by identifier, so a known
// surface map gives a reproducible selection). delay is the mismatch
// hold in seconds; rng may be nil for a time-seeded shuffle; history
// may be nil when no run history is wanted.
func NewGame(surfaces map[string]*Surface, delay float64, rng *rand.Rand, history *stats.History) (*Game, error) {
	if len(surfaces) < state.PairCount {
		return nil, fmt.Errorf("need %d surfaces, got %d", state.PairCount, len(surfaces))
	}

	ids := make([]string, 0, len(surfaces))
	for id := range surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	ids = ids[:state.PairCount]

	g := &Game{
		State:    state.NewState(delay, rng),
		Session:  NewSession(),
		Surfaces: surfaces,
		History:  history,
		ids:      ids,
	}

	if err := g.State.Deal(g.ids); err != nil {
		return nil, err
	}
	return g, nil
}

// HandleClick maps a click on a grid cell into the board state machine
// and keeps the session counters in sync with what happened.
func (g *Game) HandleClick(row, col int) {
	if g.Session.Won {
		return
	}

	judgedBefore := g.State.Judged
	g.State.Click(row, col)

	if !g.Session.Started && g.State.RevealedCount() > 0 {
		g.Session.Begin()
	}
	if g.State.Judged > judgedBefore {
		g.Session.RecordMove()
	}
	if g.State.Won && !g.Session.Won {
		g.Session.Freeze()
		if g.History != nil {
			g.History.Add(stats.Result{
				Moves:   g.Session.Moves,
				Elapsed: g.Session.Elapsed,
				When:    time.Now(),
			})
		}
	}
}

// HandleTick advances animations, the mismatch hold, and the clock by
// dt seconds.
func (g *Game) HandleTick(dt float64) {
	g.State.AdvanceTimers(dt)
	g.Session.Advance(time.Duration(dt * float64(time.Second)))
}

// Restart re-deals the board and zeroes the session. It is only legal
// from the win screen.
func (g *Game) Restart() error {
	if err := g.State.Deal(g.ids); err != nil {
		return fmt.Errorf("restart failed: %w", err)
	}
	g.Session.Reset()
	return nil
}

// SurfaceFor returns the shared surface for a card identifier.
func (g *Game) SurfaceFor(id string) *Surface {
	return g.Surfaces[id]
}
