package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-pairs/internal/config"
	"go-pairs/internal/game"
	"go-pairs/internal/state"
	"go-pairs/internal/stats"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	colorize "github.com/fatih/color"
)

const (
	cardInnerWidth  = game.SurfaceSide
	cardInnerHeight = game.SurfaceSide / 2
	cardCellWidth   = cardInnerWidth + 2  // content + border
	cardCellHeight  = cardInnerHeight + 2 // content + border
	cardGap         = 1

	boardWidth  = state.GridSize*cardCellWidth + (state.GridSize-1)*cardGap
	boardHeight = state.GridSize * cardCellHeight
)

type keyMap struct {
	Quit    key.Binding
	Restart key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Restart, k.Quit}}
}

var defaultKeys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
	Restart: key.NewBinding(
		key.WithKeys(" ", "space", "r"),
		key.WithHelp("space", "play again"),
	),
}

type TickMsg time.Time

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

type LocalState struct {
	Game *game.Game

	FPS      int
	Keys     keyMap
	Help     help.Model
	Width    int
	Height   int
	LastTick time.Time

	boardTop int // first board row in the current view, for hit testing

	hiddenStyle   lipgloss.Style
	revealedStyle lipgloss.Style
	matchedStyle  lipgloss.Style
	hudStyle      lipgloss.Style
	winStyle      lipgloss.Style
	hiddenBlock   string
}

func initialModel(g *game.Game, theme config.Theme, fps int) *LocalState {
	blank := strings.Repeat(" ", cardInnerWidth)
	rows := make([]string, cardInnerHeight)
	for i := range rows {
		rows[i] = blank
	}

	return &LocalState{
		Game: g,
		FPS:  fps,
		Keys: defaultKeys,
		Help: help.New(),

		hiddenStyle: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(theme.Background.Hex())).
			Background(lipgloss.Color(theme.CardHidden.Hex())),
		revealedStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ffffff")),
		matchedStyle: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(theme.CardMatched.Hex())),
		hudStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.HUD.Hex())),
		winStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.WinText.Hex())).
			Bold(true),
		hiddenBlock: strings.Join(rows, "\n"),
	}
}

func (s *LocalState) Init() tea.Cmd {
	return tickCmd(s.FPS)
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		now := time.Time(msg)
		dt := 1.0 / float64(s.FPS)
		if !s.LastTick.IsZero() {
			dt = now.Sub(s.LastTick).Seconds()
		}
		// A stalled terminal should not fast-forward the game.
		if dt < 0 {
			dt = 0
		} else if dt > 0.25 {
			dt = 0.25
		}
		s.LastTick = now

		s.Game.HandleTick(dt)
		s.Keys.Restart.SetEnabled(s.Game.Session.Won)
		return s, tickCmd(s.FPS)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.Keys.Quit):
			return s, tea.Quit
		case key.Matches(msg, s.Keys.Restart):
			if s.Game.Session.Won {
				_ = s.Game.Restart()
			}
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if row, col, ok := s.hitTest(msg.X, msg.Y); ok {
				s.Game.HandleClick(row, col)
			}
		}

	case tea.WindowSizeMsg:
		s.Width = msg.Width
		s.Height = msg.Height
		s.Help.Width = msg.Width
	}

	return s, nil
}

// hitTest maps terminal cell coordinates to a grid position. Clicks on
// a card's border count as the card; clicks in the gaps do not.
func (s *LocalState) hitTest(x, y int) (row, col int, ok bool) {
	relY := y - s.boardTop
	if relY < 0 || relY >= boardHeight {
		return 0, 0, false
	}
	row = relY / cardCellHeight

	if x < 0 || x >= boardWidth {
		return 0, 0, false
	}
	col = x / (cardCellWidth + cardGap)
	if x%(cardCellWidth+cardGap) >= cardCellWidth {
		return 0, 0, false
	}

	return row, col, true
}

func (s *LocalState) View() string {
	if s.Width > 0 && (s.Width < boardWidth || s.Height < boardHeight+4) {
		return s.hudStyle.Render(
			fmt.Sprintf("Terminal too small: need at least %dx%d cells.\nPress esc to quit.",
				boardWidth, boardHeight+4))
	}

	headerLines := s.renderHeader()
	s.boardTop = len(headerLines)

	board := s.renderBoard()
	helpLine := s.Help.View(s.Keys)

	return strings.Join(headerLines, "\n") + "\n" + board + "\n\n" + helpLine + "\n"
}

func (s *LocalState) renderHeader() []string {
	sess := s.Game.Session

	if sess.Won {
		lines := []string{
			s.winStyle.Render("Congratulations!"),
			s.winStyle.Render(fmt.Sprintf("Completed in %d moves and %.1f seconds!",
				sess.Moves, sess.Elapsed.Seconds())),
		}
		if best, ok := s.Game.History.Best(); ok && s.Game.History.Count() > 1 {
			lines = append(lines, s.hudStyle.Render(
				fmt.Sprintf("Best this run: %d moves in %.1fs (%d games played)",
					best.Moves, best.Elapsed.Seconds(), s.Game.History.Count())))
		}
		return append(lines, "")
	}

	hud := fmt.Sprintf("Moves: %d   Time: %.1fs", sess.Moves, sess.Elapsed.Seconds())
	return []string{s.hudStyle.Render(hud), ""}
}

func (s *LocalState) renderBoard() string {
	gap := strings.Repeat(" ", cardGap)
	rows := make([]string, 0, state.GridSize)

	for row := 0; row < state.GridSize; row++ {
		cells := make([]string, 0, state.GridSize*2-1)
		for col := 0; col < state.GridSize; col++ {
			if col > 0 {
				cells = append(cells, gap)
			}
			cells = append(cells, s.renderCard(s.Game.State.CardAt(row, col)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s *LocalState) renderCard(c *state.Card) string {
	surface := s.Game.SurfaceFor(c.ID)

	switch {
	case c.State == state.CardMatched:
		return s.matchedStyle.Render(strings.Join(surface.RenderMatched(c.Match), "\n"))
	case c.FaceUp():
		lines := surface.Render()
		if c.State == state.CardFlipping {
			lines = surface.RenderScaled(c.Flip)
		}
		return s.revealedStyle.Render(strings.Join(lines, "\n"))
	default:
		return s.hiddenStyle.Render(s.hiddenBlock)
	}
}

type fpsFlag int

func (f *fpsFlag) String() string {
	return fmt.Sprint(int(*f))
}

func (f *fpsFlag) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v < 5 || v > 60 {
		return fmt.Errorf("fps must be between 5 and 60")
	}
	*f = fpsFlag(v)
	return nil
}

type delayFlag float64

func (d *delayFlag) String() string {
	return fmt.Sprintf("%gs", float64(*d))
}

func (d *delayFlag) Set(s string) error {
	if dur, err := time.ParseDuration(s); err == nil {
		if dur <= 0 {
			return fmt.Errorf("delay must be positive")
		}
		*d = delayFlag(dur.Seconds())
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v <= 0 {
			return fmt.Errorf("delay must be positive")
		}
		*d = delayFlag(v)
		return nil
	}
	return fmt.Errorf("invalid delay %q (use seconds or a duration like 750ms)", s)
}

func main() {
	var imageDir string
	var configPath string
	var fps fpsFlag
	var delay delayFlag = state.MismatchDelay

	flag.StringVar(&imageDir, "images", "", "Directory of card images (overrides config)")
	flag.StringVar(&imageDir, "i", "", "Directory of card images (shorthand)")
	flag.StringVar(&configPath, "config", "", "Alternate config file path")
	flag.Var(&fps, "fps", "Frame rate of the game loop (5-60)")
	flag.Var(&delay, "delay", "Mismatch hold before cards flip back (e.g. 1s, 750ms)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nA 4x4 tile memory-matching game for the terminal.\n")
		fmt.Fprintf(os.Stderr, "Click cards to flip them and find all eight pairs.\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "   -i, --images=DIR     Directory of card images (overrides config)\n")
		fmt.Fprintf(os.Stderr, "       --config=FILE    Alternate config file path\n")
		fmt.Fprintf(os.Stderr, "       --fps=N          Frame rate of the game loop (5-60)\n")
		fmt.Fprintf(os.Stderr, "       --delay=D        Mismatch hold before cards flip back (e.g. 1s, 750ms)\n")
		fmt.Fprintf(os.Stderr, "   -h, --help           Show this help message\n")
	}

	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		colorize.New(colorize.FgYellow).Fprintf(os.Stderr, "could not load config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if imageDir != "" {
		cfg.ImageDir = imageDir
	}
	if fps > 0 {
		cfg.FPS = int(fps)
	}
	if cfg.FPS < 5 || cfg.FPS > 60 {
		cfg.FPS = config.DefaultConfig().FPS
	}

	theme, warnings := cfg.BuildTheme()
	for _, w := range warnings {
		colorize.New(colorize.FgYellow).Fprintln(os.Stderr, w)
	}

	surfaces, err := game.LoadSurfaces(cfg.ImageDir, state.PairCount, game.SurfaceSide)
	if err != nil {
		colorize.New(colorize.FgRed).Fprintf(os.Stderr, "Error loading card images: %v\n", err)
		os.Exit(1)
	}

	g, err := game.NewGame(surfaces, float64(delay), nil, stats.NewHistory())
	if err != nil {
		colorize.New(colorize.FgRed).Fprintf(os.Stderr, "Error setting up the game: %v\n", err)
		os.Exit(1)
	}

	model := initialModel(g, theme, cfg.FPS)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error starting the program: %v\n", err)
		os.Exit(1)
	}
}
