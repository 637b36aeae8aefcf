// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/snaketype/internal/generator"
	"github.com/verte-zerg/snaketype/internal/model"
	"github.com/verte-zerg/snaketype/internal/session"
	statsPkg "github.com/verte-zerg/snaketype/internal/stats"
	"github.com/verte-zerg/snaketype/internal/store"
)

const (
	frameInterval = time.Second / 60
	defaultCols   = 80
	defaultRows   = 24
)

type tickMsg struct {
	at time.Time
	id int
}

// Model implements the Bubble Tea game UI.
type Model struct {
	practice          model.PracticeConfig
	store             *store.Store
	gen               *generator.Generator
	weakSet           map[rune]struct{}
	weakNoticePrinted bool
	now               func() time.Time

	width  int
	height int

	game       *session.Coordinator
	tickID     int
	lastTick   time.Time
	blurPaused bool

	finished     bool
	result       model.SessionResult
	newBest      bool
	best         model.BestScore
	hasBest      bool
	bestToday    model.BestScore
	hasBestToday bool
}

var (
	pathStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	segmentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#C89A3A")).Bold(true)
	lockedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#FF4D4F")).Bold(true)
	headStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	tailStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#389E0D"))
	wizardStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9254DE")).Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	hudStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// NewModel constructs a game model and starts the first session. A nil store
// disables result recording.
func NewModel(cfg model.PracticeConfig, st *store.Store, gen *generator.Generator, weakSet map[rune]struct{}, weakNoticePrinted bool) (*Model, error) {
	m := &Model{
		practice:          cfg,
		store:             st,
		gen:               gen,
		weakSet:           weakSet,
		weakNoticePrinted: weakNoticePrinted,
		now:               time.Now,
	}
	if err := m.startGame(); err != nil {
		return nil, err
	}
	return m, nil
}

// SetSize sets the initial terminal size before the first WindowSizeMsg.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	case tea.BlurMsg:
		if !m.finished && !m.game.Paused() {
			m.game.Pause()
			m.blurPaused = true
		}
		return m, nil
	case tea.FocusMsg:
		if m.blurPaused {
			m.resume()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.game == nil {
		return ""
	}
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = defaultCols, defaultRows
	}
	if m.finished {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.renderResults())
	}
	snap := m.game.Snapshot()
	hud := lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, m.renderHUD(snap))
	if height < 3 {
		return hud
	}
	board := m.renderBoard(snap, width, height-2)
	footer := lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return hud + "\n" + board + "\n" + footer
}

func (m *Model) tickCmd() tea.Cmd {
	id := m.tickID
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg{at: t, id: id}
	})
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	// ticks from a previous game stop here
	if msg.id != m.tickID || m.finished {
		return m, nil
	}
	if m.game.Paused() {
		m.lastTick = time.Time{}
		return m, m.tickCmd()
	}
	var dt time.Duration
	if !m.lastTick.IsZero() {
		dt = msg.at.Sub(m.lastTick)
	}
	m.lastTick = msg.at
	m.game.Tick(dt)
	if m.game.State() == session.Ended {
		m.finish()
		return m, nil
	}
	return m, m.tickCmd()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.game.Stop()
		return m, tea.Quit
	}
	if m.finished {
		switch msg.String() {
		case "enter":
			if err := m.startGame(); err != nil {
				logErrf("failed to start game: %v\n", err)
				return m, tea.Quit
			}
			return m, m.tickCmd()
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}
	if msg.Type == tea.KeyEsc {
		if m.game.Paused() {
			m.resume()
		} else {
			m.game.Pause()
		}
		return m, nil
	}
	if m.game.Paused() {
		return m, nil
	}
	switch msg.Type {
	case tea.KeySpace:
		m.game.SubmitKey(" ")
	case tea.KeyRunes:
		if msg.Paste {
			return m, nil
		}
		m.game.SubmitKey(string(msg.Runes))
	default:
		return m, nil
	}
	if m.game.State() == session.Ended {
		m.finish()
	}
	return m, nil
}

func (m *Model) resume() {
	m.game.Resume()
	m.blurPaused = false
	m.lastTick = time.Time{}
}

func (m *Model) gameConfig() model.Config {
	cfg := model.Config{
		CharSets:   m.practice.CharSets,
		Difficulty: m.practice.Difficulty,
		Duration:   m.practice.Duration,
		Levels:     m.practice.Levels,
	}
	if m.practice.FocusWeak && len(m.weakSet) > 0 {
		cfg.Weak = m.weakSet
		cfg.WeakFactor = m.practice.WeakFactor
	}
	return cfg
}

func (m *Model) startGame() error {
	game := session.New(m.gen)
	game.SetClock(m.now)
	cfg := m.gameConfig()
	err := game.Start(cfg)
	if errors.Is(err, session.ErrEmptyPool) {
		logErrln("no character sets enabled; using lowercase letters")
		m.practice.CharSets = model.DefaultCharSets
		cfg.CharSets = model.DefaultCharSets
		err = game.Start(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	m.game = game
	m.tickID++
	m.lastTick = time.Time{}
	m.blurPaused = false
	m.finished = false
	m.newBest = false
	m.loadBest()
	return nil
}

func (m *Model) loadBest() {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	key := m.game.Config().Key()
	best, ok, err := m.store.BestScore(ctx, key, nil)
	if err != nil {
		logErrf("failed to load best score: %v\n", err)
		return
	}
	m.best, m.hasBest = best, ok

	now := m.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, ok, err := m.store.BestScore(ctx, key, &midnight)
	if err != nil {
		logErrf("failed to load today's best score: %v\n", err)
		return
	}
	m.bestToday, m.hasBestToday = today, ok
}

func (m *Model) finish() {
	res, ok := m.game.Result()
	if !ok {
		return
	}
	m.finished = true
	m.result = res
	m.newBest = !m.hasBest || res.FinalWPM > m.best.FinalWPM
	if m.store == nil {
		return
	}
	if _, err := m.store.InsertSession(context.Background(), res); err != nil {
		logErrf("failed to save session: %v\n", err)
		return
	}
	m.loadBest()
	if m.practice.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	aggs, err := m.store.GetWeakChars(context.Background(), m.practice.WeakWindow)
	if err != nil {
		logErrf("failed to load weak chars: %v\n", err)
		return
	}
	if len(aggs) == 0 {
		if !m.weakNoticePrinted {
			logErrln("no stats available for weak-char focus yet; using normal generator")
			m.weakNoticePrinted = true
		}
		m.weakSet = map[rune]struct{}{}
		return
	}
	m.weakSet = statsPkg.SelectWeakChars(aggs, m.practice.WeakTop)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
