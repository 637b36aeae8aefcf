package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/snaketype/internal/input"
	"github.com/verte-zerg/snaketype/internal/model"
	"github.com/verte-zerg/snaketype/internal/session"
)

const (
	pathGlyph   = "·"
	wizardGlyph = "Ω"
	tailGlyph   = "~"
	lockBarSize = 10
)

// Head arrows indexed by octant, clockwise from east. Screen y grows down.
var headGlyphs = []string{"→", "↘", "↓", "↙", "←", "↖", "↑", "↗"}

func headGlyph(angle float64) string {
	octant := int(math.Round(angle / (math.Pi / 4)))
	return headGlyphs[((octant%8)+8)%8]
}

func (m *Model) renderBoard(snap session.Snapshot, cols, rows int) string {
	cfg := m.game.Config()
	cv := newCanvas(cols, rows, cfg.Width, cfg.Height)

	steps := (cols + rows) * max(cfg.Levels, 1) * 2
	for _, s := range m.game.Track().Trace(steps) {
		cv.set(s.Point(), pathGlyph, &pathStyle)
	}
	cv.set(snap.Target, wizardGlyph, &wizardStyle)
	if snap.Remaining > 0 {
		cv.set(snap.Tail.Point(), tailGlyph, &tailStyle)
	}
	// back to front so segments nearer the head stay visible
	for i := len(snap.Segments) - 1; i >= 0; i-- {
		seg := snap.Segments[i]
		style := &segmentStyle
		if seg.Active {
			style = &activeStyle
			if snap.Locked {
				style = &lockedStyle
			}
		}
		cv.set(seg.Position.Point(), string(seg.Label), style)
	}
	cv.set(snap.Head.Point(), headGlyph(snap.Head.Angle), &headStyle)
	return cv.String()
}

func (m *Model) renderHUD(snap session.Snapshot) string {
	segments := []string{
		fmt.Sprintf("WPM %d", snap.WPM),
		fmt.Sprintf("Mistakes %d", snap.Mistakes),
		fmt.Sprintf("Letters %d", snap.Remaining),
		fmt.Sprintf("Time %.1fs", snap.TimeLeft.Seconds()),
	}
	line := hudStyle.Render(strings.Join(segments, "  "))
	switch snap.Feedback {
	case input.Correct:
		line += "  " + correctStyle.Render("✓")
	case input.Incorrect:
		line += "  " + incorrectStyle.Render("✗")
	}
	if snap.Locked {
		line += "  " + incorrectStyle.Render("LOCKED "+lockBar(snap.LockProgress))
	}
	if snap.Paused {
		line += "  " + titleStyle.Render("PAUSED · esc to resume")
	}
	return line
}

func lockBar(progress float64) string {
	filled := int(math.Ceil(progress * lockBarSize))
	filled = max(0, min(filled, lockBarSize))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", lockBarSize-filled) + "]"
}

func (m *Model) renderFooter() string {
	cfg := m.game.Config()
	segments := []string{fmt.Sprintf("%s · %s · %s",
		cfg.CharSets, model.DifficultyLabel(cfg.Difficulty), model.DurationLabel(cfg.Duration))}
	if m.hasBestToday {
		segments = append(segments, fmt.Sprintf("Today %d WPM", m.bestToday.FinalWPM))
	}
	if m.hasBest {
		segments = append(segments, fmt.Sprintf("Best %d WPM", m.best.FinalWPM))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func outcomeTitle(outcome model.Outcome) string {
	switch outcome {
	case model.Victory:
		return "Victory! The wizard is safe."
	case model.Defeat:
		return "Defeat! The snake reached the wizard."
	default:
		return "Time's up!"
	}
}

func (m *Model) renderResults() string {
	res := m.result
	lines := []string{
		titleStyle.Render(outcomeTitle(res.Outcome)),
		"",
		fmt.Sprintf("WPM: %d", res.FinalWPM),
		fmt.Sprintf("Score: %d (penalty -%d)", res.FinalScore, res.MistakePenalty),
		fmt.Sprintf("Accuracy: %.1f%%", res.Accuracy),
		fmt.Sprintf("Characters: %d", res.CharactersTyped),
		fmt.Sprintf("Mistakes: %d", res.Mistakes),
		fmt.Sprintf("Time: %.1fs", res.ElapsedSeconds()),
		fmt.Sprintf("Level: %s", res.Level),
	}
	switch {
	case m.newBest:
		lines = append(lines, correctStyle.Render("New best for this setup!"))
	case m.hasBest:
		lines = append(lines, fmt.Sprintf("Best: %d WPM", m.best.FinalWPM))
	}
	lines = append(lines, "", footerStyle.Render("enter: play again · q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
