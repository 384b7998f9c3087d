package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dbalmain/kbsr/internal/matcher"
	"github.com/dbalmain/kbsr/internal/tui/styles"
)

// View renders the currently active screen.
func (m Model) View() string {
	if m.err != nil {
		return styles.RevealBanner.Render(fmt.Sprintf("kbsr: %v", m.err)) + "\n"
	}
	if m.quit {
		return ""
	}

	var body string
	switch s := m.screen.(type) {
	case deckSelectionScreen:
		body = m.viewDeckSelection(s)
	case studyingScreen:
		body = m.viewStudying(s)
	case successScreen:
		body = m.viewSuccess(s)
	case answerScreen:
		body = m.viewAnswer(s)
	case pausedScreen:
		body = m.viewPaused(s)
	case summaryScreen:
		body = m.viewSummary(s)
	}

	help := styles.HelpBar.Render(fmt.Sprintf("%s pause · %s quit", m.pauseChord.String(), m.quitChord.String()))
	return body + "\n" + help + "\n"
}

func (m Model) viewDeckSelection(s deckSelectionScreen) string {
	if len(s.decks) == 0 {
		return styles.Title.Render("kbsr") + "\n" + styles.Muted.Render("no decks found")
	}

	total := 0
	for _, due := range s.dueCount {
		total += due
	}

	var footer string
	if total == 0 {
		footer = styles.Muted.Render("nothing due right now")
	} else {
		footer = styles.Muted.Render(fmt.Sprintf("%d cards due — press Enter to begin", total))
	}
	return s.list.View() + "\n" + footer
}

func (m Model) viewStudying(s studyingScreen) string {
	if s.card == nil {
		return styles.Muted.Render("no card to present")
	}
	var dots strings.Builder
	for i, c := range s.card.Chords {
		style := styles.ChordPending
		if i < s.lastResult.Index {
			style = styles.ChordAccepted
		}
		if i > 0 {
			dots.WriteString(" ")
		}
		dots.WriteString(style.Render(c.String()))
	}

	card := fmt.Sprintf("%s\n\n%s", s.card.Description, dots.String())
	return styles.CardBox.Render(card) + "\n" +
		styles.Muted.Render(fmt.Sprintf("deck: %s · attempts: %d", s.card.DeckName, s.lastResult.Attempts))
}

func (m Model) viewSuccess(s successScreen) string {
	label := styles.RatingLabel.Render(s.rating.String())
	return m.viewStudying(*s.prev) + "\n" + styles.SuccessFlash.Render("Correct! "+label)
}

func (m Model) viewAnswer(s answerScreen) string {
	if s.prev.card == nil {
		return styles.Muted.Render("no card to present")
	}
	answer := s.prev.card.Chords.String()
	return m.viewStudying(*s.prev) + "\n" + styles.RevealBanner.Render("Answer: "+answer)
}

func (m Model) viewPaused(s pausedScreen) string {
	return styles.PausedBanner.Render("Paused") + "\n" +
		styles.Muted.Render(fmt.Sprintf("press any key other than %s to resume", m.pauseChord.String()))
}

func (m Model) viewSummary(s summaryScreen) string {
	var b strings.Builder
	b.WriteString(styles.SummaryHeader.Render("Session complete"))
	b.WriteString("\n")
	for _, r := range []matcher.Rating{matcher.Again, matcher.Hard, matcher.Good, matcher.Easy} {
		b.WriteString(fmt.Sprintf("  %-6s %d\n", r.String(), s.ratings[r]))
	}
	if s.elapsed > 0 {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("\n%s elapsed", s.elapsed.Round(time.Second))))
	}
	return b.String()
}
