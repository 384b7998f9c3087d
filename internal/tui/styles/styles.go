// Package styles holds the lipgloss color palette and view styles for the
// study TUI: the prompt card, the success/failure flashes, the reveal
// banner, and the end-of-deck summary.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors chosen for WCAG AA contrast (4.5:1) against a black terminal
// background.
var (
	PrimaryColor = lipgloss.Color("#A78BFA") // Purple
	SuccessColor = lipgloss.Color("#10B981") // Green
	WarningColor = lipgloss.Color("#F59E0B") // Amber
	ErrorColor   = lipgloss.Color("#F87171") // Red
	MutedColor   = lipgloss.Color("#9CA3AF") // Gray
	TextColor    = lipgloss.Color("#F9FAFB") // Light text
	BorderColor  = lipgloss.Color("#6B7280") // Gray
)

var (
	// Title is the deck name / header line above a card.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginBottom(1)

	// Muted is used for help text and secondary captions.
	Muted = lipgloss.NewStyle().Foreground(MutedColor)

	// CardBox frames the current prompt: keybind description on top,
	// progress dots for the chord sequence below.
	CardBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 3).
		Align(lipgloss.Center)

	// ChordPending renders a chord in the sequence not yet matched.
	ChordPending = lipgloss.NewStyle().Foreground(MutedColor)

	// ChordAccepted renders a chord already matched in the sequence.
	ChordAccepted = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)

	// SuccessFlash is the brief "correct!" banner shown after a card is
	// matched (§9 ShowingSuccess).
	SuccessFlash = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(SuccessColor).
			Padding(0, 2)

	// FailFlash is the brief flash shown on a wrong chord before the
	// buffer resets.
	FailFlash = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(ErrorColor).
			Padding(0, 2)

	// RevealBanner is the answer-reveal shown after max attempts or a
	// manual reveal request (§9 ShowingAnswer).
	RevealBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(WarningColor).
			Padding(0, 2)

	// PausedBanner marks the paused overlay (§9 Paused).
	PausedBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 2)

	// RatingLabel renders the rating the user is about to give, or did
	// give, for a card (Again/Hard/Good/Easy).
	RatingLabel = lipgloss.NewStyle().Bold(true)

	// SummaryHeader is the end-of-deck summary's title line (§9 Summary).
	SummaryHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// HelpBar is the bottom-of-screen key reference line.
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)
)
