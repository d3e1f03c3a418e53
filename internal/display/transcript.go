// Package display renders game events as a human-readable transcript.
package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/hearts/internal/deck"
	"github.com/lox/hearts/internal/game"
)

// Styles contains styling for transcript output
type Styles struct {
	Header    lipgloss.Style
	SubHeader lipgloss.Style
	Action    lipgloss.Style
	Winner    lipgloss.Style
	Moonshot  lipgloss.Style
	CardRed   lipgloss.Style
	CardBlack lipgloss.Style
	Score     lipgloss.Style
	Separator lipgloss.Style
}

// NewStyles creates the default transcript styles on a renderer
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true),
		SubHeader: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Action: r.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")),
		Winner: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Moonshot: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		CardRed: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		CardBlack: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Score: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		Separator: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// Transcript is a game observer that writes a styled play-by-play to an
// io.Writer. It never mutates game state.
type Transcript struct {
	out    io.Writer
	styles *Styles
	// ShowPasses includes each player's passed cards in the transcript.
	// Off by default since it reveals hidden information.
	ShowPasses bool
}

// NewTranscript creates a transcript observer writing to out. The
// color profile is detected from the writer, so piped output degrades
// to plain text.
func NewTranscript(out io.Writer) *Transcript {
	return &Transcript{
		out:    out,
		styles: NewStyles(lipgloss.NewRenderer(out)),
	}
}

// NewTranscriptWithProfile creates a transcript observer with a forced
// color profile, bypassing terminal detection.
func NewTranscriptWithProfile(out io.Writer, profile termenv.Profile) *Transcript {
	renderer := lipgloss.NewRenderer(out)
	renderer.SetColorProfile(profile)
	return &Transcript{
		out:    out,
		styles: NewStyles(renderer),
	}
}

// HandleEvent renders a single game event.
func (t *Transcript) HandleEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		t.showRoundStart(e)
	case game.CardsPassedEvent:
		t.showCardsPassed(e)
	case game.TrickStartEvent:
		fmt.Fprintf(t.out, "\nTrick %d\n", e.Trick+1)
	case game.CardPlayedEvent:
		t.showCardPlayed(e)
	case game.TrickWonEvent:
		t.showTrickWon(e)
	case game.RoundEndEvent:
		t.showRoundEnd(e)
	case game.GameEndEvent:
		t.showGameEnd(e)
	}
}

func (t *Transcript) showRoundStart(e game.RoundStartEvent) {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, t.styles.Header.Render(fmt.Sprintf("*** ROUND %d ***", e.Round+1)))

	for _, from := range sortedPlayers(e.PassDirection) {
		fmt.Fprintf(t.out, "%s passes to %s\n", from, e.PassDirection[game.PlayerID(from)])
	}
}

func (t *Transcript) showCardsPassed(e game.CardsPassedEvent) {
	if !t.ShowPasses {
		return
	}
	fmt.Fprintf(t.out, "%s passes %s to %s\n", e.From, t.formatCards(e.Cards), e.To)
}

func (t *Transcript) showCardPlayed(e game.CardPlayedEvent) {
	line := fmt.Sprintf("%s: plays", e.Play.Player)
	fmt.Fprintf(t.out, "%s %s\n", t.styles.Action.Render(line), t.formatCard(e.Play.Card))
}

func (t *Transcript) showTrickWon(e game.TrickWonEvent) {
	if e.Points > 0 {
		fmt.Fprintf(t.out, "%s takes the trick (+%d points)\n",
			t.styles.SubHeader.Render(string(e.Winner)), e.Points)
		return
	}
	fmt.Fprintf(t.out, "%s takes the trick\n", t.styles.SubHeader.Render(string(e.Winner)))
}

func (t *Transcript) showRoundEnd(e game.RoundEndEvent) {
	fmt.Fprintln(t.out)
	if e.Moonshot != "" {
		fmt.Fprintln(t.out, t.styles.Moonshot.Render(fmt.Sprintf("%s shot the moon!", e.Moonshot)))
	}

	fmt.Fprintln(t.out, t.styles.SubHeader.Render(fmt.Sprintf("--- Round %d scores ---", e.Round+1)))
	for _, player := range sortedPlayers(e.Scores) {
		id := game.PlayerID(player)
		fmt.Fprintf(t.out, "  %s: %s\n", player,
			t.styles.Score.Render(fmt.Sprintf("+%d → %d", e.RoundPoints[id], e.Scores[id])))
	}
}

func (t *Transcript) showGameEnd(e game.GameEndEvent) {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, t.styles.Separator.Render(strings.Repeat("═", 40)))
	fmt.Fprintf(t.out, "%s after %d rounds\n",
		t.styles.Winner.Render(fmt.Sprintf("%s wins!", e.Winner)), e.Rounds)

	for _, player := range sortedPlayers(e.Scores) {
		fmt.Fprintf(t.out, "  %s: %d\n", player, e.Scores[game.PlayerID(player)])
	}
	fmt.Fprintln(t.out, t.styles.Separator.Render(strings.Repeat("═", 40)))
}

// formatCard renders a card with suit coloring.
func (t *Transcript) formatCard(card deck.Card) string {
	if card.IsRed() {
		return t.styles.CardRed.Render(card.String())
	}
	return t.styles.CardBlack.Render(card.String())
}

// formatCards renders a card list with suit coloring.
func (t *Transcript) formatCards(cards []deck.Card) string {
	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = t.formatCard(card)
	}
	return strings.Join(formatted, ",")
}

func sortedPlayers[V any](m map[game.PlayerID]V) []string {
	players := make([]string, 0, len(m))
	for player := range m {
		players = append(players, string(player))
	}
	sort.Strings(players)
	return players
}
