package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"investchat/pkg/advisor"
	"investchat/pkg/chat"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F59E0B")).
			Padding(0, 1).
			MarginRight(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

// RenderMessage renders one transcript entry.
func RenderMessage(m chat.Message) string {
	stamp := mutedStyle.Render(m.Timestamp.Format("15:04"))
	if m.IsUser() {
		return fmt.Sprintf("%s %s %s", userStyle.Render("you ›"), m.Content, stamp)
	}
	return assistantStyle.Render(m.Content) + "\n" + stamp
}

// RenderSuggestions renders suggestion cards side by side.
func RenderSuggestions(items []advisor.InvestmentSuggestion) string {
	if len(items) == 0 {
		return mutedStyle.Render("No suggestions.")
	}
	cards := make([]string, 0, len(items))
	for _, item := range items {
		body := fmt.Sprintf("%s\n%s · %s\n%s",
			titleStyle.Render(item.Title),
			item.Symbol,
			item.AssetClass,
			wrap(item.Description, 32),
		)
		cards = append(cards, cardStyle.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// RenderAnswer renders a full analysis with its suggestion cards.
func RenderAnswer(resp *advisor.AnalysisResponse) string {
	return assistantStyle.Render(chat.FormatAnalysis(resp)) + "\n" + RenderSuggestions(resp.InvestmentSuggestions)
}

// RenderError renders an error line.
func RenderError(err error) string {
	return errorStyle.Render("error: " + err.Error())
}

func wrap(text string, width int) string {
	words := strings.Fields(text)
	var lines []string
	var line strings.Builder
	for _, word := range words {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
