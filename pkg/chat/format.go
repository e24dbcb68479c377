package chat

import (
	"fmt"
	"sort"
	"strings"

	"investchat/pkg/advisor"
)

// FormatAnalysis renders a response as transcript text.
func FormatAnalysis(resp *advisor.AnalysisResponse) string {
	if resp == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(resp.Reasoning))

	if len(resp.Recommendations) > 0 {
		symbols := make([]string, 0, len(resp.Recommendations))
		for symbol := range resp.Recommendations {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
		b.WriteString("\n\nRecommendations:")
		for _, symbol := range symbols {
			fmt.Fprintf(&b, "\n- %s: %s", symbol, resp.Recommendations[symbol])
		}
	}
	if advice := strings.TrimSpace(resp.PersonalizedAdvice); advice != "" {
		fmt.Fprintf(&b, "\n\nAdvice: %s", advice)
	}
	if risk := strings.TrimSpace(resp.RiskAssessment); risk != "" {
		fmt.Fprintf(&b, "\nRisk: %s", risk)
	}
	fmt.Fprintf(&b, "\nConfidence: %.0f%%", resp.Confidence*100)

	if len(resp.SourceLinks) > 0 {
		b.WriteString("\n\nSources:")
		for _, link := range resp.SourceLinks {
			fmt.Fprintf(&b, "\n[%d] %s %s", link.Index, link.Title, link.URL)
		}
	}
	if len(resp.SuggestedQuestions) > 0 {
		b.WriteString("\n\nYou could also ask:")
		for _, q := range resp.SuggestedQuestions {
			fmt.Fprintf(&b, "\n- %s", q)
		}
	}
	return strings.TrimSpace(b.String())
}
