package service

import (
	"fmt"

	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
)

// completionSpec is one of the three AI outputs generated per review.
type completionSpec struct {
	kind      string
	template  string
	maxTokens int
}

// completions run in this order for every submission.
var completions = []completionSpec{
	{
		kind: domain.AIKindReply,
		template: "You are a customer service AI. Respond to this %d-star review:\n\n" +
			"Review: \"%s\"\n\n" +
			"Write a polite, helpful response (2-3 sentences). Be appreciative for positive reviews and empathetic for negative ones.",
		maxTokens: 200,
	},
	{
		kind: domain.AIKindSummary,
		template: "Summarize this %d-star review in one concise sentence:\n\n" +
			"Review: \"%s\"\n\n" +
			"Provide only the summary, no additional text.",
		maxTokens: 100,
	},
	{
		kind: domain.AIKindActions,
		template: "Based on this %d-star review, suggest 2-3 actionable steps:\n\n" +
			"Review: \"%s\"\n\n" +
			"Format as bullet points. Be specific and practical.",
		maxTokens: 150,
	},
}

// prompt embeds rating and review text verbatim.
func (c completionSpec) prompt(rating int, review string) string {
	return fmt.Sprintf(c.template, rating, review)
}
