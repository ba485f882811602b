package prompt

import (
	"fmt"
	"strings"

	"github.com/decisionloom/decisionloom/internal/content"
	"github.com/decisionloom/decisionloom/internal/domain"
)

// Suggest builds the prompt that asks for 3-5 suggestions on a section's
// current free text, with prior section summaries as context. The output
// contract is a JSON array of {type, text} objects.
func Suggest(key domain.SectionKey, currentText string, priorSummaries []domain.SectionSummary) Prompt {
	section, _ := content.GetSection(key)

	system := fmt.Sprintf(`You are a product thinking assistant helping users develop clear product requirements.

Your role is to suggest ideas, risks, tradeoffs, and clarifying questions that help the user think more deeply. You are NOT authoritative - you offer suggestions that the user can accept, modify, or ignore.

Guidelines:
- Be concise and specific
- Suggest alternatives they may not have considered
- Highlight potential risks or tradeoffs
- Ask clarifying questions when the thinking seems incomplete
- Never overwrite or replace user input
- Format suggestions as actionable items

Current section: %s
Section goal: %s`, section.Label, section.Goal)

	var sb strings.Builder
	if prior := priorContext(priorSummaries); prior != "" {
		sb.WriteString("## Prior Context\n")
		sb.WriteString(prior)
		sb.WriteString("\n\n")
	}
	sb.WriteString("## Current Input\n")
	sb.WriteString(currentText)
	sb.WriteString(`

Provide 3-5 suggestions to help improve this thinking. Format as JSON array:
[
  { "type": "risk|tradeoff|question|example", "text": "..." }
]`)

	return Prompt{System: system, User: sb.String()}
}

func priorContext(summaries []domain.SectionSummary) string {
	parts := make([]string, 0, len(summaries))
	for _, s := range orderedSummaries(summaries) {
		parts = append(parts, fmt.Sprintf("## %s\n%s", s.Key, s.Summary))
	}
	return strings.Join(parts, "\n\n")
}
