package prompt

import (
	"fmt"

	"github.com/decisionloom/decisionloom/internal/content"
	"github.com/decisionloom/decisionloom/internal/domain"
)

// Summarize builds the prompt that condenses one section's answers into
// a short synopsis.
func Summarize(key domain.SectionKey, qa []domain.QAItem, notes string) Prompt {
	section, _ := content.GetSection(key)

	system := `You are a product thinking assistant. Your task is to create a concise summary of the user's answers for a product requirements section.

Guidelines:
- Be concise (2-4 sentences max)
- Capture the key decisions and constraints
- Highlight any notable tradeoffs mentioned
- Use clear, professional language
- Do not add information the user didn't provide`

	user := fmt.Sprintf("Section: %s\nGoal: %s\n\n## User's Answers\n%s\n",
		section.Label, section.Goal, qaBlock(qa))
	if notes != "" {
		user += fmt.Sprintf("\n## Additional Notes\n%s\n", notes)
	}
	user += "\nProvide a concise summary (2-4 sentences) that captures the key points from this section."

	return Prompt{System: system, User: user}
}
