package prompt

import (
	"fmt"
	"strings"
)

// IdeaQuestion is one answered brainstorming prompt from the idea explorer
type IdeaQuestion struct {
	Label    string
	Question string
	Answer   string
}

const ideaJSONContract = `[
  {
    "title": "Short punchy name",
    "oneLiner": "One sentence describing the app",
    "descriptionToPaste": "A 2-4 sentence description suitable for a product spec. Include target user, core problem, and MVP approach."
  }
]`

// ExploreIdeas builds the prompt that converges playful brainstorming
// answers into three concrete app ideas. When every answer is blank the
// model is asked for surprising ideas instead.
func ExploreIdeas(questionSetID string, questions []IdeaQuestion) Prompt {
	system := `You are a creative product founder who helps people discover app ideas through playful brainstorming.

Your job is to take the user's abstract, playful inputs and converge them into 3 DISTINCT, CONCRETE app ideas.

Guidelines:
- Each idea should be genuinely different (different problem space, different user, or different approach)
- Be specific: name the target user, the core action, and the MVP loop
- Avoid generic "AI productivity assistant" ideas unless the inputs clearly point there
- Make ideas feel achievable as side projects or MVPs
- The "descriptionToPaste" should be a short paragraph (2-4 sentences) suitable for feeding into a spec generator
- Keep titles punchy (2-4 words)
- Keep oneLiner to one sentence

Return ONLY a valid JSON array with exactly 3 objects. No other text.`

	if !hasAnyAnswer(questions) {
		user := fmt.Sprintf(`The user wants app ideas but left all prompts blank. Generate 3 surprising, distinct app ideas that are:
- Weird but plausible
- Have a clear target user
- Could be built as an MVP in a few weeks

Return as JSON array:
%s`, ideaJSONContract)
		return Prompt{System: system, User: user}
	}

	blocks := make([]string, 0, len(questions))
	for _, q := range questions {
		answer := q.Answer
		if answer == "" {
			answer = "(left blank)"
		}
		blocks = append(blocks, fmt.Sprintf("**%s**: %s\nAnswer: %s", q.Label, q.Question, answer))
	}

	user := fmt.Sprintf(`The user answered these playful brainstorming prompts (question set: %q):

%s

Based on these inputs, generate 3 distinct app ideas. Return as JSON array:
%s`, questionSetID, strings.Join(blocks, "\n\n"), ideaJSONContract)

	return Prompt{System: system, User: user}
}

func hasAnyAnswer(questions []IdeaQuestion) bool {
	for _, q := range questions {
		if strings.TrimSpace(q.Answer) != "" {
			return true
		}
	}
	return false
}
