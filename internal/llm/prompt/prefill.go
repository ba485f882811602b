package prompt

import (
	"fmt"
	"strings"

	"github.com/decisionloom/decisionloom/internal/content"
)

// Prefill builds the prompt that drafts initial answers for every section
// from a raw product description. The output contract is a JSON object
// mapping section keys to {qa: [{questionId, question, answer}]}.
func Prefill(description string) Prompt {
	system := `You are a product specification expert. Your task is to generate initial, thoughtful answers for a product specification based on a user's product description.

Guidelines:
- Provide concrete, specific answers based on the product description
- Make reasonable assumptions when information is missing
- Keep answers concise but informative (2-4 sentences per answer)
- Use placeholders like "[specific details]" where you need more information
- Maintain a professional, product-focused tone
- Focus on what's most important for an MVP`

	var catalog strings.Builder
	for _, section := range content.Sections {
		catalog.WriteString(fmt.Sprintf("\n%s:\n", section.Key))
		for _, q := range section.Questions {
			catalog.WriteString(fmt.Sprintf("- %s: %s\n", q.ID, q.Prompt))
		}
	}

	user := fmt.Sprintf(`Product Description:
%s

Please provide answers for each question below. Format your response as JSON with this structure:
{
  "answers": {
    "SECTION_KEY": {
      "qa": [
        {
          "questionId": "question.id",
          "question": "question text",
          "answer": "your answer"
        }
      ]
    }
  }
}

Sections and questions:
%s
Generate the JSON response now:`, description, catalog.String())

	return Prompt{System: system, User: user}
}
