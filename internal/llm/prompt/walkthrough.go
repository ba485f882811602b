package prompt

import (
	"fmt"
	"strings"

	"github.com/decisionloom/decisionloom/internal/content"
	"github.com/decisionloom/decisionloom/internal/domain"
)

// PRD byte budgets for the small walkthrough prompts.
const (
	diagramPRDLimit       = 2000
	driverSuggestPRDLimit = 3000
)

// WalkthroughSpec builds the prompt that turns the approved architecture
// decisions into a full technical specification document.
func WalkthroughSpec(prdContent string, drivers []domain.DriverAnswer, decisions []domain.ArchitectureDecision) Prompt {
	system := `You are a senior software architect writing a comprehensive technical specification.

Generate a complete tech spec document in Markdown format with the following sections:

1. **Executive Summary** - Brief overview of the system and key decisions
2. **Architecture Drivers Summary** - Summarize the key constraints and requirements
3. **Load-Bearing Decisions** - Detail each architecture decision with:
   - Decision title and area
   - Chosen approach and rationale
   - Alternatives considered
   - Tradeoffs accepted
   - User-visible consequences (how users will experience this)
   - MVP impact
   - Open questions
4. **System Architecture** - High-level component diagram description and tech stack
5. **Data Model** - Key entities and relationships
6. **API Contracts** - Key endpoints with request/response shapes
7. **Implementation Plan** - Phased approach with micro-tasks
8. **Operational Considerations** - Monitoring, deployment, incident response

Focus on practical, actionable content. Reference the user-visible consequences throughout to keep the spec grounded in user experience.`

	user := fmt.Sprintf(`## PRD
%s

## Architecture Drivers
%s

## Architecture Decisions
%s

Generate a comprehensive technical specification document in Markdown format.`,
		prdContent, driversBlock(drivers, "- "), decisionsDetail(decisions))

	return Prompt{System: system, User: user}
}

// Diagram builds the prompt that produces a Mermaid architecture diagram
// from the PRD and the approved decisions. The PRD is truncated so the
// diagram request stays small.
func Diagram(prdContent string, drivers []domain.DriverAnswer, decisions []domain.ArchitectureDecision) Prompt {
	system := "You are a software architect creating architecture diagrams using Mermaid.js syntax.\n\n" +
		"Generate a clean, readable Mermaid.js flowchart or C4 diagram that shows:\n" +
		"1. Main system components\n" +
		"2. Data flows between components\n" +
		"3. External integrations\n" +
		"4. Key architectural boundaries\n\n" +
		"Use the flowchart TD (top-down) or LR (left-right) syntax. Keep it simple and readable.\n\n" +
		"IMPORTANT: Return ONLY the Mermaid code, no explanations. The code should be valid Mermaid.js syntax.\n\n" +
		"Example format:\n```mermaid\nflowchart TD\n    A[Client] --> B[API Gateway]\n    B --> C[Service]\n    C --> D[(Database)]\n```"

	prd := prdContent
	if len(prd) > diagramPRDLimit {
		prd = capPRD(prd, diagramPRDLimit) + "..."
	}

	lines := make([]string, 0, len(decisions))
	for _, d := range decisions {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", d.Title, d.Area, d.ChosenOption))
	}

	user := fmt.Sprintf(`Based on this system:

## PRD Summary
%s

## Architecture Drivers
%s

## Key Decisions
%s

Generate a Mermaid.js architecture diagram. Return ONLY the Mermaid code.`,
		prd, driversBlock(drivers, "- "), strings.Join(lines, "\n"))

	return Prompt{System: system, User: user}
}

// DriverSuggest builds the prompt that offers 2-3 alternative answers for
// one architecture driver question. The output contract is a JSON array
// of strings.
func DriverSuggest(prdContent, questionKey, currentAnswer string) Prompt {
	label := questionKey
	examples := ""
	if q, ok := content.GetDriverQuestion(questionKey); ok {
		label = q.Label
		examples = q.Examples
	}

	system := fmt.Sprintf(`You are a senior software architect helping to define architecture drivers.

Provide 2-3 specific, actionable suggestions for the "%s" question.
%s

Each suggestion should be:
- Specific to the product described in the PRD
- Concrete and measurable where possible
- Different from each other (offer variety)

Return a JSON array of 2-3 suggestion strings.`, label, examples)

	prd := capPRD(prdContent, driverSuggestPRDLimit)
	answer := currentAnswer
	if answer == "" {
		answer = "(empty)"
	}

	user := fmt.Sprintf(`## PRD Summary
%s

## Question: %s
Current answer: %s

Provide 2-3 alternative suggestions as a JSON array:
["suggestion 1", "suggestion 2", "suggestion 3"]`, prd, label, answer)

	return Prompt{System: system, User: user}
}

// WalkthroughPrefill builds the prompt that extracts driver answers and
// an agentic profile from an existing PRD. The output contract is one
// JSON object with "drivers" and "agenticProfile" parts.
func WalkthroughPrefill(prdContent string) Prompt {
	questionLines := make([]string, 0, len(content.DriverQuestions))
	for i, q := range content.DriverQuestions {
		questionLines = append(questionLines, fmt.Sprintf("%d. %s: %s", i+1, q.Key, q.Prompt))
	}

	system := fmt.Sprintf(`You are a senior software architect analyzing a PRD to extract architecture drivers and agentic profile.

PART 1: Architecture Drivers
For each of the following questions, provide a concise, specific answer based on the PRD content. Make reasonable inferences where the PRD doesn't explicitly state something.

Questions:
%s

PART 2: Agentic Profile
Analyze whether this system uses AI agents and extract the agentic profile. Be conservative - only infer agentic behavior if the PRD explicitly mentions agents, AI autonomy, or human-in-the-loop workflows.

Fields:
- agenticMode: "none" (traditional app), "assistive" (AI suggests, user drives), "semi_autonomous" (agent proposes, user approves), "autonomous" (agent executes within guardrails)
- orchestrationShape: "single_agent" (one agent), "multi_agent_collaborative" (agents work together), "multi_agent_specialist" (specialist roles like planner/executor), or null if not agentic
- toolCapabilities: Array of capabilities - "text_only", "tool_calls", "external_actions"
- memoryRequirements: "none", "session_only", "long_term", or null if not agentic
- humanApprovalRequired: Array of what needs approval - "tool_calls", "external_actions", "data_access", or empty array if not required
- guardrailsNotes: Any safety constraints, compliance requirements, evaluation protocols, audit requirements, or policy checks mentioned

Return a JSON object with both parts.`, strings.Join(questionLines, "\n"))

	driverKeys := make([]string, 0, len(content.DriverQuestions))
	for _, q := range content.DriverQuestions {
		driverKeys = append(driverKeys, fmt.Sprintf("    %q: \"...\"", q.Key))
	}

	user := fmt.Sprintf(`## PRD
%s

Analyze this PRD and provide:
1. Answers for all %d architecture driver questions
2. Agentic profile (infer from mentions of agents, AI autonomy, human-in-the-loop workflows, tool use, memory, guardrails)

Return JSON format:
{
  "drivers": {
%s
  },
  "agenticProfile": {
    "agenticMode": "none|assistive|semi_autonomous|autonomous",
    "orchestrationShape": "single_agent|multi_agent_collaborative|multi_agent_specialist|null",
    "toolCapabilities": ["text_only", "tool_calls", "external_actions"],
    "memoryRequirements": "none|session_only|long_term|null",
    "humanApprovalRequired": ["tool_calls", "external_actions", "data_access"],
    "guardrailsNotes": "..."
  }
}`, prdContent, len(content.DriverQuestions), strings.Join(driverKeys, ",\n"))

	return Prompt{System: system, User: user}
}

func decisionsDetail(decisions []domain.ArchitectureDecision) string {
	parts := make([]string, 0, len(decisions))
	for i, d := range decisions {
		parts = append(parts, fmt.Sprintf(`### Decision %d: %s
- **Area**: %s
- **Chosen Option**: %s
- **Alternatives**: %s
- **Tradeoffs**: %s
- **User-Visible Consequence**: %s
- **MVP Impact**: %s
- **Open Questions**: %s
- **Status**: %s`,
			i+1, d.Title, d.Area, d.ChosenOption, strings.Join(d.Alternatives, ", "),
			d.Tradeoffs, d.UserVisibleConsequence, d.MVPImpact, d.OpenQuestions, d.Status))
	}
	return strings.Join(parts, "\n\n")
}
