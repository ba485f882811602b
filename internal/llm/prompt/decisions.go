package prompt

import (
	"fmt"
	"strings"

	"github.com/decisionloom/decisionloom/internal/content"
	"github.com/decisionloom/decisionloom/internal/domain"
)

// ProposeDecisions builds the prompt that asks for 5-7 load-bearing
// architecture decisions given the PRD and the driver answers. For
// agentic systems the prompt demands orchestration-area decisions.
func ProposeDecisions(prdContent string, drivers []domain.DriverAnswer, profile *domain.AgenticProfile) Prompt {
	agenticInstructions := ""
	if profile.IsAgentic() {
		agenticInstructions = fmt.Sprintf(`
IMPORTANT: This is an AGENTIC SYSTEM. You MUST include at least 1-2 decisions in the "orchestration" area covering:
- Agent orchestration pattern (planner/executor, state machine, workflow graph, etc.)
- Tool calling architecture (tool registry, permissions, sandboxing)
- Memory architecture (session store, vector store, retention policies)
- Human-in-the-loop UX (approval flows, review UI, rollback mechanisms)
- Evaluation & reliability (prompt testing, golden traces, guardrails)

Agentic Profile:
- Mode: %s (%s)
- Orchestration: %s
- Tool Capabilities: %s
- Memory: %s
- Human Approval Required For: %s
%s`,
			profile.AgenticMode, modeDescription(profile.AgenticMode),
			orNotSpecified(profile.OrchestrationShape),
			listOrNotSpecified(profile.ToolCapabilities),
			orNotSpecified(profile.MemoryRequirements),
			listOr(profile.HumanApprovalRequired, "none specified"),
			guardrailsLine(profile.GuardrailsNotes))
	}

	system := fmt.Sprintf(`You are a senior software architect. Based on the PRD and architecture drivers provided, propose 5-7 load-bearing architecture decisions.

Each decision should cover one of these areas:
- data_storage: Database choices, caching strategies, data models
- compute_strategy: Serverless vs containers, async processing, scaling approach
- ux_contract: Loading states, error handling, offline support
- state_sync: Real-time updates, optimistic UI, conflict resolution
- interfaces: API design, event schemas, integration patterns
- risk_controls: Rate limiting, circuit breakers, validation
- operations: Monitoring, deployment, incident response
- orchestration: Agent architecture, tool calling, memory, human-in-the-loop (REQUIRED for agentic systems)
%s
For each decision, provide:
- title: Short descriptive name
- area: One of the areas above
- chosenOption: The recommended approach
- alternatives: 2-3 other options considered
- tradeoffs: Key tradeoffs of the chosen option
- userVisibleConsequence: How this affects the user experience (REQUIRED)
- mvpImpact: How this affects MVP scope/timeline
- openQuestions: Unresolved questions to address later

Return a JSON array of decisions.`, agenticInstructions)

	agenticContext := ""
	if profile.IsAgentic() {
		agenticContext = fmt.Sprintf(`
## Agentic Profile
This system is agentic (%s). Ensure you include orchestration decisions.
`, profile.AgenticMode)
	}

	user := fmt.Sprintf(`## PRD
%s

## Architecture Drivers
%s
%s
Generate 5-7 architecture decisions as a JSON array:
[
  {
    "title": "...",
    "area": "%s",
    "chosenOption": "...",
    "alternatives": ["...", "..."],
    "tradeoffs": "...",
    "userVisibleConsequence": "...",
    "mvpImpact": "...",
    "openQuestions": "..."
  }
]`, prdContent, driversBlock(drivers, ""), agenticContext, strings.Join(content.DecisionAreas, "|"))

	return Prompt{System: system, User: user}
}

func modeDescription(mode domain.AgenticMode) string {
	switch mode {
	case domain.AgenticAssistive:
		return "suggestions only, user drives"
	case domain.AgenticSemiAutonomous:
		return "agent proposes, user approves"
	default:
		return "agent executes within guardrails"
	}
}

func orNotSpecified(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}

func listOrNotSpecified(items []string) string {
	return listOr(items, "not specified")
}

func listOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func guardrailsLine(notes string) string {
	if notes == "" {
		return ""
	}
	return fmt.Sprintf("- Additional Guardrails: %s", notes)
}
