package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decisionloom/decisionloom/internal/content"
	"github.com/decisionloom/decisionloom/internal/domain"
)

func answersFixture() []domain.SectionAnswer {
	// Deliberately out of canonical order.
	return []domain.SectionAnswer{
		{Key: domain.SectionWins, QA: []domain.QAItem{{Question: "q-wins", Answer: "a-wins"}}},
		{Key: domain.SectionContext, QA: []domain.QAItem{{Question: "q-ctx", Answer: "a-ctx"}}},
		{Key: domain.SectionRisks, QA: []domain.QAItem{{Question: "q-risk", Answer: "a-risk"}}, Notes: "watch out"},
	}
}

func TestGeneratePRD_SerializesAnswersInCanonicalOrder(t *testing.T) {
	p := GeneratePRD("Widget", answersFixture(), nil, "")

	ctxIdx := strings.Index(p.User, "q-ctx")
	riskIdx := strings.Index(p.User, "q-risk")
	winsIdx := strings.Index(p.User, "q-wins")
	require.NotEqual(t, -1, ctxIdx)
	require.NotEqual(t, -1, riskIdx)
	require.NotEqual(t, -1, winsIdx)
	assert.Less(t, ctxIdx, riskIdx)
	assert.Less(t, riskIdx, winsIdx)
	assert.Contains(t, p.User, "watch out")
}

func TestGeneratePRD_Deterministic(t *testing.T) {
	a := GeneratePRD("Widget", answersFixture(), nil, "desc")
	b := GeneratePRD("Widget", answersFixture(), nil, "desc")
	assert.Equal(t, a, b)
}

func TestGeneratePRD_OmitsEmptyDescription(t *testing.T) {
	p := GeneratePRD("Widget", nil, nil, "")
	assert.NotContains(t, p.User, "Product Description")
}

func TestGeneratePRD_UntitledFallback(t *testing.T) {
	p := GeneratePRD("", nil, nil, "")
	assert.Contains(t, p.User, "Untitled Product")
}

func TestSuggest_IncludesPriorSummaries(t *testing.T) {
	summaries := []domain.SectionSummary{
		{Key: domain.SectionContext, Summary: "ctx summary"},
	}
	p := Suggest(domain.SectionOutcome, "current thinking", summaries)

	assert.Contains(t, p.User, "## Prior Context")
	assert.Contains(t, p.User, "ctx summary")
	assert.Contains(t, p.User, "current thinking")
	assert.Contains(t, p.System, "Current section: Outcome")
}

func TestSuggest_NoPriorContextSectionWhenEmpty(t *testing.T) {
	p := Suggest(domain.SectionContext, "text", nil)
	assert.NotContains(t, p.User, "## Prior Context")
}

func TestSummarize_IncludesNotesOnlyWhenPresent(t *testing.T) {
	qa := []domain.QAItem{{Question: "q", Answer: "a"}}

	with := Summarize(domain.SectionRisks, qa, "extra notes")
	assert.Contains(t, with.User, "## Additional Notes")
	assert.Contains(t, with.User, "extra notes")

	without := Summarize(domain.SectionRisks, qa, "")
	assert.NotContains(t, without.User, "## Additional Notes")
}

func TestPrefill_ListsEveryQuestion(t *testing.T) {
	p := Prefill("a product that does things")

	for _, key := range domain.SectionKeys {
		assert.Contains(t, p.User, string(key))
	}
	assert.Contains(t, p.User, "questionId")
}

func TestProposeDecisions_AgenticInstructions(t *testing.T) {
	profile := &domain.AgenticProfile{
		AgenticMode:      domain.AgenticSemiAutonomous,
		ToolCapabilities: []string{"web_search", "code_exec"},
	}
	p := ProposeDecisions("the prd", nil, profile)

	assert.Contains(t, p.System, "AGENTIC SYSTEM")
	assert.Contains(t, p.System, "web_search, code_exec")
	assert.Contains(t, p.System, "agent proposes, user approves")
	assert.Contains(t, p.User, "This system is agentic (semi_autonomous)")
}

func TestProposeDecisions_AssistiveModeDescription(t *testing.T) {
	p := ProposeDecisions("the prd", nil, &domain.AgenticProfile{AgenticMode: domain.AgenticAssistive})
	assert.Contains(t, p.System, "suggestions only, user drives")
}

func TestProposeDecisions_NoAgenticBranchWithoutProfile(t *testing.T) {
	p := ProposeDecisions("the prd", nil, nil)
	assert.NotContains(t, p.System, "AGENTIC SYSTEM")
	assert.NotContains(t, p.User, "This system is agentic")
}

func TestProposeDecisions_ModeNoneIsNotAgentic(t *testing.T) {
	p := ProposeDecisions("the prd", nil, &domain.AgenticProfile{AgenticMode: domain.AgenticNone})
	assert.NotContains(t, p.System, "AGENTIC SYSTEM")
}

func TestProposeDecisions_DriversInCatalogOrder(t *testing.T) {
	drivers := []domain.DriverAnswer{
		{QuestionKey: "observability", Answer: "error rates"},
		{QuestionKey: "unit_of_work", Answer: "one request"},
	}
	p := ProposeDecisions("prd", drivers, nil)

	uowIdx := strings.Index(p.User, "unit_of_work: one request")
	obsIdx := strings.Index(p.User, "observability: error rates")
	require.NotEqual(t, -1, uowIdx)
	require.NotEqual(t, -1, obsIdx)
	assert.Less(t, uowIdx, obsIdx)
}

func TestRefineSystem_EmbedsDocumentAndMarker(t *testing.T) {
	system := RefineSystem(domain.ArtifactPRD, "# My PRD\ncontent")

	assert.Contains(t, system, "Product Requirements Documents (PRDs)")
	assert.Contains(t, system, "# My PRD")
	assert.Contains(t, system, ArtifactUpdateMarker)

	techSystem := RefineSystem(domain.ArtifactTechSpec, "spec body")
	assert.Contains(t, techSystem, "Technical Specifications")
}

func TestDiagram_CapsPRDContent(t *testing.T) {
	longPRD := strings.Repeat("x", 5000)
	p := Diagram(longPRD, nil, nil)

	assert.Contains(t, p.User, strings.Repeat("x", diagramPRDLimit)+"...")
	assert.NotContains(t, p.User, strings.Repeat("x", diagramPRDLimit+1))
}

func TestDiagram_CapKeepsRunesIntact(t *testing.T) {
	longPRD := strings.Repeat("€", 1200)
	p := Diagram(longPRD, nil, nil)

	assert.Contains(t, p.User, strings.Repeat("€", 666)+"...")
	assert.NotContains(t, p.User, strings.Repeat("€", 667))
	assert.True(t, utf8.ValidString(p.User))
}

func TestDriverSuggest_CapKeepsRunesIntact(t *testing.T) {
	longPRD := "x" + strings.Repeat("€", 1100)
	p := DriverSuggest(longPRD, "latency_contract", "")

	assert.True(t, utf8.ValidString(p.User))
	assert.NotContains(t, p.User, "�")
}

func TestDriverSuggest_KnownKeyUsesCatalogContext(t *testing.T) {
	p := DriverSuggest("prd", "latency_contract", "")

	assert.Contains(t, p.System, "Latency Contract")
	assert.Contains(t, p.System, "p99 < 1s")
	assert.Contains(t, p.User, "Current answer: (empty)")
}

func TestDriverSuggest_UnknownKeyFallsBackToKey(t *testing.T) {
	p := DriverSuggest("prd", "mystery_key", "something")
	assert.Contains(t, p.System, "mystery_key")
	assert.Contains(t, p.User, "Current answer: something")
}

func TestWalkthroughSpec_NumbersDecisions(t *testing.T) {
	decisions := []domain.ArchitectureDecision{
		{Title: "First", Area: "data_storage", Alternatives: []string{"a", "b"}, Status: domain.DecisionTentative},
		{Title: "Second", Area: "operations", Alternatives: []string{}, Status: domain.DecisionApproved},
	}
	p := WalkthroughSpec("prd", nil, decisions)

	assert.Contains(t, p.User, "### Decision 1: First")
	assert.Contains(t, p.User, "### Decision 2: Second")
	assert.Contains(t, p.User, "a, b")
}

func TestGenerateTechSpec_EmbedsPRDAndSummaries(t *testing.T) {
	p := GenerateTechSpec("Widget", "# PRD body", []domain.SectionSummary{
		{Key: domain.SectionRisks, Summary: "risk summary"},
	})

	assert.Contains(t, p.User, "# Product: Widget")
	assert.Contains(t, p.User, "# PRD body")
	assert.Contains(t, p.User, "risk summary")
}

func TestExploreIdeas_FormatsAnsweredPrompts(t *testing.T) {
	p := ExploreIdeas("classic", []IdeaQuestion{
		{Label: "Magic Wand", Question: "What would you automate?", Answer: "meal planning"},
		{Label: "Pet Peeve", Question: "What annoys you daily?", Answer: ""},
	})

	assert.Contains(t, p.User, `question set: "classic"`)
	assert.Contains(t, p.User, "**Magic Wand**: What would you automate?\nAnswer: meal planning")
	assert.Contains(t, p.User, "Answer: (left blank)")
	assert.Contains(t, p.User, "descriptionToPaste")
}

func TestExploreIdeas_AllBlankAsksForSurprises(t *testing.T) {
	p := ExploreIdeas("classic", []IdeaQuestion{
		{Label: "Magic Wand", Question: "What would you automate?", Answer: "   "},
	})

	assert.Contains(t, p.User, "left all prompts blank")
	assert.NotContains(t, p.User, "**Magic Wand**")
}

func TestWalkthroughPrefill_ListsEveryDriverQuestion(t *testing.T) {
	p := WalkthroughPrefill("the prd")

	for _, q := range content.DriverQuestions {
		assert.Contains(t, p.System, q.Key)
		assert.Contains(t, p.User, `"`+q.Key+`"`)
	}
	assert.Contains(t, p.System, "agenticMode")
	assert.Contains(t, p.User, "the prd")
}

func TestReflection_FixedHeadings(t *testing.T) {
	p := Reflection("Widget", "", "prd body", "spec body")

	assert.Contains(t, p.User, "## Pressure Tests")
	assert.Contains(t, p.User, "## What to Validate Next")
	assert.Contains(t, p.User, "## Alternative Lenses")
	assert.Contains(t, p.User, "Description: Not provided")
}
