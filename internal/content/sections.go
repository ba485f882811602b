// Package content holds the fixed question catalogs that drive the guided
// specification flow: the eight product sections and the eight architecture
// driver questions. Prompt builders serialize these in catalog order so the
// model sees a stable structure across regenerations.
package content

import "github.com/decisionloom/decisionloom/internal/domain"

// Question is one fixed question within a section
type Question struct {
	ID     string
	Prompt string
}

// Section is one of the eight fixed topical buckets of the main flow
type Section struct {
	Key       domain.SectionKey
	Label     string
	Goal      string
	Questions []Question
}

// Sections lists every section in canonical order. Reordering this slice
// changes prompt serialization order and is a breaking change.
var Sections = []Section{
	{
		Key:   domain.SectionContext,
		Label: "Context",
		Goal:  "Understand the problem space and who it is for",
		Questions: []Question{
			{ID: "context.problem", Prompt: "What problem are you solving, and for whom?"},
			{ID: "context.today", Prompt: "How do people deal with this problem today?"},
			{ID: "context.why_now", Prompt: "Why is now the right time to build this?"},
		},
	},
	{
		Key:   domain.SectionOutcome,
		Label: "Outcome",
		Goal:  "Define what success looks like",
		Questions: []Question{
			{ID: "outcome.success", Prompt: "What does success look like three months after launch?"},
			{ID: "outcome.metric", Prompt: "What single metric best captures that success?"},
			{ID: "outcome.failure", Prompt: "What result would make you abandon the idea?"},
		},
	},
	{
		Key:   domain.SectionRisks,
		Label: "Risks",
		Goal:  "Surface the assumptions most likely to sink the project",
		Questions: []Question{
			{ID: "risks.assumption", Prompt: "What is the riskiest assumption you are making?"},
			{ID: "risks.technical", Prompt: "What is the hardest technical problem involved?"},
			{ID: "risks.adoption", Prompt: "Why might your target users not adopt this?"},
		},
	},
	{
		Key:   domain.SectionExperience,
		Label: "Experience",
		Goal:  "Describe how using the product should feel",
		Questions: []Question{
			{ID: "experience.first_run", Prompt: "Walk through a first-time user's first five minutes."},
			{ID: "experience.feeling", Prompt: "What should users feel after a successful session?"},
			{ID: "experience.platform", Prompt: "Where do users interact with it (web, mobile, CLI, API)?"},
		},
	},
	{
		Key:   domain.SectionFlow,
		Label: "Flow",
		Goal:  "Pin down the core end-to-end path through the product",
		Questions: []Question{
			{ID: "flow.core", Prompt: "Describe the single most important user flow step by step."},
			{ID: "flow.data", Prompt: "What data enters and leaves the system along that flow?"},
			{ID: "flow.edge", Prompt: "What is the most likely way that flow goes wrong?"},
		},
	},
	{
		Key:   domain.SectionLimits,
		Label: "Limits",
		Goal:  "Draw the boundaries of the MVP",
		Questions: []Question{
			{ID: "limits.out_of_scope", Prompt: "What are you deliberately NOT building in the first version?"},
			{ID: "limits.constraints", Prompt: "What constraints (time, budget, team, tech) shape the build?"},
			{ID: "limits.cut_first", Prompt: "If you had to ship in half the time, what gets cut first?"},
		},
	},
	{
		Key:   domain.SectionOperations,
		Label: "Operations",
		Goal:  "Plan how the product runs after launch",
		Questions: []Question{
			{ID: "operations.hosting", Prompt: "Where will this run, and who keeps it running?"},
			{ID: "operations.failure", Prompt: "What happens when it breaks at 2am?"},
			{ID: "operations.cost", Prompt: "What does it cost to operate per month at expected usage?"},
		},
	},
	{
		Key:   domain.SectionWins,
		Label: "Wins",
		Goal:  "Identify early wins that prove the idea",
		Questions: []Question{
			{ID: "wins.first", Prompt: "What is the first moment a user gets real value?"},
			{ID: "wins.demo", Prompt: "What would you demo to a skeptical friend?"},
			{ID: "wins.expansion", Prompt: "If the MVP works, what is the obvious next win?"},
		},
	},
}

// GetSection returns the catalog entry for a section key
func GetSection(key domain.SectionKey) (Section, bool) {
	for _, s := range Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// SectionLabel returns the display label for a key, falling back to the key itself
func SectionLabel(key domain.SectionKey) string {
	if s, ok := GetSection(key); ok {
		return s.Label
	}
	return string(key)
}
