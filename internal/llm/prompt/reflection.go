package prompt

import "fmt"

// Reflection builds the prompt that pressure-tests a finished PRD and
// tech spec pair before any code is written.
func Reflection(title, productDescription, prdContent, techSpecContent string) Prompt {
	system := `You are an experienced product strategist and technical lead. Your role is to provide sharp, actionable reflections on product plans and technical specifications.

Your output must be:
- Concise and direct (no fluff, no AI verbosity)
- Actionable and specific
- Focused on pressure-testing assumptions
- Structured in markdown with clear sections

Keep each section brief and to the point. Avoid lengthy explanations.`

	description := productDescription
	if description == "" {
		description = "Not provided"
	}

	user := fmt.Sprintf(`I have a product plan with the following PRD and Tech Spec. Please provide final reflections and considerations before we start building.

## Product Context
Title: %s
Description: %s

## PRD
%s

## Tech Spec
%s

Please provide reflections in the following markdown structure:

## Pressure Tests
Provide 3-5 short, sharp questions that pressure-test the plan. Each question should be one sentence, maximum.

### What would make this obviously not work?

### What must be true for this to succeed?

### Where are we likely overconfident?

### What's the smallest version that still proves value?

### What will users do instead if we don't exist?

## What to Validate Next
Provide 2-3 specific experiment suggestions framed as learning opportunities, not features.

For each experiment:
- **Experiment title**
- **Hypothesis**: What you're testing
- **How to run it**: 1-2 bullet points
- **What you learn**: Success signal

## Alternative Lenses
Provide 2-3 reframes that challenge assumptions.

### If we weren't allowed to build software, what would we do?

### What if we must charge from day 1?

### What if we must deliver value in 5 minutes?

Keep all responses concise and actionable. No lengthy explanations.`,
		titleOrUntitled(title), description, prdContent, techSpecContent)

	return Prompt{System: system, User: user}
}
