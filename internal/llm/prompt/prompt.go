// Package prompt contains the pure prompt builders for every generation
// stage. Builders have no side effects and serialize accumulated state in
// the fixed catalog order so regenerated prompts stay stable.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/decisionloom/decisionloom/internal/content"
	"github.com/decisionloom/decisionloom/internal/domain"
)

// Prompt is a (system, user) pair ready for the completion client
type Prompt struct {
	System string
	User   string
}

// orderedAnswers returns the answers present, in canonical section order
func orderedAnswers(answers []domain.SectionAnswer) []domain.SectionAnswer {
	byKey := make(map[domain.SectionKey]domain.SectionAnswer, len(answers))
	for _, a := range answers {
		byKey[a.Key] = a
	}
	ordered := make([]domain.SectionAnswer, 0, len(answers))
	for _, key := range domain.SectionKeys {
		if a, ok := byKey[key]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

// orderedSummaries returns the summaries present, in canonical section order
func orderedSummaries(summaries []domain.SectionSummary) []domain.SectionSummary {
	byKey := make(map[domain.SectionKey]domain.SectionSummary, len(summaries))
	for _, s := range summaries {
		byKey[s.Key] = s
	}
	ordered := make([]domain.SectionSummary, 0, len(summaries))
	for _, key := range domain.SectionKeys {
		if s, ok := byKey[key]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

func qaBlock(qa []domain.QAItem) string {
	parts := make([]string, 0, len(qa))
	for _, item := range qa {
		parts = append(parts, fmt.Sprintf("Q: %s\nA: %s", item.Question, item.Answer))
	}
	return strings.Join(parts, "\n\n")
}

func answersBlock(answers []domain.SectionAnswer) string {
	parts := make([]string, 0, len(answers))
	for _, a := range orderedAnswers(answers) {
		block := fmt.Sprintf("## %s\n%s", content.SectionLabel(a.Key), qaBlock(a.QA))
		if a.Notes != "" {
			block += "\n\nNotes: " + a.Notes
		}
		parts = append(parts, block)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func summariesBlock(summaries []domain.SectionSummary) string {
	parts := make([]string, 0, len(summaries))
	for _, s := range orderedSummaries(summaries) {
		parts = append(parts, fmt.Sprintf("**%s:** %s", content.SectionLabel(s.Key), s.Summary))
	}
	return strings.Join(parts, "\n\n")
}

// driversBlock serializes driver answers in catalog order, one per line
func driversBlock(drivers []domain.DriverAnswer, bullet string) string {
	byKey := make(map[string]string, len(drivers))
	for _, d := range drivers {
		byKey[d.QuestionKey] = d.Answer
	}
	parts := make([]string, 0, len(drivers))
	for _, q := range content.DriverQuestions {
		if answer, ok := byKey[q.Key]; ok {
			parts = append(parts, fmt.Sprintf("%s%s: %s", bullet, q.Key, answer))
		}
	}
	return strings.Join(parts, "\n")
}

// capPRD truncates PRD content to at most limit bytes, backing up so a
// multi-byte rune is never split at the cut point.
func capPRD(prd string, limit int) string {
	if len(prd) <= limit {
		return prd
	}
	for limit > 0 && !utf8.RuneStart(prd[limit]) {
		limit--
	}
	return prd[:limit]
}

func titleOrUntitled(title string) string {
	if title == "" {
		return "Untitled Product"
	}
	return title
}
