package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_TaggedFence(t *testing.T) {
	raw := "Here you go:\n```json\n[{\"type\":\"risk\",\"text\":\"x\"}]\n```\nHope that helps!"
	assert.Equal(t, `[{"type":"risk","text":"x"}]`, Extract(raw, JSONArray))
}

func TestExtract_GenericFence(t *testing.T) {
	raw := "```\n{\"answers\":{}}\n```"
	assert.Equal(t, `{"answers":{}}`, Extract(raw, JSONObject))
}

func TestExtract_BracketScan(t *testing.T) {
	raw := `The decisions are ["a", "b"] as requested.`
	assert.Equal(t, `["a", "b"]`, Extract(raw, JSONArray))
}

func TestExtract_BracketScanUsesOutermostPair(t *testing.T) {
	raw := `prose [1, [2, 3]] trailing ] noise`
	// first open bracket to last close bracket, even across noise
	assert.Equal(t, `[1, [2, 3]] trailing ]`, Extract(raw, JSONArray))
}

func TestExtract_FallsBackToTrimmedRaw(t *testing.T) {
	raw := "  no structure here at all  "
	assert.Equal(t, "no structure here at all", Extract(raw, JSONArray))
}

func TestExtract_MermaidFence(t *testing.T) {
	raw := "```mermaid\nflowchart TD\n    A --> B\n```"
	assert.Equal(t, "flowchart TD\n    A --> B", Extract(raw, Mermaid))
}

func TestExtract_MermaidGenericFenceFallback(t *testing.T) {
	raw := "```\nflowchart LR\n    A --> B\n```"
	assert.Equal(t, "flowchart LR\n    A --> B", Extract(raw, Mermaid))
}

func TestExtract_MermaidWithoutFenceReturnsTrimmed(t *testing.T) {
	raw := "\nflowchart TD\n    A --> B\n"
	assert.Equal(t, "flowchart TD\n    A --> B", Extract(raw, Mermaid))
}

func TestExtract_ObjectBrackets(t *testing.T) {
	raw := `Sure! {"key": "value"} — done.`
	assert.Equal(t, `{"key": "value"}`, Extract(raw, JSONObject))
}

func TestExtract_PrefersFenceOverBrackets(t *testing.T) {
	raw := "[outside]\n```json\n[\"inside\"]\n```"
	assert.Equal(t, `["inside"]`, Extract(raw, JSONArray))
}
