package llm

import "strings"

// Kind selects the payload shape Extract looks for
type Kind int

const (
	JSONArray Kind = iota
	JSONObject
	Mermaid
)

func (k Kind) fenceTag() string {
	switch k {
	case Mermaid:
		return "mermaid"
	default:
		return "json"
	}
}

func (k Kind) brackets() (byte, byte, bool) {
	switch k {
	case JSONArray:
		return '[', ']', true
	case JSONObject:
		return '{', '}', true
	default:
		return 0, 0, false
	}
}

// Extract isolates the candidate payload substring from raw model output.
// Strategies are tried in order: tagged code fence, generic code fence,
// bracket scan (first opening bracket to last matching close), then the
// trimmed original text so the caller's own parse fails explicitly.
// Extract never parses JSON itself.
func Extract(raw string, kind Kind) string {
	trimmed := strings.TrimSpace(raw)

	if body, ok := extractFence(trimmed, kind.fenceTag()); ok {
		return body
	}
	if body, ok := extractFence(trimmed, ""); ok {
		return body
	}
	if open, cls, ok := kind.brackets(); ok {
		if body, found := extractBrackets(trimmed, open, cls); found {
			return body
		}
	}
	return trimmed
}

// extractFence returns the interior of the first ```tag fenced block.
// An empty tag matches any fence.
func extractFence(s, tag string) (string, bool) {
	marker := "```"
	start := strings.Index(s, marker)
	if start == -1 {
		return "", false
	}

	rest := s[start+len(marker):]
	nl := strings.IndexByte(rest, '\n')
	if nl == -1 {
		return "", false
	}

	fenceTag := strings.ToLower(strings.TrimSpace(rest[:nl]))
	if tag != "" && fenceTag != tag {
		return "", false
	}

	body := rest[nl+1:]
	end := strings.Index(body, marker)
	if end == -1 {
		return "", false
	}

	return strings.TrimSpace(body[:end]), true
}

// extractBrackets returns the inclusive substring from the first open
// bracket to the last close bracket, tolerating surrounding prose.
func extractBrackets(s string, open, cls byte) (string, bool) {
	first := strings.IndexByte(s, open)
	last := strings.LastIndexByte(s, cls)
	if first == -1 || last == -1 || last <= first {
		return "", false
	}
	return strings.TrimSpace(s[first : last+1]), true
}
