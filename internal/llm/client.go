// Package llm defines the completion client contract and the extraction
// helpers that recover structured payloads from free-form model text.
package llm

import "context"

// Role tags one turn of a conversation
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged conversation turn
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CallContext is opaque observability metadata threaded through every call.
// It must never influence prompt content or control flow.
type CallContext struct {
	RequestID string
	Route     string
	SessionID string
}

// Request describes a single system+user completion
type Request struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Context      CallContext
}

// Messages builds the two-turn conversation for this request
func (r Request) Messages() []Message {
	return []Message{
		{Role: RoleSystem, Content: r.SystemPrompt},
		{Role: RoleUser, Content: r.UserPrompt},
	}
}

// ChatRequest describes a streamed multi-turn conversation
type ChatRequest struct {
	Model     string
	Messages  []Message
	MaxTokens int
	Context   CallContext
}

// StreamChunk is one fragment of a streamed completion. A chunk with a
// non-nil Err terminates the stream; the channel is closed afterwards.
type StreamChunk struct {
	Text string
	Err  error
}

// Client is the upstream completion API in its three transport modes.
// All three propagate upstream errors unchanged; none retries beyond the
// transport policy configured at construction.
type Client interface {
	// Complete blocks until the model finishes and returns the full text.
	// A model response with no content yields "" and a nil error.
	Complete(ctx context.Context, req Request) (string, error)

	// CompleteStream yields incremental text fragments as they arrive.
	// The sequence is finite and not restartable; the consumer concatenates
	// chunks to reconstruct the full text.
	CompleteStream(ctx context.Context, req Request) (<-chan StreamChunk, error)

	// CompleteChatStream is CompleteStream over a full ordered conversation.
	CompleteChatStream(ctx context.Context, req ChatRequest) (<-chan StreamChunk, error)
}
