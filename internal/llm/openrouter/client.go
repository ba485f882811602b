// Package openrouter implements llm.Client against an OpenAI-compatible
// chat-completions API (OpenRouter by default).
package openrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/decisionloom/decisionloom/internal/config"
	"github.com/decisionloom/decisionloom/internal/llm"
	"github.com/decisionloom/decisionloom/internal/telemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTemperature = 0.7

// Client calls the upstream completion API. One instance is shared
// process-wide; the embedded http.Client reuses its connection pool.
type Client struct {
	apiKey  string
	baseURL string
	retries int
	client  *http.Client
}

// NewClient creates a new completion client from config
func NewClient(cfg config.LLMConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		retries: cfg.Retries,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type streamDelta struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func toWire(messages []llm.Message) []chatMessage {
	wire := make([]chatMessage, len(messages))
	for i, m := range messages {
		wire[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	return wire
}

func promptLen(messages []llm.Message) int {
	total := 0
	for _, m := range messages {
		total += len(m.Content)
	}
	return total
}

// Complete blocks until the model finishes and returns the full text
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	return c.complete(ctx, "llm.complete", req.Model, req.Messages(), req.MaxTokens, req.Context)
}

func (c *Client) complete(ctx context.Context, spanName, model string, messages []llm.Message, maxTokens int, cc llm.CallContext) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, spanName, trace.WithAttributes(
		attribute.String("llm.model", model),
		attribute.Int("llm.prompt_length", promptLen(messages)),
	))
	defer span.End()

	start := time.Now()
	logStart(spanName, model, promptLen(messages), cc)

	body, err := c.do(ctx, chatRequest{
		Model:       model,
		Messages:    toWire(messages),
		Temperature: defaultTemperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		recordError(span, spanName, model, start, err, cc)
		return "", err
	}
	defer body.Close()

	var resp chatResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		err = fmt.Errorf("failed to decode response: %w", err)
		recordError(span, spanName, model, start, err, cc)
		return "", err
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	span.SetAttributes(
		attribute.Int("llm.output_length", len(content)),
		attribute.Int("llm.tokens_used", resp.Usage.TotalTokens),
		attribute.Int64("llm.duration_ms", time.Since(start).Milliseconds()),
	)
	logEnd(spanName, model, len(content), resp.Usage.TotalTokens, start, cc)

	return content, nil
}

// CompleteStream yields incremental text fragments as they arrive
func (c *Client) CompleteStream(ctx context.Context, req llm.Request) (<-chan llm.StreamChunk, error) {
	return c.stream(ctx, "llm.complete_stream", req.Model, req.Messages(), req.MaxTokens, req.Context)
}

// CompleteChatStream streams a full ordered conversation
func (c *Client) CompleteChatStream(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	return c.stream(ctx, "llm.chat_stream", req.Model, req.Messages, req.MaxTokens, req.Context)
}

func (c *Client) stream(ctx context.Context, spanName, model string, messages []llm.Message, maxTokens int, cc llm.CallContext) (<-chan llm.StreamChunk, error) {
	ctx, span := telemetry.Tracer().Start(ctx, spanName, trace.WithAttributes(
		attribute.String("llm.model", model),
		attribute.Int("llm.prompt_length", promptLen(messages)),
	))

	start := time.Now()
	logStart(spanName, model, promptLen(messages), cc)

	body, err := c.do(ctx, chatRequest{
		Model:       model,
		Messages:    toWire(messages),
		Temperature: defaultTemperature,
		MaxTokens:   maxTokens,
		Stream:      true,
	})
	if err != nil {
		recordError(span, spanName, model, start, err, cc)
		span.End()
		return nil, err
	}

	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		defer span.End()
		defer body.Close()

		outputLen := 0
		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var delta streamDelta
			if err := json.Unmarshal([]byte(data), &delta); err != nil {
				// Skip malformed keep-alive frames rather than killing the stream.
				continue
			}
			if len(delta.Choices) == 0 || delta.Choices[0].Delta.Content == "" {
				continue
			}

			text := delta.Choices[0].Delta.Content
			outputLen += len(text)
			select {
			case out <- llm.StreamChunk{Text: text}:
			case <-ctx.Done():
				recordError(span, spanName, model, start, ctx.Err(), cc)
				return
			}
		}

		if err := scanner.Err(); err != nil {
			recordError(span, spanName, model, start, err, cc)
			select {
			case out <- llm.StreamChunk{Err: err}:
			case <-ctx.Done():
			}
			return
		}

		span.SetAttributes(
			attribute.Int("llm.output_length", outputLen),
			attribute.Int64("llm.duration_ms", time.Since(start).Milliseconds()),
		)
		logEnd(spanName, model, outputLen, 0, start, cc)
	}()

	return out, nil
}

// do sends one chat-completions request and returns the response body.
// Transport-level failures before the first byte are retried per config;
// HTTP error statuses are not.
func (c *Client) do(ctx context.Context, payload chatRequest) (io.ReadCloser, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(buf))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
		}

		return resp.Body, nil
	}
	return nil, lastErr
}

func logStart(event, model string, promptLength int, cc llm.CallContext) {
	log.Info().
		Str("event", event+".start").
		Str("model", model).
		Int("prompt_length", promptLength).
		Str("request_id", cc.RequestID).
		Str("route", cc.Route).
		Str("session_id", cc.SessionID).
		Msg("llm call started")
}

func logEnd(event, model string, outputLength, tokensUsed int, start time.Time, cc llm.CallContext) {
	log.Info().
		Str("event", event+".end").
		Str("model", model).
		Int("output_length", outputLength).
		Int("tokens_used", tokensUsed).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Str("request_id", cc.RequestID).
		Str("route", cc.Route).
		Msg("llm call finished")
}

func recordError(span trace.Span, event, model string, start time.Time, err error, cc llm.CallContext) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	log.Error().
		Str("event", event+".error").
		Str("model", model).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Str("request_id", cc.RequestID).
		Str("route", cc.Route).
		Err(err).
		Msg("llm call failed")
}
