package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/weblog-assistant/backend/internal/models"
)

// Client implements Classifier, Extractor and Generator on top of a single
// langchaingo model. All calls run under the configured timeout; a timeout
// or provider error surfaces as an adapter failure to the caller.
type Client struct {
	model       llms.Model
	timeout     time.Duration
	temperature float64
}

// NewClient wraps a langchaingo model. A zero timeout disables the
// per-call deadline.
func NewClient(model llms.Model, timeout time.Duration, temperature float64) *Client {
	return &Client{model: model, timeout: timeout, temperature: temperature}
}

// Classify returns the intent for a question. Any response other than the
// recognized "log" token is treated as general: when classification is
// ambiguous the log engine must not run.
func (c *Client) Classify(ctx context.Context, question string) (models.Intent, error) {
	content, err := c.complete(ctx, classifyPrompt, question)
	if err != nil {
		return "", fmt.Errorf("intent classification failed: %w", err)
	}
	if strings.ToLower(strings.TrimSpace(content)) == string(models.IntentLog) {
		return models.IntentLog, nil
	}
	return models.IntentGeneral, nil
}

// Extract pulls filter parameters from a question as a JSON object.
func (c *Client) Extract(ctx context.Context, question string) (models.QueryParams, error) {
	content, err := c.complete(ctx, extractPrompt, question, llms.WithJSONMode())
	if err != nil {
		return models.QueryParams{}, fmt.Errorf("parameter extraction failed: %w", err)
	}

	var params models.QueryParams
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &params); err != nil {
		return models.QueryParams{}, fmt.Errorf("parameter extraction returned malformed JSON: %w", err)
	}
	return params, nil
}

// Generate produces the assistant answer from the formatted history and the
// tool output for this turn.
func (c *Client) Generate(ctx context.Context, history []models.ConversationTurn, toolOutput string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString("Recent conversation:\n")
	prompt.WriteString(FormatHistory(history))
	prompt.WriteString("\nLog tool output:\n")
	if toolOutput == "" {
		prompt.WriteString("(none)\n")
	} else {
		prompt.WriteString(toolOutput + "\n")
	}

	content, err := c.complete(ctx, generatePrompt, prompt.String())
	if err != nil {
		return "", fmt.Errorf("response generation failed: %w", err)
	}
	return strings.TrimSpace(content), nil
}

// FormatHistory renders turns as speaker-labeled lines, oldest first.
func FormatHistory(history []models.ConversationTurn) string {
	var b strings.Builder
	for _, turn := range history {
		label := "Assistant"
		if turn.Role == models.RoleUser {
			label = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, turn.Content)
	}
	return b.String()
}

// complete runs one system+user exchange and returns the first choice text.
func (c *Client) complete(ctx context.Context, system, user string, extra ...llms.CallOption) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	opts := append([]llms.CallOption{llms.WithTemperature(c.temperature)}, extra...)

	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Content, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some
// providers emit even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
