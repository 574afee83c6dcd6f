package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Completer is the minimal LLM surface the synthesizer needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.7

	anthropicVersion = "2023-06-01"

	systemPersona = "You are a technical AI writer producing a daily digest for a technical blog about AI developments."
)

// NewClient selects the wire shape by inspecting the endpoint host: the
// Anthropic API gets its native envelope, everything else is treated as
// OpenAI-compatible.
func NewClient(endpoint, apiKey, model string) Completer {
	if strings.Contains(endpoint, "anthropic.com") {
		return &anthropicClient{
			endpoint:   endpoint,
			apiKey:     apiKey,
			model:      model,
			httpClient: http.DefaultClient,
		}
	}
	return newOpenAIClient(endpoint, apiKey, model)
}

// --- Anthropic wire shape ---

type anthropicClient struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *anthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := anthropicRequest{
		Model:     c.model,
		MaxTokens: defaultMaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal anthropic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build anthropic request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("anthropic call failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("anthropic response contained no content blocks")
	}
	return parsed.Content[0].Text, nil
}

// --- OpenAI-compatible wire shape ---

type openAIClient struct {
	client *openai.Client
	model  string
}

func newOpenAIClient(endpoint, apiKey, model string) *openAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		// The configured endpoint points at the chat completions URL; the
		// client wants the API base.
		cfg.BaseURL = strings.TrimSuffix(strings.TrimSuffix(endpoint, "/"), "/chat/completions")
	}
	return &openAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPersona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
