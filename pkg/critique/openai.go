package critique

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/panbanda/docaudit/pkg/models"
)

// DefaultOpenAIURL is the Chat Completions endpoint used by default.
const DefaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient calls an OpenAI-compatible Chat Completions API.
type OpenAIClient struct {
	http        *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	jsonMode    bool
	style       Style
}

// NewOpenAIClient creates an OpenAI-compatible client.
func NewOpenAIClient(opts Options) *OpenAIClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	return &OpenAIClient{
		http:        &http.Client{Timeout: timeout},
		apiKey:      opts.APIKey,
		model:       opts.Model,
		baseURL:     baseURL,
		temperature: opts.Temperature,
		jsonMode:    opts.JSONMode,
		style:       opts.Style,
	}
}

// Name identifies the backend and model.
func (c *OpenAIClient) Name() string { return "openai:" + c.model }

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Critique implements Critic.
func (c *OpenAIClient) Critique(ctx context.Context, block string) (models.Critique, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    Conversation(block, c.style),
		Temperature: c.temperature,
	}
	if c.jsonMode {
		reqBody.ResponseFormat = map[string]string{"type": "json_object"}
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return models.Critique{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return models.Critique{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Critique{}, &TransportError{Backend: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return models.Critique{}, &TransportError{
			Backend:    c.Name(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Permanent:  permanentStatus(resp.StatusCode),
		}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Critique{}, &TransportError{Backend: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return models.Critique{}, &MalformedCritiqueError{Reason: "no choices", Err: ErrEmptyResponse}
	}
	return Parse(out.Choices[0].Message.Content)
}
