package critique

import (
	"context"
	"strings"

	genai "google.golang.org/genai"

	"github.com/panbanda/docaudit/pkg/models"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli         *genai.Client
	model       string
	temperature float32
	style       Style
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, opts Options) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	if opts.Timeout > 0 {
		timeout := opts.Timeout
		cfg.HTTPOptions.Timeout = &timeout
	}

	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, &TransportError{Backend: "gemini:" + opts.Model, Err: err, Permanent: true}
	}
	return &GeminiClient{
		cli:         cli,
		model:       opts.Model,
		temperature: float32(opts.Temperature),
		style:       opts.Style,
	}, nil
}

// Name identifies the backend and model.
func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Critique implements Critic. The system turn becomes the system
// instruction and assistant turns are sent with the model role.
func (g *GeminiClient) Critique(ctx context.Context, block string) (models.Critique, error) {
	var (
		system   *genai.Content
		contents []*genai.Content
	)
	for _, m := range Conversation(block, g.style) {
		part := []*genai.Part{{Text: m.Content}}
		switch m.Role {
		case RoleSystem:
			system = &genai.Content{Parts: part}
		case RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: part})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: part})
		}
	}

	temp := g.temperature
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       &temp,
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return models.Critique{}, &TransportError{Backend: g.Name(), Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return models.Critique{}, &MalformedCritiqueError{Reason: "no candidates", Err: ErrEmptyResponse}
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return Parse(sb.String())
}
