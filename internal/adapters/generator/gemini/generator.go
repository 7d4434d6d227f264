package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-1.5-flash-001"

type Generator struct {
	client *genai.Client
}

var _ ports.AnswerGenerator = (*Generator)(nil)

func New(ctx context.Context, cred domain.Credential, cfg domain.GenerationConfig, httpClient *http.Client) (*Generator, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     cred.Reveal(),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Generator{client: client}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string, cfg domain.GenerationConfig) (domain.Reply, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	temperature := float32(cfg.Temperature)
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return domain.Reply{}, fmt.Errorf("gemini generate content: %w", err)
	}

	return replyFromResponse(resp), nil
}

func replyFromResponse(resp *genai.GenerateContentResponse) domain.Reply {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return domain.MissingContentReply()
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		b.WriteString(part.Text)
	}

	if b.Len() == 0 {
		return domain.MissingContentReply()
	}

	return domain.StructuredReply(b.String())
}
