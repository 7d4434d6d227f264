package openai

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
	openai "github.com/sashabaranov/go-openai"
)

const DefaultModel = openai.GPT4oMini

type Generator struct {
	client *openai.Client
}

var _ ports.AnswerGenerator = (*Generator)(nil)

func New(cred domain.Credential, cfg domain.GenerationConfig, httpClient *http.Client) *Generator {
	clientConfig := openai.DefaultConfig(cred.Reveal())
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	return &Generator{client: openai.NewClientWithConfig(clientConfig)}
}

func (g *Generator) Generate(ctx context.Context, prompt string, cfg domain.GenerationConfig) (domain.Reply, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: requestTemperature(cfg.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if cfg.MaxTokens > 0 {
		req.MaxTokens = int(cfg.MaxTokens)
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return domain.MissingContentReply(), nil
	}

	return domain.StructuredReply(resp.Choices[0].Message.Content), nil
}

// requestTemperature keeps an explicit zero on the wire. The client omits a
// zero temperature, which would let the API apply its own default.
func requestTemperature(temperature float64) float32 {
	if temperature == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(temperature)
}
