package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
)

const (
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultMaxTokens = 1024
)

type Generator struct {
	client anthropic.Client
}

var _ ports.AnswerGenerator = (*Generator)(nil)

func New(cred domain.Credential, cfg domain.GenerationConfig, httpClient *http.Client) *Generator {
	opts := []option.RequestOption{
		option.WithAPIKey(cred.Reveal()),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &Generator{client: anthropic.NewClient(opts...)}
}

func (g *Generator) Generate(ctx context.Context, prompt string, cfg domain.GenerationConfig) (domain.Reply, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   maxTokens,
		Temperature: param.NewOpt(cfg.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return domain.Reply{}, fmt.Errorf("anthropic messages: %w", err)
	}

	return replyFromMessage(msg), nil
}

func replyFromMessage(msg *anthropic.Message) domain.Reply {
	if msg == nil {
		return domain.MissingContentReply()
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	if b.Len() == 0 {
		return domain.MissingContentReply()
	}

	return domain.StructuredReply(b.String())
}
