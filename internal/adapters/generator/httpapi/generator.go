package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
)

const maxResponseBytes = 1 << 20

var errEndpointMissing = errors.New("http provider requires a base url")

// Generator posts prompts to a plain JSON endpoint. A JSON object reply is read
// through its "content" field; any other body is taken as raw text.
type Generator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ ports.AnswerGenerator = (*Generator)(nil)

type generateRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int64   `json:"max_tokens,omitempty"`
}

func New(cred domain.Credential, cfg domain.GenerationConfig, httpClient *http.Client) (*Generator, error) {
	endpoint := strings.TrimSpace(cfg.BaseURL)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, errEndpointMissing)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Generator{endpoint: endpoint, apiKey: cred.Reveal(), client: httpClient}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string, cfg domain.GenerationConfig) (domain.Reply, error) {
	payload, err := json.Marshal(generateRequest{
		Prompt:      prompt,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return domain.Reply{}, fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Reply{}, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("send generate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.Reply{}, fmt.Errorf("read generate response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.Reply{}, fmt.Errorf("generate endpoint returned %d: %s", resp.StatusCode, snippet(body))
	}

	return decodeReply(resp.Header.Get("Content-Type"), body), nil
}

func decodeReply(contentType string, body []byte) domain.Reply {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json") {
		return domain.RawReply(strings.TrimSpace(string(body)))
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.RawReply(strings.TrimSpace(string(body)))
	}

	switch value := decoded.(type) {
	case map[string]any:
		return domain.ReplyFromFields(value)
	case string:
		return domain.RawReply(value)
	default:
		return domain.RawReply(strings.TrimSpace(string(body)))
	}
}

func snippet(body []byte) string {
	const limit = 200

	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}

	return text
}
