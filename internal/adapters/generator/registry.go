package generator

import (
	"context"
	"fmt"
	"net/http"

	anthropicgen "github.com/bnema/ds-tutor-cli/internal/adapters/generator/anthropic"
	geminigen "github.com/bnema/ds-tutor-cli/internal/adapters/generator/gemini"
	"github.com/bnema/ds-tutor-cli/internal/adapters/generator/httpapi"
	openaigen "github.com/bnema/ds-tutor-cli/internal/adapters/generator/openai"
	"github.com/bnema/ds-tutor-cli/internal/application"
	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
)

func DefaultModel(provider domain.Provider) string {
	switch provider {
	case domain.ProviderGemini:
		return geminigen.DefaultModel
	case domain.ProviderAnthropic:
		return anthropicgen.DefaultModel
	case domain.ProviderOpenAI:
		return openaigen.DefaultModel
	default:
		return ""
	}
}

// NewFactory returns a factory building the adapter named by cfg.Provider.
func NewFactory(httpClient *http.Client) application.GeneratorFactory {
	return func(ctx context.Context, cred domain.Credential, cfg domain.GenerationConfig) (ports.AnswerGenerator, error) {
		switch cfg.Provider {
		case domain.ProviderGemini:
			gen, err := geminigen.New(ctx, cred, cfg, httpClient)
			if err != nil {
				return nil, err
			}
			return gen, nil
		case domain.ProviderAnthropic:
			return anthropicgen.New(cred, cfg, httpClient), nil
		case domain.ProviderOpenAI:
			return openaigen.New(cred, cfg, httpClient), nil
		case domain.ProviderHTTP:
			gen, err := httpapi.New(cred, cfg, httpClient)
			if err != nil {
				return nil, err
			}
			return gen, nil
		default:
			return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrConfiguration, cfg.Provider)
		}
	}
}
