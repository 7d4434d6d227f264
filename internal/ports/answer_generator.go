package ports

import (
	"context"

	"github.com/bnema/ds-tutor-cli/internal/domain"
)

type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string, cfg domain.GenerationConfig) (domain.Reply, error)
}
