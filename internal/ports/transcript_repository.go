package ports

import (
	"context"

	"github.com/bnema/ds-tutor-cli/internal/domain"
)

type TranscriptRepository interface {
	Save(ctx context.Context, transcript domain.Transcript) (string, error)
	Get(ctx context.Context, sessionID string) (domain.Transcript, error)
	List(ctx context.Context) ([]domain.TranscriptSummary, error)
}
