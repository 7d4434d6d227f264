package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
)

type TranscriptService struct {
	repo  ports.TranscriptRepository
	clock ports.Clock
}

func NewTranscriptService(repo ports.TranscriptRepository, clock ports.Clock) *TranscriptService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &TranscriptService{repo: repo, clock: clock}
}

// Export writes a snapshot of the session and returns where it landed.
func (s *TranscriptService) Export(ctx context.Context, tutor *TutorService) (string, error) {
	store := tutor.Store()
	if store.Turns() == 0 {
		return "", domain.ErrEmptyTranscript
	}

	transcript := store.Snapshot(tutor.Config(), s.clock.Now())
	path, err := s.repo.Save(ctx, transcript)
	if err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}

	return path, nil
}

func (s *TranscriptService) Get(ctx context.Context, sessionID string) (domain.Transcript, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.Transcript{}, domain.ErrTranscriptNotFound
	}

	transcript, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("get transcript %q: %w", sessionID, err)
	}

	return transcript, nil
}

func (s *TranscriptService) List(ctx context.Context) ([]domain.TranscriptSummary, error) {
	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	return summaries, nil
}
