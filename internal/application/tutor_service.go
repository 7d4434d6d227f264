package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
)

// TutorService runs one conversational turn at a time against a session.
type TutorService struct {
	store     *SessionStore
	generator ports.AnswerGenerator
	config    domain.GenerationConfig
	logger    *slog.Logger

	inFlight sync.Mutex
}

func NewTutorService(store *SessionStore, generator ports.AnswerGenerator, cfg domain.GenerationConfig, logger *slog.Logger) *TutorService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &TutorService{
		store:     store,
		generator: generator,
		config:    cfg,
		logger:    logger,
	}
}

func (s *TutorService) Store() *SessionStore {
	return s.store
}

func (s *TutorService) Config() domain.GenerationConfig {
	return s.config
}

// Process answers userText. The exchange is recorded only after the generator
// returns; a failed call leaves the session untouched.
func (s *TutorService) Process(ctx context.Context, userText string) (string, error) {
	if s.generator == nil || s.store == nil {
		return "", fmt.Errorf("%w: answer generator is not initialized", domain.ErrConfiguration)
	}
	if strings.TrimSpace(userText) == "" {
		return "", domain.ErrEmptyUtterance
	}

	if !s.inFlight.TryLock() {
		return "", domain.ErrTurnInFlight
	}
	defer s.inFlight.Unlock()

	memory := s.store.ReadMemory()
	prompt := BuildPrompt(memory, userText)

	s.logger.Debug("generating answer",
		slog.String("session_id", s.store.ID()),
		slog.String("provider", string(s.config.Provider)),
		slog.String("model", s.config.Model),
		slog.Int("memory_turns", len(memory)),
	)

	reply, err := s.generator.Generate(ctx, prompt, s.config)
	if err != nil {
		s.logger.Error("generation failed", slog.String("session_id", s.store.ID()), slog.Any("error", err))
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	if reply.Malformed() {
		s.logger.Warn("substituting placeholder reply",
			slog.String("session_id", s.store.ID()),
			slog.Any("error", domain.ErrMalformedResponse),
		)
	}

	text := reply.Text()
	s.store.AppendTurn(userText, text)

	return text, nil
}
