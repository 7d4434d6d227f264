package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
)

type GeneratorFactory func(ctx context.Context, cred domain.Credential, cfg domain.GenerationConfig) (ports.AnswerGenerator, error)

// StartSession validates the credential, initializes the generator and returns
// a tutor bound to a fresh session. Every failure here is a configuration error.
func StartSession(
	ctx context.Context,
	factory GeneratorFactory,
	cred domain.Credential,
	cfg domain.GenerationConfig,
	opts SessionOptions,
	clock ports.Clock,
	logger *slog.Logger,
) (*TutorService, error) {
	if cred.IsZero() {
		return nil, domain.ErrCredentialMissing
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: no generator factory", domain.ErrConfiguration)
	}

	generator, err := factory(ctx, cred, cfg)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: initialize %s generator: %w", domain.ErrConfiguration, cfg.Provider, err)
	}

	store := NewSessionStore(opts, clock)
	if logger != nil {
		logger.Info("session started",
			slog.String("session_id", store.ID()),
			slog.String("provider", string(cfg.Provider)),
			slog.String("model", cfg.Model),
		)
	}

	return NewTutorService(store, generator, cfg, logger), nil
}
