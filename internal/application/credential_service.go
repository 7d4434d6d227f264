package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
)

const DefaultCredentialKey = "dstutor/api_key"

type CredentialSource string

const (
	CredentialSourceNone  CredentialSource = "none"
	CredentialSourceFlag  CredentialSource = "flag"
	CredentialSourceEnv   CredentialSource = "environment"
	CredentialSourceStore CredentialSource = "secret store"
)

type CredentialService struct {
	store     ports.SecretStore
	key       string
	lookupEnv func() string
}

func NewCredentialService(store ports.SecretStore, key string, lookupEnv func() string) *CredentialService {
	if key == "" {
		key = DefaultCredentialKey
	}
	if lookupEnv == nil {
		lookupEnv = func() string { return "" }
	}

	return &CredentialService{store: store, key: key, lookupEnv: lookupEnv}
}

func (s *CredentialService) Key() string {
	return s.key
}

// Resolve picks the first credential available from the explicit value, the
// environment and the secret store, in that order.
func (s *CredentialService) Resolve(ctx context.Context, explicit string) (domain.Credential, CredentialSource, error) {
	if cred := domain.NewCredential(explicit); !cred.IsZero() {
		return cred, CredentialSourceFlag, nil
	}
	if cred := domain.NewCredential(s.lookupEnv()); !cred.IsZero() {
		return cred, CredentialSourceEnv, nil
	}
	if s.store == nil {
		return "", CredentialSourceNone, domain.ErrCredentialMissing
	}

	stored, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", CredentialSourceNone, domain.ErrCredentialMissing
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", CredentialSourceNone, ctxErr
		}
		return "", CredentialSourceNone, fmt.Errorf("%w: read stored api key: %w", domain.ErrConfiguration, err)
	}

	cred := domain.NewCredential(stored)
	if cred.IsZero() {
		return "", CredentialSourceNone, domain.ErrCredentialMissing
	}

	return cred, CredentialSourceStore, nil
}

func (s *CredentialService) Save(ctx context.Context, raw string) error {
	cred := domain.NewCredential(raw)
	if cred.IsZero() {
		return domain.ErrCredentialMissing
	}
	if s.store == nil {
		return fmt.Errorf("%w: no secret store configured", domain.ErrConfiguration)
	}

	if err := s.store.Put(ctx, s.key, cred.Reveal()); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	return nil
}

func (s *CredentialService) Forget(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete stored api key: %w", err)
	}

	return nil
}
