package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/ds-tutor-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/ds-tutor-cli/internal/adapters/secrets/pass"
	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
)

// Store tries the primary backend first and falls back on any error other
// than context cancellation.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimary  = errors.New("primary secret store is nil")
	errNilFallback = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimary
	}
	if fallback == nil {
		return nil, errNilFallback
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewPassWithFileFallback prefers `pass` and keeps a 0600 file copy under fileRoot
// for machines without it.
func NewPassWithFileFallback(fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	return try("put", func(store ports.SecretStore) error {
		return store.Put(ctx, key, value)
	}, s.primary, s.fallback)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := try("get", func(store ports.SecretStore) error {
		got, err := store.Get(ctx, key)
		if err == nil {
			value = got
		}
		return err
	}, s.primary, s.fallback)

	return value, err
}

// Delete removes the entry from both backends. A backend that never held the
// key counts as deleted.
func (s *Store) Delete(ctx context.Context, key string) error {
	primaryErr := ignoreNotFound(s.primary.Delete(ctx, key))
	if errors.Is(primaryErr, context.Canceled) || errors.Is(primaryErr, context.DeadlineExceeded) {
		return primaryErr
	}

	fallbackErr := ignoreNotFound(s.fallback.Delete(ctx, key))
	if fallbackErr == nil {
		return nil
	}
	if primaryErr == nil {
		return fmt.Errorf("secret delete: fallback backend: %w", fallbackErr)
	}

	return fmt.Errorf("secret delete: primary backend: %w; fallback backend: %w", primaryErr, fallbackErr)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil
	}
	return err
}

func try(op string, call func(ports.SecretStore) error, primary, fallback ports.SecretStore) error {
	primaryErr := call(primary)
	if primaryErr == nil {
		return nil
	}
	if errors.Is(primaryErr, context.Canceled) || errors.Is(primaryErr, context.DeadlineExceeded) {
		return primaryErr
	}

	fallbackErr := call(fallback)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("secret %s: primary backend: %w; fallback backend: %w", op, primaryErr, fallbackErr)
}
