package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "dstutor/api_key"

func TestStorePutInsertsMultilineEntry(t *testing.T) {
	t.Parallel()

	called := false
	store := &Store{
		run: func(_ context.Context, stdin string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, []string{"insert", "--multiline", "--force", testKey}, args)
			assert.Equal(t, "AIza-secret\n", stdin)
			return "", "", nil
		},
	}

	require.NoError(t, store.Put(context.Background(), testKey, "AIza-secret"))
	assert.True(t, called)
}

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(_ context.Context, stdin string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", testKey}, args)
			assert.Empty(t, stdin)
			return "AIza-secret\r\nnote: tutor key\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "AIza-secret", value)
}

func TestStoreGetMissingEntryIsNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "Error: dstutor/api_key is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetSurfacesStderr(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "gpg: decryption failed: No secret key", errors.New("exit status 2")
		},
	}

	_, err := store.Get(context.Background(), testKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass show")
	assert.ErrorContains(t, err, testKey)
	assert.ErrorContains(t, err, "decryption failed")
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteMissingEntryIsNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(_ context.Context, _ string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "--force", testKey}, args)
			return "", "Error: dstutor/api_key is not in the password store.", errors.New("exit status 1")
		},
	}

	err := store.Delete(context.Background(), testKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreUnavailablePropagates(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "", ErrUnavailable
		},
	}

	err := store.Put(context.Background(), testKey, "v")
	require.ErrorIs(t, err, ErrUnavailable)
}
