package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
	"github.com/bnema/ds-tutor-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSessionRequiresCredential(t *testing.T) {
	t.Parallel()

	called := false
	factory := func(context.Context, domain.Credential, domain.GenerationConfig) (ports.AnswerGenerator, error) {
		called = true
		return nil, nil
	}

	_, err := StartSession(context.Background(), factory, "", testGenerationConfig, SessionOptions{}, nil, nil)
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.False(t, called)
}

func TestStartSessionWrapsFactoryFailure(t *testing.T) {
	t.Parallel()

	factory := func(context.Context, domain.Credential, domain.GenerationConfig) (ports.AnswerGenerator, error) {
		return nil, errors.New("invalid api key")
	}

	_, err := StartSession(context.Background(), factory, domain.NewCredential("bad"), testGenerationConfig, SessionOptions{}, nil, nil)
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.ErrorContains(t, err, "initialize gemini generator")
	assert.ErrorContains(t, err, "invalid api key")
}

func TestStartSessionKeepsConfigurationErrorsAsIs(t *testing.T) {
	t.Parallel()

	want := fmt.Errorf("%w: unknown provider", domain.ErrConfiguration)
	factory := func(context.Context, domain.Credential, domain.GenerationConfig) (ports.AnswerGenerator, error) {
		return nil, want
	}

	_, err := StartSession(context.Background(), factory, domain.NewCredential("key"), testGenerationConfig, SessionOptions{}, nil, nil)
	assert.Equal(t, want, err)
}

func TestStartSessionReturnsReadyTutor(t *testing.T) {
	t.Parallel()

	generator := mocks.NewMockAnswerGenerator(t)
	var gotCred domain.Credential
	factory := func(_ context.Context, cred domain.Credential, _ domain.GenerationConfig) (ports.AnswerGenerator, error) {
		gotCred = cred
		return generator, nil
	}
	generator.EXPECT().Generate(mockAnyContext(), promptContaining("User: hi"), testGenerationConfig).
		Return(domain.StructuredReply("hello"), nil).
		Once()

	tutor, err := StartSession(context.Background(), factory, domain.NewCredential("key"), testGenerationConfig, SessionOptions{DisplayWindow: 3}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "key", gotCred.Reveal())
	assert.Equal(t, testGenerationConfig, tutor.Config())
	assert.Equal(t, 0, tutor.Store().Turns())

	text, err := tutor.Process(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}
