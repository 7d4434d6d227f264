package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	generator, err := New(context.Background(), domain.NewCredential("test-key"), domain.GenerationConfig{BaseURL: server.URL}, server.Client())
	require.NoError(t, err)

	return generator
}

func TestGeneratorSendsPromptAndReadsCandidateText(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotPrompt string
	var gotTemperature float64
	generator := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var payload struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
			GenerationConfig struct {
				Temperature float64 `json:"temperature"`
			} `json:"generationConfig"`
		}
		assert.NoError(t, json.Unmarshal(body, &payload))
		if len(payload.Contents) > 0 && len(payload.Contents[0].Parts) > 0 {
			gotPrompt = payload.Contents[0].Parts[0].Text
		}
		gotTemperature = payload.GenerationConfig.Temperature

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"A p-value "},{"text":"is a probability."}]}}]}`)
	})

	reply, err := generator.Generate(context.Background(), "User: What is a p-value?", domain.GenerationConfig{Temperature: 0.7})
	require.NoError(t, err)

	assert.Equal(t, "A p-value is a probability.", reply.Text())
	assert.False(t, reply.Malformed())
	assert.True(t, strings.HasSuffix(gotPath, "models/"+DefaultModel+":generateContent"), gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "User: What is a p-value?", gotPrompt)
	assert.InDelta(t, 0.7, gotTemperature, 0.0001)
}

func TestGeneratorWithoutCandidatesIsMissingContent(t *testing.T) {
	t.Parallel()

	generator := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	})

	reply, err := generator.Generate(context.Background(), "prompt", domain.GenerationConfig{})
	require.NoError(t, err)
	assert.True(t, reply.Malformed())
	assert.Equal(t, domain.MissingContentPlaceholder, reply.Text())
}

func TestGeneratorSurfacesAPIErrors(t *testing.T) {
	t.Parallel()

	generator := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	})

	_, err := generator.Generate(context.Background(), "prompt", domain.GenerationConfig{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "gemini generate content")
}
