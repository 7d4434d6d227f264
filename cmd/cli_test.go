package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerateEndpoint struct {
	mu      sync.Mutex
	prompts []string
	auth    []string
}

func (f *fakeGenerateEndpoint) record(r *http.Request) (string, error) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, body.Prompt)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	return body.Prompt, nil
}

func (f *fakeGenerateEndpoint) snapshot() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...), append([]string(nil), f.auth...)
}

// newAnsweringServer replies "answer N" to the Nth request.
func newAnsweringServer(t *testing.T, delay time.Duration) (*httptest.Server, *fakeGenerateEndpoint) {
	t.Helper()

	endpoint := &fakeGenerateEndpoint{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := endpoint.record(r); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		time.Sleep(delay)

		prompts, _ := endpoint.snapshot()
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"content":"answer %d"}`, len(prompts))
	}))
	t.Cleanup(server.Close)

	return server, endpoint
}

func useHTTPProvider(t *testing.T, baseURL string, apiKey string) {
	t.Helper()
	t.Setenv("DSTUTOR_MODEL_PROVIDER", "http")
	t.Setenv("DSTUTOR_MODEL_BASE_URL", baseURL)
	t.Setenv("DSTUTOR_API_KEY", apiKey)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dst dev\n", stdout)
}

func TestAskKeepsConversationMemoryAcrossQuestions(t *testing.T) {
	server, endpoint := newAnsweringServer(t, 0)
	useHTTPProvider(t, server.URL, "test-key")

	stdout, _, err := executeCLI(t, t.TempDir(), "ask", "What is overfitting?", "How do I avoid it?", "--json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var output askOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	assert.NotEmpty(t, output.SessionID)
	assert.Equal(t, "http", output.Provider)
	require.Len(t, output.Messages, 4)
	assert.Equal(t, askMessage{Role: "user", Content: "What is overfitting?"}, output.Messages[0])
	assert.Equal(t, askMessage{Role: "assistant", Content: "answer 1"}, output.Messages[1])
	assert.Equal(t, askMessage{Role: "assistant", Content: "answer 2"}, output.Messages[3])
	assert.Equal(t, []askExchange{
		{Human: "What is overfitting?", AI: "answer 1"},
		{Human: "How do I avoid it?", AI: "answer 2"},
	}, output.Memory)
	assert.Equal(t, []string{
		"What is overfitting?... - answer 1...",
		"How do I avoid it?... - answer 2...",
	}, output.History)

	prompts, auth := endpoint.snapshot()
	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[0], "(no previous turns)")
	assert.Contains(t, prompts[1], "Human: What is overfitting?\nAI: answer 1")
	assert.True(t, strings.HasSuffix(prompts[1], "User: How do I avoid it?"))
	assert.Equal(t, []string{"Bearer test-key", "Bearer test-key"}, auth)
}

func TestAskRendersAnswer(t *testing.T) {
	server, _ := newAnsweringServer(t, 0)
	useHTTPProvider(t, server.URL, "test-key")

	stdout, _, err := executeCLI(t, t.TempDir(), "ask", "What is a z-score?")
	require.NoError(t, err)
	assert.Contains(t, stdout, "You")
	assert.Contains(t, stdout, "What is a z-score?")
	assert.Contains(t, stdout, "Tutor")
	assert.Contains(t, stdout, "answer 1")
}

func TestAskWithoutAPIKeyFails(t *testing.T) {
	server, endpoint := newAnsweringServer(t, 0)
	useHTTPProvider(t, server.URL, "")

	_, _, err := executeCLI(t, t.TempDir(), "ask", "What is a p-value?")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
	assert.Contains(t, err.Error(), "dst auth set")

	prompts, _ := endpoint.snapshot()
	assert.Empty(t, prompts)
}

func TestAskUsesStoredAPIKey(t *testing.T) {
	server, endpoint := newAnsweringServer(t, 0)
	useHTTPProvider(t, server.URL, "")
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "auth", "set", "--value", "stored-key")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "ask", "What is bagging?", "--json")
	require.NoError(t, err)

	_, auth := endpoint.snapshot()
	assert.Equal(t, []string{"Bearer stored-key"}, auth)
}

func TestAskFlagOverridesEnvironmentKey(t *testing.T) {
	server, endpoint := newAnsweringServer(t, 0)
	useHTTPProvider(t, server.URL, "env-key")

	_, _, err := executeCLI(t, t.TempDir(), "ask", "What is boosting?", "--json", "--api-key", "flag-key")
	require.NoError(t, err)

	_, auth := endpoint.snapshot()
	assert.Equal(t, []string{"Bearer flag-key"}, auth)
}

func TestAskReturnsGenerationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprint(w, "upstream unavailable")
	}))
	defer server.Close()
	useHTTPProvider(t, server.URL, "test-key")

	_, _, err := executeCLI(t, t.TempDir(), "ask", "What is PCA?", "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate endpoint returned 502")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestAskSubstitutesPlaceholderForMissingContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"text":"wrong field"}`)
	}))
	defer server.Close()
	useHTTPProvider(t, server.URL, "test-key")

	stdout, _, err := executeCLI(t, t.TempDir(), "ask", "What is PCA?", "--json")
	require.NoError(t, err)

	var output askOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	require.Len(t, output.Messages, 2)
	assert.Equal(t, domain.MissingContentPlaceholder, output.Messages[1].Content)
}

func TestUnknownProviderFailsBeforeAnyCommandRuns(t *testing.T) {
	t.Setenv("DSTUTOR_MODEL_PROVIDER", "bogus")
	t.Setenv("DSTUTOR_API_KEY", "test-key")

	_, _, err := executeCLI(t, t.TempDir(), "ask", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), `unknown model provider "bogus"`)
}

func TestChatSessionCommands(t *testing.T) {
	server, _ := newAnsweringServer(t, 0)
	useHTTPProvider(t, server.URL, "test-key")
	home := t.TempDir()

	stdout, _, err := executeCLIWithInput(t, home,
		"What is a p-value?\n/history\n/save\n/exit\nnever sent\n",
		"chat",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Conversational AI Data Science Assistant")
	assert.Contains(t, stdout, "answer 1")
	assert.Contains(t, stdout, "Chat History")
	assert.Contains(t, stdout, "1. What is a p-value?... - answer 1...")
	assert.Contains(t, stdout, "Transcript saved to")
	assert.NotContains(t, stdout, "never sent")

	entries, err := os.ReadDir(filepath.Join(home, ".config", "dstutor", "transcripts"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	sessionID := strings.TrimSuffix(entries[0].Name(), ".toml")

	stdout, _, err = executeCLI(t, home, "transcript", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, sessionID)
	assert.Contains(t, stdout, "1 turns")

	stdout, _, err = executeCLI(t, home, "transcript", "show", sessionID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Session "+sessionID)
	assert.Contains(t, stdout, "What is a p-value?")
	assert.Contains(t, stdout, "answer 1")
}

func TestChatNewChatSavesSeparateTranscript(t *testing.T) {
	server, _ := newAnsweringServer(t, 0)
	useHTTPProvider(t, server.URL, "test-key")
	home := t.TempDir()

	_, _, err := executeCLIWithInput(t, home,
		"What is a median?\n/save\n/new\nWhat is a mode?\n/save\n/exit\n",
		"chat",
	)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(home, ".config", "dstutor", "transcripts"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	stdout, _, err := executeCLI(t, home, "transcript", "list")
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Contains(t, stdout, strings.TrimSuffix(entry.Name(), ".toml"))
	}
	assert.Equal(t, 2, strings.Count(stdout, "1 turns"))
}

func TestChatFailedTurnKeepsPriorHistory(t *testing.T) {
	var calls int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls++
		call := calls
		mu.Unlock()

		if call == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = fmt.Fprint(w, "model exploded")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"content":"reply %d"}`, call)
	}))
	defer server.Close()
	useHTTPProvider(t, server.URL, "test-key")

	stdout, _, err := executeCLIWithInput(t, t.TempDir(),
		"first\nsecond\nthird\n/history\n",
		"chat",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Error: generation failed")
	assert.Contains(t, stdout, "model exploded")
	assert.Contains(t, stdout, "1. first... - reply 1...")
	assert.Contains(t, stdout, "2. third... - reply 3...")
	assert.NotContains(t, stdout, "second... -")
}

func TestChatClearAndNewEmptyHistory(t *testing.T) {
	server, _ := newAnsweringServer(t, 0)
	useHTTPProvider(t, server.URL, "test-key")

	stdout, _, err := executeCLIWithInput(t, t.TempDir(),
		"q1\n/clear\n/history\nq2\n/new\n/history\n/save\n/quit\n",
		"chat",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Chat history cleared.")
	assert.Contains(t, stdout, "Started a new chat.")
	assert.Equal(t, 2, strings.Count(stdout, "No chats yet."))
	assert.Contains(t, stdout, "Nothing to save yet.")
}

func TestChatUnknownSlashCommand(t *testing.T) {
	server, endpoint := newAnsweringServer(t, 0)
	useHTTPProvider(t, server.URL, "test-key")

	stdout, _, err := executeCLIWithInput(t, t.TempDir(), "/bogus\n/help\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Unknown command /bogus")
	assert.Contains(t, stdout, "/history")

	prompts, _ := endpoint.snapshot()
	assert.Empty(t, prompts)
}

func TestChatShowsThinkingSpinner(t *testing.T) {
	server, _ := newAnsweringServer(t, 200*time.Millisecond)
	useHTTPProvider(t, server.URL, "test-key")

	_, stderr, err := executeCLIWithInput(t, t.TempDir(), "What is a t-test?\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Thinking...")
}

func TestAuthSetRequiresValueFlag(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "auth", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"value\" not set")
}

func TestAuthSetStatusRemove(t *testing.T) {
	t.Setenv("DSTUTOR_API_KEY", "")
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "API key: not configured")

	stdout, _, err = executeCLI(t, home, "auth", "set", "--value", "sk-secret-123")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dstutor/api_key")
	assert.NotContains(t, stdout, "sk-secret-123")

	stdout, stderr, err := executeCLI(t, home, "auth", "status", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stdout, "API key: configured (source: secret store)")
	assert.NotContains(t, stdout, "sk-secret-123")
	assert.NotContains(t, stderr, "sk-secret-123")

	_, _, err = executeCLI(t, home, "auth", "remove")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "API key: not configured")
}

func TestAuthStatusReportsEnvironmentSource(t *testing.T) {
	t.Setenv("DSTUTOR_API_KEY", "env-key")

	stdout, _, err := executeCLI(t, t.TempDir(), "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "source: environment")
}

func TestTranscriptListEmpty(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "transcript", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No transcripts saved.")
}

func TestTranscriptShowUnknownSession(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "transcript", "show", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTranscriptNotFound)
}

func TestAPIKeyPromptMasksAndSubmits(t *testing.T) {
	var model tea.Model = newAPIKeyPromptModel()

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("sk-typed")})
	view := model.View()
	assert.Contains(t, view, "Enter your API key")
	assert.NotContains(t, view, "sk-typed")

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	prompt, ok := model.(apiKeyPromptModel)
	require.True(t, ok)
	assert.True(t, prompt.submitted)
	assert.Equal(t, "sk-typed", prompt.value())
	assert.Empty(t, prompt.View())
}

func TestAPIKeyPromptCancel(t *testing.T) {
	var model tea.Model = newAPIKeyPromptModel()

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	prompt, ok := model.(apiKeyPromptModel)
	require.True(t, ok)
	assert.True(t, prompt.cancelled)
	assert.Empty(t, prompt.value())
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home string, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("GOOGLE_API_KEY", "")
	// Keeps the pass backend out of tests; secrets fall back to files under HOME.
	t.Setenv("PATH", "")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(input))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
