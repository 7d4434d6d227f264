package application

import (
	"sync"
	"time"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
	"github.com/google/uuid"
)

const DefaultDisplayWindow = 10

type SessionOptions struct {
	DisplayWindow int
	SummaryWidth  int
}

// SessionStore keeps the message log, the sidebar summaries and the memory
// buffer of one chat session. All three change together or not at all.
type SessionStore struct {
	mu        sync.RWMutex
	id        string
	startedAt time.Time
	opts      SessionOptions
	clock     ports.Clock

	messages  []domain.Message
	summaries []string
	memory    []domain.Exchange
}

func NewSessionStore(opts SessionOptions, clock ports.Clock) *SessionStore {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if opts.DisplayWindow <= 0 {
		opts.DisplayWindow = DefaultDisplayWindow
	}
	if opts.SummaryWidth <= 0 {
		opts.SummaryWidth = domain.DefaultSummaryWidth
	}

	return &SessionStore{
		id:        uuid.Must(uuid.NewV7()).String(),
		startedAt: clock.Now().UTC(),
		opts:      opts,
		clock:     clock,
	}
}

func (s *SessionStore) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.id
}

func (s *SessionStore) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.startedAt
}

func (s *SessionStore) AppendTurn(userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages,
		domain.Message{Role: domain.RoleUser, Content: userText},
		domain.Message{Role: domain.RoleAssistant, Content: assistantText},
	)
	s.summaries = append(s.summaries, domain.SummaryLine(userText, assistantText, s.opts.SummaryWidth))
	s.memory = append(s.memory, domain.Exchange{Human: userText, AI: assistantText})
}

// Clear drops every stored turn. Clearing an empty store is a no-op.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	s.summaries = nil
	s.memory = nil
}

// Reset starts a new chat: the stores are emptied and the session gets a fresh
// id and start time, so its transcript never replaces an earlier one.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = uuid.Must(uuid.NewV7()).String()
	s.startedAt = s.clock.Now().UTC()
	s.messages = nil
	s.summaries = nil
	s.memory = nil
}

func (s *SessionStore) ReadMemory() []domain.Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Exchange, len(s.memory))
	copy(out, s.memory)
	return out
}

// DisplayWindow returns the most recent summaries, oldest first.
func (s *SessionStore) DisplayWindow() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.summaries) - s.opts.DisplayWindow
	if start < 0 {
		start = 0
	}

	out := make([]string, len(s.summaries)-start)
	copy(out, s.summaries[start:])
	return out
}

func (s *SessionStore) Messages() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *SessionStore) Turns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.memory)
}

func (s *SessionStore) Snapshot(cfg domain.GenerationConfig, exportedAt time.Time) domain.Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]domain.Message, len(s.messages))
	copy(messages, s.messages)
	memory := make([]domain.Exchange, len(s.memory))
	copy(memory, s.memory)

	return domain.Transcript{
		SessionID:  s.id,
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		StartedAt:  s.startedAt,
		ExportedAt: exportedAt.UTC(),
		Messages:   messages,
		Memory:     memory,
	}
}
