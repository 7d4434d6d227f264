package toml

import (
	"fmt"
	"time"

	"github.com/bnema/ds-tutor-cli/internal/domain"
)

const currentSchemaVersion = 1

type transcriptSchema struct {
	Version    int              `toml:"version"`
	SessionID  string           `toml:"session_id"`
	Provider   string           `toml:"provider"`
	Model      string           `toml:"model"`
	StartedAt  string           `toml:"started_at"`
	ExportedAt string           `toml:"exported_at"`
	Messages   []messageSchema  `toml:"messages"`
	Memory     []exchangeSchema `toml:"memory"`
}

type messageSchema struct {
	Role    string `toml:"role"`
	Content string `toml:"content"`
}

type exchangeSchema struct {
	Human string `toml:"human"`
	AI    string `toml:"ai"`
}

func (s *transcriptSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s transcriptSchema) validate() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported transcript schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	if s.SessionID == "" {
		return fmt.Errorf("transcript session_id is empty")
	}
	for i, message := range s.Messages {
		if !domain.Role(message.Role).Valid() {
			return fmt.Errorf("transcript message %d has unknown role %q", i, message.Role)
		}
	}

	return nil
}

func toSchema(t domain.Transcript) transcriptSchema {
	messages := make([]messageSchema, 0, len(t.Messages))
	for _, m := range t.Messages {
		messages = append(messages, messageSchema{Role: string(m.Role), Content: m.Content})
	}

	memory := make([]exchangeSchema, 0, len(t.Memory))
	for _, e := range t.Memory {
		memory = append(memory, exchangeSchema{Human: e.Human, AI: e.AI})
	}

	return transcriptSchema{
		Version:    currentSchemaVersion,
		SessionID:  t.SessionID,
		Provider:   string(t.Provider),
		Model:      t.Model,
		StartedAt:  formatTime(t.StartedAt),
		ExportedAt: formatTime(t.ExportedAt),
		Messages:   messages,
		Memory:     memory,
	}
}

func fromSchema(s transcriptSchema) domain.Transcript {
	messages := make([]domain.Message, 0, len(s.Messages))
	for _, m := range s.Messages {
		messages = append(messages, domain.Message{Role: domain.Role(m.Role), Content: m.Content})
	}

	memory := make([]domain.Exchange, 0, len(s.Memory))
	for _, e := range s.Memory {
		memory = append(memory, domain.Exchange{Human: e.Human, AI: e.AI})
	}

	return domain.Transcript{
		SessionID:  s.SessionID,
		Provider:   domain.Provider(s.Provider),
		Model:      s.Model,
		StartedAt:  parseTime(s.StartedAt),
		ExportedAt: parseTime(s.ExportedAt),
		Messages:   messages,
		Memory:     memory,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed.UTC()
}
