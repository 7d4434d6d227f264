package toml

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	TranscriptsDirKey = "transcripts.dir"

	transcriptFileMode = 0o600
	transcriptDirMode  = 0o700
	transcriptExt      = ".toml"
	tempFilePattern    = ".transcript-*.toml.tmp"
)

// Repository stores one TOML file per exported session.
type Repository struct {
	dir    string
	logger *slog.Logger
	mu     sync.RWMutex
}

var _ ports.TranscriptRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper, logger *slog.Logger) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dir := cfg.GetString(TranscriptsDirKey)
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".config", "dstutor", "transcripts")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve transcripts directory: %w", err)
	}

	return &Repository{dir: filepath.Clean(absDir), logger: logger}, nil
}

func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) Save(ctx context.Context, transcript domain.Transcript) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := r.pathFor(transcript.SessionID)
	if err != nil {
		return "", err
	}

	file := toSchema(transcript)
	if err := file.validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeSchema(path, file); err != nil {
		return "", err
	}

	return path, nil
}

func (r *Repository) Get(ctx context.Context, sessionID string) (domain.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transcript{}, err
	}

	path, err := r.pathFor(sessionID)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("%w: %w", domain.ErrTranscriptNotFound, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := readSchema(path)
	if err != nil {
		return domain.Transcript{}, err
	}

	return fromSchema(file), nil
}

// List summarizes every readable transcript. Files that cannot be read or
// decoded are skipped with a warning.
func (r *Repository) List(ctx context.Context) ([]domain.TranscriptSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.TranscriptSummary{}, nil
		}
		return nil, fmt.Errorf("read transcripts directory: %w", err)
	}

	summaries := make([]domain.TranscriptSummary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != transcriptExt {
			continue
		}

		path := filepath.Join(r.dir, name)
		file, err := readSchema(path)
		if err != nil {
			r.logger.Warn("skipping unreadable transcript", slog.String("path", path), slog.Any("error", err))
			continue
		}

		transcript := fromSchema(file)
		summaries = append(summaries, domain.TranscriptSummary{
			SessionID:  transcript.SessionID,
			StartedAt:  transcript.StartedAt,
			ExportedAt: transcript.ExportedAt,
			Turns:      transcript.Turns(),
			Path:       path,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.Before(summaries[j].StartedAt)
	})

	return summaries, nil
}

func (r *Repository) pathFor(sessionID string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(sessionID))
	if err != nil {
		return "", fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}

	return filepath.Join(r.dir, id.String()+transcriptExt), nil
}

func readSchema(path string) (transcriptSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return transcriptSchema{}, domain.ErrTranscriptNotFound
		}
		return transcriptSchema{}, fmt.Errorf("read transcript file: %w", err)
	}

	var file transcriptSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return transcriptSchema{}, fmt.Errorf("decode transcript %s: %w", filepath.Base(path), err)
	}
	file.applyDefaults()
	if err := file.validate(); err != nil {
		return transcriptSchema{}, err
	}

	return file, nil
}

func (r *Repository) writeSchema(path string, file transcriptSchema) error {
	if err := os.MkdirAll(r.dir, transcriptDirMode); err != nil {
		return fmt.Errorf("create transcripts directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	tempFile, err := os.CreateTemp(r.dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp transcript file: %w", err)
	}

	tempName := tempFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp transcript file: %w", err)
	}
	if err := tempFile.Chmod(transcriptFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp transcript file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp transcript file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace transcript file: %w", err)
	}
	committed = true

	return nil
}
