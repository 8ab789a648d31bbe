package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/abc-assistant/assistant/internal/conversation"
	"github.com/abc-assistant/assistant/internal/logger"
)

// Interaction list bounds.
const (
	DefaultInteractionLimit = 20
	MaxInteractionLimit     = 500
)

// Store defines the database operations used by the application.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetSetting returns the value stored under key; ok is false when absent.
	GetSetting(ctx context.Context, key string) (value string, ok bool, err error)

	// SetSetting inserts or replaces the value stored under key.
	SetSetting(ctx context.Context, key, value string) error

	// DeleteSetting removes key. Deleting a missing key is not an error.
	DeleteSetting(ctx context.Context, key string) error

	// SaveInteraction appends an entry to the interaction log.
	SaveInteraction(ctx context.Context, in *Interaction) error

	// GetRecentInteractions returns up to limit interactions, newest first.
	GetRecentInteractions(ctx context.Context, limit int) ([]*Interaction, error)

	// DeleteInteractionsBefore prunes interactions older than cutoff.
	DeleteInteractionsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by db.
func NewStore(db *sqlx.DB, log *slog.Logger) Store {
	if log == nil {
		log = logger.Discard()
	}
	return &sqlxStore{
		db:     db,
		logger: log.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?;`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read setting", "key", key, "error", err)
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

func (s *sqlxStore) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key cannot be empty")
	}
	query := `
        INSERT INTO settings (key, value, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write setting", "key", key, "error", err)
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Setting saved", "key", key)
	return nil
}

func (s *sqlxStore) DeleteSetting(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?;`, key); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete setting", "key", key, "error", err)
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

func (s *sqlxStore) SaveInteraction(ctx context.Context, in *Interaction) error {
	if in == nil {
		return fmt.Errorf("cannot save nil interaction")
	}
	if in.Question == "" {
		return fmt.Errorf("interaction must have a non-empty question")
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	in.CreatedAt = in.CreatedAt.UTC()

	sources := in.Sources
	if sources == nil {
		sources = []conversation.Source{}
	}
	raw, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("failed to encode interaction sources: %w", err)
	}
	in.SourcesJSON = string(raw)

	query := `
        INSERT INTO interactions (
            created_at, request_id, conversation_id, question, response,
            question_language, response_language, sources, success, response_time_ms
        ) VALUES (
            :created_at, :request_id, :conversation_id, :question, :response,
            :question_language, :response_language, :sources, :success, :response_time_ms
        );
    `
	res, err := s.db.NamedExecContext(ctx, query, in)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save interaction", "conversation_id", in.ConversationID, "error", err)
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		in.ID = id
	}
	return nil
}

func (s *sqlxStore) GetRecentInteractions(ctx context.Context, limit int) ([]*Interaction, error) {
	if limit <= 0 {
		limit = DefaultInteractionLimit
	} else if limit > MaxInteractionLimit {
		limit = MaxInteractionLimit
		s.logger.DebugContext(ctx, "Interaction limit capped", "limit", limit)
	}

	var interactions []*Interaction
	query := `
        SELECT id, created_at, request_id, conversation_id, question, response,
               question_language, response_language, sources, success, response_time_ms
        FROM interactions
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &interactions, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch interactions", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}

	for _, in := range interactions {
		in.Sources = []conversation.Source{}
		if in.SourcesJSON == "" {
			continue
		}
		if err := json.Unmarshal([]byte(in.SourcesJSON), &in.Sources); err != nil {
			s.logger.WarnContext(ctx, "Ignoring malformed interaction sources", "id", in.ID, "error", err)
			in.Sources = []conversation.Source{}
		}
	}
	return interactions, nil
}

func (s *sqlxStore) DeleteInteractionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM interactions WHERE created_at < ?;`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to prune interactions", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete interactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// RunSQLMaintenance executes VACUUM and ANALYZE. VACUUM cannot run inside a
// transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		s.logger.WarnContext(ctx, "Context done before starting VACUUM", "error", err)
		return err
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	start := time.Now()

	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to execute VACUUM", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to execute ANALYZE", "error", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
