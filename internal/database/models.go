package database

import (
	"time"

	"github.com/abc-assistant/assistant/internal/conversation"
)

// Setting is one persisted key-value preference.
type Setting struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Interaction is one completed question/answer exchange, kept for the admin
// view. Sources are stored as JSON in SourcesJSON.
type Interaction struct {
	ID        int64     `db:"id"                json:"id"                yaml:"id"`
	CreatedAt time.Time `db:"created_at"        json:"created_at"        yaml:"created_at"`
	RequestID string    `db:"request_id"        json:"request_id"        yaml:"request_id"`

	// ConversationID identifies the surface, e.g. "telegram:12345" or "terminal".
	ConversationID string `db:"conversation_id" json:"conversation_id" yaml:"conversation_id"`

	Question         string `db:"question"          json:"question"          yaml:"question"`
	Response         string `db:"response"          json:"response"          yaml:"response"`
	QuestionLanguage string `db:"question_language" json:"question_language" yaml:"question_language"`
	ResponseLanguage string `db:"response_language" json:"response_language" yaml:"response_language"`

	SourcesJSON string                `db:"sources" json:"-"       yaml:"-"`
	Sources     []conversation.Source `db:"-"       json:"sources" yaml:"sources"`

	Success        bool  `db:"success"          json:"success"          yaml:"success"`
	ResponseTimeMS int64 `db:"response_time_ms" json:"response_time_ms" yaml:"response_time_ms"`
}
