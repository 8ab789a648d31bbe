package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abc-assistant/assistant/internal/conversation"
	"github.com/abc-assistant/assistant/internal/database"
	"github.com/abc-assistant/assistant/internal/errs"
	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/logger"
	"github.com/abc-assistant/assistant/internal/text"
)

var (
	// ErrEmptyMessage rejects blank input.
	ErrEmptyMessage = errors.New("cannot send empty message")
	// ErrBusy rejects a submit while another one is in flight.
	ErrBusy = errors.New("a message is already being processed")
)

// Sender delivers one question to the backend.
type Sender interface {
	Send(ctx context.Context, text string, lang language.Code) Response
}

// LanguagePreference persists the active language of a conversation.
type LanguagePreference interface {
	Load(ctx context.Context) language.Code
	Save(ctx context.Context, c language.Code) error
}

// InteractionRecorder stores completed exchanges for the admin view.
type InteractionRecorder interface {
	SaveInteraction(ctx context.Context, in *database.Interaction) error
}

// SessionConfig holds the collaborators of a Session. Recorder and Logger
// are optional.
type SessionConfig struct {
	ID           string
	Sender       Sender
	Orchestrator *conversation.Orchestrator
	Preference   LanguagePreference
	Recorder     InteractionRecorder
	Logger       *slog.Logger
}

// Turn is the outcome of one submit.
type Turn struct {
	UserIndex int
	User      conversation.Block
	BotIndex  int
	Bot       conversation.Block
	Response  Response
}

// Session is one conversation: its block store, its active language and the
// busy flag that keeps chat requests from overlapping.
type Session struct {
	id           string
	store        *conversation.Store
	sender       Sender
	orchestrator *conversation.Orchestrator
	pref         LanguagePreference
	recorder     InteractionRecorder
	log          *slog.Logger

	busy atomic.Bool
	// lastActive is the unix-nano time of the last submit or language switch.
	lastActive atomic.Int64

	// switchMu serializes language switches so rounds commit in order.
	switchMu sync.Mutex
	mu       sync.RWMutex
	lang     language.Code
}

// NewSession creates a session and loads its language preference.
func NewSession(ctx context.Context, cfg SessionConfig) *Session {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	s := &Session{
		id:           cfg.ID,
		store:        conversation.NewStore(),
		sender:       cfg.Sender,
		orchestrator: cfg.Orchestrator,
		pref:         cfg.Preference,
		recorder:     cfg.Recorder,
		log:          log.With("component", "session", "conversation_id", cfg.ID),
		lang:         language.Default,
	}
	if s.pref != nil {
		s.lang = s.pref.Load(ctx)
	}
	s.touch()
	return s
}

func (s *Session) touch() { s.lastActive.Store(time.Now().UnixNano()) }

// LastActive returns when the session was last used.
func (s *Session) LastActive() time.Time { return time.Unix(0, s.lastActive.Load()) }

// ID returns the conversation id.
func (s *Session) ID() string { return s.id }

// Store returns the block store rendered by the surface.
func (s *Session) Store() *conversation.Store { return s.store }

// Language returns the active language.
func (s *Session) Language() language.Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// Processing reports whether a chat request is in flight.
func (s *Session) Processing() bool { return s.busy.Load() }

// Submit runs one question through the lifecycle. The busy flag is held for
// the whole call and released exactly once on every path. The bot block is
// the answer with its sources or, on any transport failure, the apology.
// The user block keeps the input as typed; the cleaned form is what gets sent.
func (s *Session) Submit(ctx context.Context, input string) (Turn, error) {
	msg := text.Clean(input)
	if msg == "" {
		return Turn{}, ErrEmptyMessage
	}
	if !s.busy.CompareAndSwap(false, true) {
		return Turn{}, ErrBusy
	}
	defer s.busy.Store(false)
	defer s.touch()

	lang := s.Language()
	user := conversation.NewUserBlock(input)
	turn := Turn{User: user, UserIndex: s.store.Append(user)}

	start := time.Now()
	resp := s.sender.Send(ctx, msg, lang)
	elapsed := time.Since(start)
	turn.Response = resp

	if resp.Success {
		turn.Bot = conversation.NewBotBlock(resp.Message)
		turn.BotIndex = s.store.Append(turn.Bot)
		s.store.AttachSources(resp.Sources)
		turn.Bot, _ = s.store.Block(turn.BotIndex)
	} else {
		turn.Bot = conversation.NewApologyBlock()
		turn.BotIndex = s.store.Append(turn.Bot)
	}

	s.record(ctx, turn, elapsed)
	return turn, nil
}

// SetLanguage makes c the active language, persists it and re-renders the
// conversation. It reports whether any block text changed.
func (s *Session) SetLanguage(ctx context.Context, c language.Code) (bool, error) {
	if !c.IsSupported() {
		return false, errs.NewValidationError("unsupported language: "+c.String(), nil)
	}

	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	defer s.touch()

	s.mu.Lock()
	prev := s.lang
	s.lang = c
	s.mu.Unlock()

	if s.pref != nil {
		if err := s.pref.Save(ctx, c); err != nil {
			s.log.WarnContext(ctx, "Failed to persist language preference", "language", c, "error", err)
		}
	}
	if prev == c || s.orchestrator == nil {
		return false, nil
	}

	s.log.InfoContext(ctx, "Active language changed", "from", prev, "to", c)
	return s.orchestrator.Retranslate(ctx, s.store, c), nil
}

// Reset clears the visible conversation. The language is kept.
func (s *Session) Reset() {
	s.store.Reset()
}

func (s *Session) record(ctx context.Context, turn Turn, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	in := &database.Interaction{
		CreatedAt:        time.Now(),
		RequestID:        turn.Response.RequestID,
		ConversationID:   s.id,
		Question:         turn.User.OriginalMessage,
		Response:         turn.Bot.OriginalMessage,
		QuestionLanguage: turn.User.OriginalLanguage.String(),
		ResponseLanguage: turn.Bot.OriginalLanguage.String(),
		Sources:          turn.Bot.Sources,
		Success:          turn.Response.Success,
		ResponseTimeMS:   elapsed.Milliseconds(),
	}
	if err := s.recorder.SaveInteraction(ctx, in); err != nil {
		s.log.WarnContext(ctx, "Failed to record interaction", "error", err)
	}
}
