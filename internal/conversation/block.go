// Package conversation holds the visible conversation: message blocks, their
// citation sources, the ordered block store and the orchestrator that
// re-renders every block when the active language changes.
package conversation

import (
	"time"

	"github.com/abc-assistant/assistant/internal/language"
)

// SentBy tags the origin of a block.
type SentBy string

const (
	SentByUser SentBy = "USER"
	SentByBot  SentBy = "BOT"
)

// Type is the payload kind of a block.
type Type string

const TypeText Type = "TEXT"

// State is the lifecycle marker of a block.
type State string

const (
	StateProcessing State = "PROCESSING"
	StateSent       State = "SENT"
	StateReceived   State = "RECEIVED"
)

// ApologyMessage replaces the bot answer whenever the chat call fails.
const ApologyMessage = "Sorry, I'm having trouble responding right now. Please try again later."

// Block is one conversational turn. OriginalMessage and OriginalLanguage are
// stamped at creation and never change; Message is the display text and is
// rewritten only by the Orchestrator.
type Block struct {
	Message          string
	OriginalMessage  string
	OriginalLanguage language.Code
	SentBy           SentBy
	Type             Type
	State            State
	Sources          []Source
	CreatedAt        time.Time
}

// NewBlock creates a block for text, detecting its language. The same
// constructor serves user and bot text.
func NewBlock(text string, sentBy SentBy, typ Type, state State) Block {
	return Block{
		Message:          text,
		OriginalMessage:  text,
		OriginalLanguage: language.Detect(text),
		SentBy:           sentBy,
		Type:             typ,
		State:            state,
		Sources:          []Source{},
		CreatedAt:        time.Now(),
	}
}

// NewUserBlock creates a SENT text block for user input.
func NewUserBlock(text string) Block {
	return NewBlock(text, SentByUser, TypeText, StateSent)
}

// NewBotBlock creates a RECEIVED text block for a bot answer.
func NewBotBlock(text string) Block {
	return NewBlock(text, SentByBot, TypeText, StateReceived)
}

// NewApologyBlock creates the BOT block shown when the chat call fails.
func NewApologyBlock() Block {
	return NewBotBlock(ApologyMessage)
}

// IsBot reports whether the block is a bot answer.
func (b Block) IsBot() bool { return b.SentBy == SentByBot }

func (b Block) clone() Block {
	c := b
	c.Sources = append([]Source{}, b.Sources...)
	return c
}
