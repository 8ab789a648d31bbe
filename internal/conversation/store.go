package conversation

import (
	"sync"

	"github.com/abc-assistant/assistant/internal/language"
)

// EventKind identifies a store mutation.
type EventKind int

const (
	// EventAppended: a block was added at Index.
	EventAppended EventKind = iota
	// EventSourcesAttached: Index received its sources.
	EventSourcesAttached
	// EventRetranslated: the display text of Indexes changed in one commit.
	EventRetranslated
	// EventReset: the conversation was cleared.
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventAppended:
		return "appended"
	case EventSourcesAttached:
		return "sources_attached"
	case EventRetranslated:
		return "retranslated"
	case EventReset:
		return "reset"
	}
	return "unknown"
}

// Event describes a store mutation to observers.
type Event struct {
	Kind    EventKind
	Index   int
	Indexes []int
}

// Observer is notified after every mutation, outside the store lock.
type Observer func(Event)

// Store is the ordered block sequence of one conversation. Blocks are only
// appended; the single in-place update is the Orchestrator's rewrite of
// display text.
type Store struct {
	mu        sync.RWMutex
	blocks    []Block
	epoch     uint64
	observers []Observer
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers o for all future events.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Append adds b to the end of the store and returns its index.
func (s *Store) Append(b Block) int {
	if b.Sources == nil {
		b.Sources = []Source{}
	}
	s.mu.Lock()
	s.blocks = append(s.blocks, b.clone())
	idx := len(s.blocks) - 1
	obs := s.observers
	s.mu.Unlock()

	notify(obs, Event{Kind: EventAppended, Index: idx})
	return idx
}

// AttachSources sets sources on the most recently appended BOT block. It
// returns the block index, or -1 when the store has no BOT block.
func (s *Store) AttachSources(sources []Source) int {
	s.mu.Lock()
	idx := -1
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if s.blocks[i].SentBy == SentByBot {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return -1
	}
	s.blocks[idx].Sources = append([]Source{}, sources...)
	obs := s.observers
	s.mu.Unlock()

	notify(obs, Event{Kind: EventSourcesAttached, Index: idx})
	return idx
}

// Len returns the number of blocks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks)
}

// Block returns a copy of the block at i.
func (s *Store) Block(i int) (Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.blocks) {
		return Block{}, false
	}
	return s.blocks[i].clone(), true
}

// Last returns a copy of the most recent block.
func (s *Store) Last() (Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.blocks) == 0 {
		return Block{}, false
	}
	return s.blocks[len(s.blocks)-1].clone(), true
}

// Snapshot returns a copy of all blocks in order.
func (s *Store) Snapshot() []Block {
	blocks, _ := s.snapshot()
	return blocks
}

// Reset clears the conversation.
func (s *Store) Reset() {
	s.mu.Lock()
	s.blocks = nil
	s.epoch++
	obs := s.observers
	s.mu.Unlock()

	notify(obs, Event{Kind: EventReset, Index: -1})
}

func (s *Store) snapshot() ([]Block, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Block, len(s.blocks))
	for i, b := range s.blocks {
		out[i] = b.clone()
	}
	return out, s.epoch
}

// backfillOriginals stamps originals on blocks that predate them.
func (s *Store) backfillOriginals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.blocks {
		b := &s.blocks[i]
		if b.OriginalMessage == "" && b.Message != "" {
			b.OriginalMessage = b.Message
			b.OriginalLanguage = language.Default
			n++
		}
		if b.OriginalLanguage == "" {
			b.OriginalLanguage = language.Default
		}
	}
	return n
}

// rewrite replaces the display text of the given indexes in one step. It is
// discarded when the store was reset since epoch. Only indexes whose text
// differs are touched; observers get one event listing them.
func (s *Store) rewrite(epoch uint64, texts map[int]string) []int {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return nil
	}
	var changed []int
	for i := range s.blocks {
		text, ok := texts[i]
		if !ok || s.blocks[i].Message == text {
			continue
		}
		s.blocks[i].Message = text
		changed = append(changed, i)
	}
	obs := s.observers
	s.mu.Unlock()

	if len(changed) > 0 {
		notify(obs, Event{Kind: EventRetranslated, Index: -1, Indexes: changed})
	}
	return changed
}

func notify(observers []Observer, e Event) {
	for _, o := range observers {
		o(e)
	}
}
