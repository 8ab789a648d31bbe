package conversation

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/quick"
	"time"

	"github.com/abc-assistant/assistant/internal/language"
)

// prefixTranslator marks text with the target language unless the
// languages already match.
type prefixTranslator struct {
	calls atomic.Int32
	fail  bool
}

func (p *prefixTranslator) TranslateText(_ context.Context, text string, target, source language.Code) string {
	if text == "" || target == source {
		return text
	}
	p.calls.Add(1)
	if p.fail {
		return text
	}
	return "[" + string(target) + "] " + text
}

func seedStore(texts ...string) *Store {
	s := NewStore()
	for i, text := range texts {
		if i%2 == 0 {
			s.Append(NewUserBlock(text))
		} else {
			s.Append(NewBotBlock(text))
		}
	}
	return s
}

func TestRetranslatePreservesLengthOrderAndOriginals(t *testing.T) {
	t.Parallel()

	o := NewOrchestrator(&prefixTranslator{}, 4, nil)

	property := func(texts []string) bool {
		s := seedStore(texts...)
		before := s.Snapshot()

		o.Retranslate(context.Background(), s, language.Spanish)

		after := s.Snapshot()
		if len(after) != len(before) {
			return false
		}
		for i := range before {
			b, a := before[i], after[i]
			if a.OriginalMessage != b.OriginalMessage || a.OriginalLanguage != b.OriginalLanguage ||
				a.SentBy != b.SentBy || a.State != b.State || a.Type != b.Type || len(a.Sources) != len(b.Sources) {
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestRetranslateIsIdempotent(t *testing.T) {
	t.Parallel()

	s := seedStore("How many people donate blood?", "About 6.8 million people donate.")
	o := NewOrchestrator(&prefixTranslator{}, 2, nil)

	var rewrites int
	s.Subscribe(func(e Event) {
		if e.Kind == EventRetranslated {
			rewrites++
		}
	})

	if !o.Retranslate(context.Background(), s, language.Spanish) {
		t.Fatal("first switch reported no change")
	}
	if o.Retranslate(context.Background(), s, language.Spanish) {
		t.Error("second switch to the same language reported a change")
	}
	if rewrites != 1 {
		t.Errorf("rewrites = %d, want 1", rewrites)
	}
}

func TestRetranslateRoundTripKeepsOriginal(t *testing.T) {
	t.Parallel()

	text := "How many people donate blood?"
	s := seedStore(text)
	o := NewOrchestrator(&prefixTranslator{}, 1, nil)

	for _, target := range []language.Code{language.Spanish, language.English, language.Spanish, language.English} {
		o.Retranslate(context.Background(), s, target)
	}

	b, _ := s.Block(0)
	if b.OriginalMessage != text {
		t.Errorf("OriginalMessage = %q, want %q", b.OriginalMessage, text)
	}
	if b.Message != text {
		t.Errorf("Message after switching back to English = %q, want original", b.Message)
	}
}

func TestRetranslateScenarioC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fail        bool
		wantMessage string
		wantChanged bool
	}{
		{"translated", false, "[es] Approximately 6.8 million people donate blood.", true},
		{"translation fails", true, "Approximately 6.8 million people donate blood.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewStore()
			s.Append(NewBotBlock("Approximately 6.8 million people donate blood."))

			tr := &prefixTranslator{fail: tt.fail}
			changed := NewOrchestrator(tr, 1, nil).Retranslate(context.Background(), s, language.Spanish)
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			b, _ := s.Block(0)
			if b.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", b.Message, tt.wantMessage)
			}
			if tr.calls.Load() != 1 {
				t.Errorf("translator calls = %d, want 1", tr.calls.Load())
			}
		})
	}
}

func TestRetranslateBackfillsMissingOriginals(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Append(Block{Message: "legacy text", SentBy: SentByBot, Type: TypeText, State: StateReceived})

	NewOrchestrator(&prefixTranslator{}, 1, nil).Retranslate(context.Background(), s, language.Spanish)

	b, _ := s.Block(0)
	if b.OriginalMessage != "legacy text" || b.OriginalLanguage != language.English {
		t.Errorf("originals = (%q, %q)", b.OriginalMessage, b.OriginalLanguage)
	}
	if !strings.HasPrefix(b.Message, "[es] ") {
		t.Errorf("Message = %q, want translation", b.Message)
	}
}

func TestRetranslateCancelledCommitsNothing(t *testing.T) {
	t.Parallel()

	s := seedStore("Hello there")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if NewOrchestrator(&prefixTranslator{}, 1, nil).Retranslate(ctx, s, language.Spanish) {
		t.Error("cancelled switch reported a change")
	}
	if b, _ := s.Block(0); b.Message != "Hello there" {
		t.Errorf("Message = %q", b.Message)
	}
}

// gateTranslator holds every call until release is closed.
type gateTranslator struct {
	arrived chan struct{}
	release chan struct{}
}

func (g *gateTranslator) TranslateText(_ context.Context, text string, target, _ language.Code) string {
	g.arrived <- struct{}{}
	<-g.release
	return "[" + string(target) + "] " + text
}

func TestRetranslateRunsConcurrentlyAndCommitsOnce(t *testing.T) {
	t.Parallel()

	const n = 4
	s := seedStore("one", "two", "three", "four")
	before := s.Snapshot()

	var (
		mu     sync.Mutex
		events []Event
	)
	s.Subscribe(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	retranslated := func() []Event {
		mu.Lock()
		defer mu.Unlock()
		var out []Event
		for _, e := range events {
			if e.Kind == EventRetranslated {
				out = append(out, e)
			}
		}
		return out
	}

	tr := &gateTranslator{arrived: make(chan struct{}, n), release: make(chan struct{})}
	o := NewOrchestrator(tr, n, nil)

	done := make(chan bool, 1)
	go func() { done <- o.Retranslate(context.Background(), s, language.Spanish) }()

	for i := 0; i < n; i++ {
		select {
		case <-tr.arrived:
		case <-time.After(5 * time.Second):
			close(tr.release)
			t.Fatalf("only %d of %d translations in flight", i, n)
		}
	}

	if got := s.Snapshot(); !slices.EqualFunc(got, before, func(a, b Block) bool { return a.Message == b.Message }) {
		t.Errorf("store changed before every translation returned: %+v", got)
	}
	if got := retranslated(); len(got) != 0 {
		t.Errorf("retranslated events before join: %+v", got)
	}

	close(tr.release)
	if changed := <-done; !changed {
		t.Fatal("Retranslate() = false")
	}

	got := retranslated()
	if len(got) != 1 {
		t.Fatalf("retranslated events = %d, want 1", len(got))
	}
	if !slices.Equal(got[0].Indexes, []int{0, 1, 2, 3}) {
		t.Errorf("Indexes = %v, want [0 1 2 3]", got[0].Indexes)
	}
	for i, b := range s.Snapshot() {
		if !strings.HasPrefix(b.Message, "[es] ") {
			t.Errorf("block %d = %q", i, b.Message)
		}
	}
}
